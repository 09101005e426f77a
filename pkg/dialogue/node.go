// Package dialogue models the branching dialogue graph and evaluates node
// content and choices against a player state snapshot. Evaluation is pure:
// the same (node, state) pair always produces the same result, and the state
// passed in is never modified.
package dialogue

import (
	"github.com/gcterminus/engine/pkg/state"
)

// ContentVariation is one authored rendering of a node. The first variation is
// the default; a variation with a When condition is preferred when it passes.
type ContentVariation struct {
	VariationID string     `json:"variation_id" yaml:"variation_id"`
	Text        string     `json:"text" yaml:"text"`
	Emotion     string     `json:"emotion,omitempty" yaml:"emotion,omitempty"`
	When        *Condition `json:"when,omitempty" yaml:"when,omitempty"`
}

// Choice is one player option on a node.
type Choice struct {
	ChoiceID   string            `json:"choice_id" yaml:"choice_id"`
	Text       string            `json:"text" yaml:"text"`
	NextNodeID string            `json:"next_node_id" yaml:"next_node_id"`
	Pattern    state.PatternType `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// VisibleWhen hides the choice entirely when unmet. EnabledWhen shows it
	// grayed out with the unmet requirement as the reason.
	VisibleWhen *Condition `json:"visible_when,omitempty" yaml:"visible_when,omitempty"`
	EnabledWhen *Condition `json:"enabled_when,omitempty" yaml:"enabled_when,omitempty"`

	StateChanges *state.Delta `json:"state_changes,omitempty" yaml:"state_changes,omitempty"`
}

// Node is a single beat of conversation with a character.
type Node struct {
	NodeID        string             `json:"node_id" yaml:"node_id"`
	Speaker       string             `json:"speaker" yaml:"speaker"`
	Content       []ContentVariation `json:"content" yaml:"content"` // never empty
	Choices       []Choice           `json:"choices,omitempty" yaml:"choices,omitempty"`
	RequiredState *Condition         `json:"required_state,omitempty" yaml:"required_state,omitempty"`
	Tags          []string           `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Graph is one character's authored dialogue, keyed by node ID.
type Graph struct {
	CharacterID string  `json:"character_id" yaml:"character_id"`
	StartNodeID string  `json:"start_node_id" yaml:"start_node_id"`
	Nodes       []*Node `json:"nodes" yaml:"nodes"`

	byID map[string]*Node
}

// Index builds the node lookup table. Call once after loading.
func (g *Graph) Index() {
	g.byID = make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		g.byID[n.NodeID] = n
	}
}

// Node looks up a node by ID.
func (g *Graph) Node(id string) (*Node, bool) {
	if g.byID == nil {
		g.Index()
	}
	n, ok := g.byID[id]
	return n, ok
}

// Start returns the graph's entry node.
func (g *Graph) Start() (*Node, bool) {
	return g.Node(g.StartNodeID)
}

package dialogue

import (
	"github.com/gcterminus/engine/pkg/state"
)

// ChoiceEvaluation is the visibility/enablement decision for one choice.
// Hidden choices are still returned so admin preview can inspect them; the
// default UI contract drops Visible=false entries before rendering.
type ChoiceEvaluation struct {
	Choice  Choice `json:"choice"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"` // unmet requirement, empty when enabled
}

// EvaluateChoices decides visibility and enablement for every choice on a
// node, in authored order. A choice with no visible_when is always visible; a
// visible choice failing enabled_when comes back disabled with the unmet
// requirement as the reason.
func EvaluateChoices(node *Node, gs *state.GameState) []ChoiceEvaluation {
	out := make([]ChoiceEvaluation, 0, len(node.Choices))
	for _, choice := range node.Choices {
		eval := ChoiceEvaluation{Choice: choice, Visible: true, Enabled: true}

		if ok, reason := choice.VisibleWhen.Evaluate(gs); !ok {
			eval.Visible = false
			eval.Enabled = false
			eval.Reason = reason
		} else if ok, reason := choice.EnabledWhen.Evaluate(gs); !ok {
			eval.Enabled = false
			eval.Reason = reason
		}

		out = append(out, eval)
	}
	return out
}

// VisibleChoices filters an evaluation down to what the default UI shows.
func VisibleChoices(evals []ChoiceEvaluation) []ChoiceEvaluation {
	out := make([]ChoiceEvaluation, 0, len(evals))
	for _, e := range evals {
		if e.Visible {
			out = append(out, e)
		}
	}
	return out
}

// ResolveContent picks the content variation to render: the first variation
// whose condition passes, falling back to index 0. Unconditioned variations
// past index 0 are alternates reachable only through this conditional path,
// matching the index-0-default contract for content authored without
// conditions.
func ResolveContent(node *Node, gs *state.GameState) ContentVariation {
	for _, v := range node.Content {
		if v.When != nil {
			if ok, _ := v.When.Evaluate(gs); ok {
				return v
			}
		}
	}
	return node.Content[0]
}

// NodeAvailable checks a node's required_state gate.
func NodeAvailable(node *Node, gs *state.GameState) (bool, string) {
	return node.RequiredState.Evaluate(gs)
}

// EvaluatedNode is the full render descriptor for one node against one state
// snapshot: what to show, and every choice decision.
type EvaluatedNode struct {
	NodeID  string             `json:"node_id"`
	Speaker string             `json:"speaker"`
	Content ContentVariation   `json:"content"`
	Choices []ChoiceEvaluation `json:"choices"`
}

// Evaluate resolves content and choices for a node in one pass.
func Evaluate(node *Node, gs *state.GameState) EvaluatedNode {
	return EvaluatedNode{
		NodeID:  node.NodeID,
		Speaker: node.Speaker,
		Content: ResolveContent(node, gs),
		Choices: EvaluateChoices(node, gs),
	}
}

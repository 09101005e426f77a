package dialogue

import (
	"fmt"
	"sort"

	"github.com/gcterminus/engine/pkg/state"
)

// TrustRange bounds a character's trust. Nil ends are unbounded.
type TrustRange struct {
	Min *int `json:"min,omitempty" yaml:"min,omitempty"`
	Max *int `json:"max,omitempty" yaml:"max,omitempty"`
}

// Condition is the gate language for nodes, choices, and content variations.
// All categories AND together, and every listed entry inside a category must
// hold. There is no OR; content that needs one is restructured into separate
// nodes. A condition referencing a character the player hasn't met fails
// closed rather than erroring, which keeps authoring forgiving of typos.
type Condition struct {
	Trust            map[string]TrustRange       `json:"trust,omitempty" yaml:"trust,omitempty"`
	Patterns         map[state.PatternType]int   `json:"patterns,omitempty" yaml:"patterns,omitempty"` // minimum per pattern
	HasGlobalFlags   []string                    `json:"has_global_flags,omitempty" yaml:"has_global_flags,omitempty"`
	LacksGlobalFlags []string                    `json:"lacks_global_flags,omitempty" yaml:"lacks_global_flags,omitempty"`
	Knowledge        map[string][]string         `json:"knowledge,omitempty" yaml:"knowledge,omitempty"` // character -> required flags
}

// IsEmpty reports whether the condition gates anything. An empty condition is
// always satisfied.
func (c *Condition) IsEmpty() bool {
	return c == nil || (len(c.Trust) == 0 &&
		len(c.Patterns) == 0 &&
		len(c.HasGlobalFlags) == 0 &&
		len(c.LacksGlobalFlags) == 0 &&
		len(c.Knowledge) == 0)
}

// Evaluate checks the condition against a state snapshot. When unmet, the
// returned reason names the first failing requirement in a stable order
// (trust, patterns, flags, exclusions, knowledge; character IDs sorted), so
// repeated evaluation of the same pair reports the same reason.
func (c *Condition) Evaluate(gs *state.GameState) (bool, string) {
	if c.IsEmpty() {
		return true, ""
	}

	for _, id := range sortedKeys(c.Trust) {
		r := c.Trust[id]
		cs, ok := gs.Character(id)
		if !ok {
			return false, fmt.Sprintf("Requires meeting %s first", id)
		}
		if r.Min != nil && cs.Trust < *r.Min {
			return false, fmt.Sprintf("Requires trust level %d with %s", *r.Min, id)
		}
		if r.Max != nil && cs.Trust > *r.Max {
			return false, fmt.Sprintf("Requires trust with %s no higher than %d", id, *r.Max)
		}
	}

	for _, t := range state.PatternTypes {
		min, ok := c.Patterns[t]
		if !ok {
			continue
		}
		if gs.Patterns.Get(t) < min {
			return false, fmt.Sprintf("Requires %s pattern at least %d", t, min)
		}
	}

	for _, flag := range c.HasGlobalFlags {
		if !gs.GlobalFlags.Has(flag) {
			return false, fmt.Sprintf("Requires: %s", flag)
		}
	}

	for _, flag := range c.LacksGlobalFlags {
		if gs.GlobalFlags.Has(flag) {
			return false, fmt.Sprintf("No longer available after: %s", flag)
		}
	}

	for _, id := range sortedKeys(c.Knowledge) {
		cs, ok := gs.Character(id)
		if !ok {
			return false, fmt.Sprintf("Requires meeting %s first", id)
		}
		for _, flag := range c.Knowledge[id] {
			if !cs.KnowledgeFlags.Has(flag) {
				return false, fmt.Sprintf("Requires knowledge: %s", flag)
			}
		}
	}

	return true, ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MinTrust is a convenience constructor for the most common gate.
func MinTrust(characterID string, min int) *Condition {
	return &Condition{Trust: map[string]TrustRange{characterID: {Min: &min}}}
}

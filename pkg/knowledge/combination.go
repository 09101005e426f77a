package knowledge

import (
	"github.com/gcterminus/engine/pkg/state"
)

// Combination is an insight that unlocks once the player holds every required
// flag, across global flags and any character's knowledge. ExcludedFlags veto
// the combination while any of them is active.
type Combination struct {
	ID            string   `json:"id" yaml:"id"`
	RequiredFlags []string `json:"required_flags" yaml:"required_flags"`
	ExcludedFlags []string `json:"excluded_flags,omitempty" yaml:"excluded_flags,omitempty"`
	Insight       string   `json:"insight" yaml:"insight"`
	OutputFlag    string   `json:"output_flag,omitempty" yaml:"output_flag,omitempty"`
}

// CombinationState tracks which combinations a session has surfaced.
type CombinationState struct {
	Discovered state.IDSet `json:"discovered,omitempty"`
}

// AvailableCombinations returns every combination whose requirements are a
// subset of the player's combined knowledge, skipping ones already discovered
// and ones vetoed by an active excluded flag.
func AvailableCombinations(combos []Combination, gs *state.GameState, cs CombinationState) []Combination {
	active := gs.AllKnowledge()

	var out []Combination
	for _, c := range combos {
		if cs.Discovered.Has(c.ID) {
			continue
		}
		if active.ContainsAny(c.ExcludedFlags) {
			continue
		}
		if !active.ContainsAll(c.RequiredFlags) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// NewlyAvailableCombinations diffs two snapshots and returns combinations
// available after but not before. Drives "just unlocked" narrative beats.
func NewlyAvailableCombinations(combos []Combination, before, after *state.GameState, cs CombinationState) []Combination {
	prior := state.NewIDSet()
	for _, c := range AvailableCombinations(combos, before, cs) {
		prior = prior.With(c.ID)
	}

	var out []Combination
	for _, c := range AvailableCombinations(combos, after, cs) {
		if !prior.Has(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// MarkDiscovered records a combination as surfaced, returning a new state.
func (cs CombinationState) MarkDiscovered(id string) CombinationState {
	return CombinationState{Discovered: cs.Discovered.With(id)}
}

package knowledge

import (
	"fmt"

	"github.com/gcterminus/engine/pkg/state"
)

// PatternGate is an optional development requirement on a synthesis puzzle.
type PatternGate struct {
	Pattern state.PatternType `json:"pattern" yaml:"pattern"`
	Min     int               `json:"min" yaml:"min"`
}

// SynthesisPuzzle asks the player to order known flags into the combination
// that reveals a deeper insight. CorrectCombination is a permutation of
// indices into InputFlags.
type SynthesisPuzzle struct {
	ID                 string       `json:"id" yaml:"id"`
	InputFlags         []string     `json:"input_flags" yaml:"input_flags"`
	CorrectCombination []int        `json:"correct_combination" yaml:"correct_combination"`
	Hints              []string     `json:"hints,omitempty" yaml:"hints,omitempty"`
	PatternRequired    *PatternGate `json:"pattern_required,omitempty" yaml:"pattern_required,omitempty"`
	OutputFlag         string       `json:"output_flag,omitempty" yaml:"output_flag,omitempty"`
	OutputInsight      string       `json:"output_insight" yaml:"output_insight"`
}

// Validate checks construction-time invariants: the combination must be the
// same length as the inputs and every index in range. Registries run this at
// load; a failure is a content-authoring error, not a gameplay error.
func (p SynthesisPuzzle) Validate() error {
	if len(p.InputFlags) == 0 {
		return fmt.Errorf("synthesis puzzle %s has no input flags", p.ID)
	}
	if len(p.CorrectCombination) != len(p.InputFlags) {
		return fmt.Errorf("synthesis puzzle %s: combination length %d does not match %d inputs",
			p.ID, len(p.CorrectCombination), len(p.InputFlags))
	}
	for _, idx := range p.CorrectCombination {
		if idx < 0 || idx >= len(p.InputFlags) {
			return fmt.Errorf("synthesis puzzle %s: combination index %d out of range", p.ID, idx)
		}
	}
	return nil
}

// SynthesisResult is the outcome of one attempt. PartialMatch is diagnostic
// only; anything short of 1.0 is a failure, never a partial success.
type SynthesisResult struct {
	Success      bool    `json:"success"`
	PartialMatch float64 `json:"partial_match"`
	Insight      string  `json:"insight,omitempty"`
	Hint         string  `json:"hint,omitempty"`
}

// AttemptSynthesis evaluates one ordered attempt. The pattern gate is checked
// first: an underdeveloped pattern fails immediately with a development hint,
// regardless of how close the combination was. Otherwise the attempt scores by
// positional match fraction, succeeding only on a full match. Failed attempts
// get a progressive hint indexed by attempt number, clamped to the last hint.
func AttemptSynthesis(puzzle SynthesisPuzzle, attempted []int, patterns state.PlayerPatterns, attemptNumber int) SynthesisResult {
	if gate := puzzle.PatternRequired; gate != nil && patterns.Get(gate.Pattern) < gate.Min {
		return SynthesisResult{
			Hint: fmt.Sprintf("This connection needs more %s thinking than you've developed yet.", gate.Pattern),
		}
	}

	matches := 0
	for i, idx := range puzzle.CorrectCombination {
		if i < len(attempted) && attempted[i] == idx {
			matches++
		}
	}
	// Score against the longer of the two lengths so a matching prefix on an
	// over-long attempt still reads as partial, not full.
	span := len(puzzle.CorrectCombination)
	if len(attempted) > span {
		span = len(attempted)
	}
	partial := float64(matches) / float64(span)

	if partial == 1.0 {
		return SynthesisResult{
			Success:      true,
			PartialMatch: 1.0,
			Insight:      puzzle.OutputInsight,
		}
	}

	result := SynthesisResult{PartialMatch: partial}
	if len(puzzle.Hints) > 0 {
		idx := attemptNumber - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= len(puzzle.Hints) {
			idx = len(puzzle.Hints) - 1
		}
		result.Hint = puzzle.Hints[idx]
	}
	return result
}

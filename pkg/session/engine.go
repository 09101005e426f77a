package session

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gcterminus/engine/pkg/ceremony"
	"github.com/gcterminus/engine/pkg/dialogue"
	"github.com/gcterminus/engine/pkg/knowledge"
	"github.com/gcterminus/engine/pkg/state"
	"github.com/gcterminus/engine/pkg/trust"
)

// TriggerDef maps a ceremony trigger ID to the state condition that activates
// it. Triggers are authored content; the runtime derives the active set from
// the current snapshot on every call, so trigger activation is stateless.
type TriggerDef struct {
	TriggerID string              `json:"trigger_id" yaml:"trigger_id"`
	When      *dialogue.Condition `json:"when" yaml:"when"`
}

// Engine bundles the static content registries with the runtime that applies
// player actions. Constructed once at startup and shared read-only.
type Engine struct {
	Roster        []Character
	Graphs        map[string]*dialogue.Graph
	Modules       []dialogue.FloatingModule
	Knowledge     *knowledge.Registry
	Ceremonies    *ceremony.Registry
	Triggers      []TriggerDef
	Relationships *trust.RelationshipGraph
	Cooldown      time.Duration
}

// Node resolves a node in a character's graph.
func (e *Engine) Node(characterID, nodeID string) (*dialogue.Node, error) {
	g, ok := e.Graphs[characterID]
	if !ok {
		return nil, fmt.Errorf("no dialogue graph for character %s", characterID)
	}
	n, ok := g.Node(nodeID)
	if !ok {
		return nil, fmt.Errorf("node %s not found in %s's graph", nodeID, characterID)
	}
	return n, nil
}

// ActiveTriggers evaluates every trigger definition against a snapshot and
// returns the IDs whose conditions hold, sorted for determinism.
func (e *Engine) ActiveTriggers(gs *state.GameState) []string {
	var out []string
	for _, def := range e.Triggers {
		if ok, _ := def.When.Evaluate(gs); ok {
			out = append(out, def.TriggerID)
		}
	}
	sort.Strings(out)
	return out
}

// NextCeremony checks the snapshot for a ceremony that should play now.
func (e *Engine) NextCeremony(sess *Session, now time.Time) *ceremony.Ceremony {
	return ceremony.GetNextCeremony(e.Ceremonies, sess.Ceremonies, e.ActiveTriggers(sess.Game), e.Cooldown, now)
}

// TierCrossing records a pattern counter crossing an unlock tier during a
// choice, for the presentation layer and the event stream.
type TierCrossing struct {
	Pattern state.PatternType `json:"pattern"`
	Tier    state.PatternTier `json:"tier"`
}

// ChoiceOutcome reports what a choice application changed beyond the state
// itself, for the presentation layer to narrate.
type ChoiceOutcome struct {
	NextNodeID      string                   `json:"next_node_id"`
	TrustRipples    []trust.RippleTarget     `json:"trust_ripples,omitempty"`
	NewCombinations []knowledge.Combination  `json:"new_combinations,omitempty"`
	Ceremony        *ceremony.Ceremony       `json:"ceremony,omitempty"`
	Module          *dialogue.FloatingModule `json:"module,omitempty"`
	TierCrossings   []TierCrossing           `json:"tier_crossings,omitempty"`
}

// Choose applies one choice: state changes with momentum-scaled trust, ripple
// propagation, momentum update, node advance, and the follow-on checks for
// newly unlocked combinations, ceremonies, and floating modules. Returns a new
// session; the input is unchanged. Disabled or hidden choices are rejected
// with the evaluator's reason.
func (e *Engine) Choose(sess *Session, characterID, nodeID, choiceID string, now time.Time) (*Session, *ChoiceOutcome, error) {
	node, err := e.Node(characterID, nodeID)
	if err != nil {
		return nil, nil, err
	}

	var chosen *dialogue.ChoiceEvaluation
	for _, eval := range dialogue.EvaluateChoices(node, sess.Game) {
		if eval.Choice.ChoiceID == choiceID {
			ev := eval
			chosen = &ev
			break
		}
	}
	if chosen == nil {
		return nil, nil, fmt.Errorf("choice %s not found on node %s", choiceID, nodeID)
	}
	if !chosen.Visible || !chosen.Enabled {
		return nil, nil, fmt.Errorf("choice %s is not available: %s", choiceID, chosen.Reason)
	}

	out := sess.Clone()
	before := sess.Game
	outcome := &ChoiceOutcome{NextNodeID: chosen.Choice.NextNodeID}

	delta := e.scaledDelta(out, chosen.Choice)
	gs := delta.Apply(out.Game)

	// Ripple each direct trust change along the relationship graph, then fold
	// the raw deltas into per-character momentum.
	if chosen.Choice.StateChanges != nil {
		for id, raw := range chosen.Choice.StateChanges.TrustDeltas {
			for _, target := range e.Relationships.GetTrustRippleTargets(id, raw) {
				rippled := int(math.Round(target.ExpectedDelta))
				if rippled == 0 {
					continue
				}
				cs := gs.Characters[target.CharacterID]
				cs.Trust = state.ClampTrust(cs.Trust + rippled)
				gs.Characters[target.CharacterID] = cs
				outcome.TrustRipples = append(outcome.TrustRipples, target)
			}
			out.Momentum[id] = trust.UpdateTrustMomentum(out.Momentum[id], raw)
		}
	}

	gs.CurrentCharacterID = characterID
	gs.CurrentNodeID = chosen.Choice.NextNodeID

	// Record the exchange on the speaking character.
	cs := gs.Characters[characterID]
	cs.ConversationHistory = append(cs.ConversationHistory, state.ConversationEntry{
		NodeID:   nodeID,
		ChoiceID: choiceID,
		Text:     chosen.Choice.Text,
	})
	gs.Characters[characterID] = cs

	out.Game = gs
	out.UpdatedAt = now

	outcome.NewCombinations = knowledge.NewlyAvailableCombinations(
		e.Knowledge.Combinations(), before, gs, out.Combinations)
	for _, c := range outcome.NewCombinations {
		out.Combinations = out.Combinations.MarkDiscovered(c.ID)
		if c.OutputFlag != "" {
			gs.GlobalFlags = gs.GlobalFlags.With(c.OutputFlag)
		}
	}

	if next := ceremony.GetNextCeremony(e.Ceremonies, out.Ceremonies, e.ActiveTriggers(gs), e.Cooldown, now); next != nil {
		out.Ceremonies = ceremony.MarkPending(out.Ceremonies, next.ID)
		outcome.Ceremony = next
	}

	// A tier crossing opens the pattern_threshold hook; failing that, a
	// choice that concludes the conversation arc opens arc_transition.
	outcome.TierCrossings = tierCrossings(before.Patterns, gs.Patterns)
	hook := dialogue.Hook("")
	switch {
	case len(outcome.TierCrossings) > 0:
		hook = dialogue.HookPatternThreshold
	case e.arcConcluded(characterID, chosen.Choice.NextNodeID):
		hook = dialogue.HookArcTransition
	}
	if hook != "" {
		if eligible := dialogue.EligibleModules(e.Modules, gs, hook); len(eligible) > 0 {
			m := eligible[0]
			out.Game = dialogue.MarkModuleFired(gs, m.ModuleID)
			outcome.Module = &m
		}
	}

	return out, outcome, nil
}

// HubReturnModule surfaces the floating module, if any, that inserts when the
// player returns to the station hub, recording it as shown. Returns the input
// session unchanged when nothing is eligible.
func (e *Engine) HubReturnModule(sess *Session, now time.Time) (*Session, *dialogue.FloatingModule) {
	eligible := dialogue.EligibleModules(e.Modules, sess.Game, dialogue.HookHubReturn)
	if len(eligible) == 0 {
		return sess, nil
	}
	m := eligible[0]
	out := sess.Clone()
	out.Game = dialogue.MarkModuleFired(out.Game, m.ModuleID)
	out.UpdatedAt = now
	return out, &m
}

// arcConcluded reports whether advancing to nextNodeID ends the conversation
// arc: either there is no next node, or the next node leaves nothing to choose.
func (e *Engine) arcConcluded(characterID, nextNodeID string) bool {
	if nextNodeID == "" {
		return true
	}
	n, err := e.Node(characterID, nextNodeID)
	return err == nil && len(n.Choices) == 0
}

// scaledDelta rewrites the choice's trust deltas through each character's
// momentum. The raw authored delta is what feeds the momentum update; the
// scaled value is what lands on trust.
func (e *Engine) scaledDelta(sess *Session, choice dialogue.Choice) *state.Delta {
	base := choice.StateChanges
	d := state.Delta{}
	if base != nil {
		d = *base
	}

	if choice.Pattern != "" {
		inc := map[state.PatternType]int{choice.Pattern: 1}
		for t, n := range d.PatternIncrements {
			inc[t] += n
		}
		d.PatternIncrements = inc
	}

	if len(d.TrustDeltas) > 0 {
		scaled := make(map[string]int, len(d.TrustDeltas))
		for id, raw := range d.TrustDeltas {
			scaled[id] = int(math.Round(trust.ApplyMomentumToTrustChange(raw, sess.Momentum[id])))
		}
		d.TrustDeltas = scaled
	}
	return &d
}

// tierCrossings lists the patterns that crossed an unlock tier between two
// snapshots, in canonical pattern order.
func tierCrossings(before, after state.PlayerPatterns) []TierCrossing {
	var out []TierCrossing
	for _, t := range state.PatternTypes {
		if state.TierFor(after.Get(t)) != state.TierFor(before.Get(t)) {
			out = append(out, TierCrossing{Pattern: t, Tier: after.Tier(t)})
		}
	}
	return out
}

// CompleteCeremony finishes the pending ceremony with the player's response.
func (e *Engine) CompleteCeremony(sess *Session, responseID string, now time.Time) (*Session, error) {
	if sess.Ceremonies.PendingCeremony == "" {
		return nil, fmt.Errorf("no ceremony is pending")
	}
	out := sess.Clone()
	out.Ceremonies = ceremony.CompleteCeremony(out.Ceremonies, sess.Ceremonies.PendingCeremony, responseID, now)
	out.UpdatedAt = now
	return out, nil
}

// AttemptSynthesis runs one puzzle attempt and tracks the attempt count.
func (e *Engine) AttemptSynthesis(sess *Session, puzzleID string, attempted []int) (*Session, knowledge.SynthesisResult, error) {
	puzzle, ok := e.Knowledge.Puzzle(puzzleID)
	if !ok {
		return nil, knowledge.SynthesisResult{}, fmt.Errorf("synthesis puzzle %s not found", puzzleID)
	}

	out := sess.Clone()
	out.SynthesisAttempts[puzzleID]++
	result := knowledge.AttemptSynthesis(puzzle, attempted, out.Game.Patterns, out.SynthesisAttempts[puzzleID])
	if result.Success && puzzle.OutputFlag != "" {
		out.Game.GlobalFlags = out.Game.GlobalFlags.With(puzzle.OutputFlag)
	}
	return out, result, nil
}

package handlers

import (
	"log/slog"
	"os"
	"time"

	"github.com/gcterminus/engine/pkg/ceremony"
	"github.com/gcterminus/engine/pkg/dialogue"
	"github.com/gcterminus/engine/pkg/knowledge"
	"github.com/gcterminus/engine/pkg/session"
	"github.com/gcterminus/engine/pkg/state"
	"github.com/gcterminus/engine/pkg/trust"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

// newTestEngine builds a minimal maya graph: one always-available choice, one
// trust-gated choice, and one choice hidden until a flag is set.
func newTestEngine() *session.Engine {
	mayaGraph := &dialogue.Graph{
		CharacterID: "maya",
		StartNodeID: "maya_intro",
		Nodes: []*dialogue.Node{
			{
				NodeID:  "maya_intro",
				Speaker: "maya",
				Content: []dialogue.ContentVariation{{VariationID: "default", Text: "Maya is wiring a servo."}},
				Choices: []dialogue.Choice{
					{
						ChoiceID:   "listen",
						Text:       "Ask what she's building",
						NextNodeID: "maya_robotics",
						Pattern:    state.PatternExploring,
						StateChanges: &state.Delta{
							TrustDeltas: map[string]int{"maya": 1},
						},
					},
					{
						ChoiceID:    "deep_question",
						Text:        "Ask why she hides it from her parents",
						NextNodeID:  "maya_family",
						EnabledWhen: dialogue.MinTrust("maya", 5),
					},
					{
						ChoiceID:    "mention_letter",
						Text:        "Mention the letter from UAB",
						NextNodeID:  "maya_family",
						VisibleWhen: &dialogue.Condition{HasGlobalFlags: []string{"found_uab_letter"}},
					},
				},
			},
			{
				NodeID:  "maya_robotics",
				Speaker: "maya",
				Content: []dialogue.ContentVariation{{VariationID: "default", Text: "She explains the servo assembly."}},
			},
			{
				NodeID:  "maya_family",
				Speaker: "maya",
				Content: []dialogue.ContentVariation{{VariationID: "default", Text: "Her hands go still."}},
			},
		},
	}
	mayaGraph.Index()

	return &session.Engine{
		Roster: []session.Character{
			{ID: "samuel", Name: "Samuel Washington", Role: "Station Keeper"},
			{ID: "maya", Name: "Maya Chen", Role: "Pre-med student"},
		},
		Graphs: map[string]*dialogue.Graph{"maya": mayaGraph},
		Modules: []dialogue.FloatingModule{
			{
				ModuleID:    "hub_whisper",
				InsertAfter: dialogue.HookHubReturn,
				Priority:    2,
				Trigger:     &dialogue.Condition{Patterns: map[state.PatternType]int{state.PatternExploring: 1}},
				Node: &dialogue.Node{
					NodeID:  "hub_whisper_node",
					Speaker: "samuel",
					Content: []dialogue.ContentVariation{{VariationID: "default", Text: "Samuel glances up from the departures board."}},
				},
			},
		},
		Knowledge: knowledge.NewRegistry(nil, nil, nil, nil, []knowledge.SynthesisPuzzle{
			{
				ID:                 "maya_choice",
				InputFlags:         []string{"a", "b"},
				CorrectCombination: []int{1, 0},
				Hints:              []string{"Reverse it."},
				OutputInsight:      "Both halves were hers all along.",
				OutputFlag:         "synthesis_done",
			},
		}),
		Ceremonies: ceremony.NewRegistry([]ceremony.Ceremony{
			{ID: "maya_opens_up", TriggerID: "trust_maya_1", Title: "A Crack in the Wall", Priority: 4, OneTime: true},
		}),
		Triggers: []session.TriggerDef{
			{TriggerID: "trust_maya_1", When: dialogue.MinTrust("maya", 1)},
		},
		Relationships: trust.NewRelationshipGraph(nil),
		Cooldown:      10 * time.Minute,
	}
}

package dialogue

import (
	"reflect"
	"testing"

	"github.com/gcterminus/engine/pkg/state"
)

func sampleNode() *Node {
	return &Node{
		NodeID:  "maya_crossroads",
		Speaker: "maya",
		Content: []ContentVariation{
			{VariationID: "default", Text: "Maya looks up from her circuit board."},
			{
				VariationID: "confidant",
				Text:        "Maya slides the circuit board toward you. \"Okay. I'll show you what I've actually been building.\"",
				When:        MinTrust("maya", 6),
			},
		},
		Choices: []Choice{
			{
				ChoiceID:   "ask_robotics",
				Text:       "Ask about the robot",
				NextNodeID: "maya_robotics",
				Pattern:    state.PatternExploring,
			},
			{
				ChoiceID:    "push_on_family",
				Text:        "Ask what her parents would say",
				NextNodeID:  "maya_family",
				EnabledWhen: MinTrust("maya", 4),
			},
			{
				ChoiceID:    "name_the_pattern",
				Text:        "Point out she lights up when she talks about machines",
				NextNodeID:  "maya_seen",
				VisibleWhen: &Condition{Patterns: map[state.PatternType]int{state.PatternAnalytical: 3}},
			},
		},
	}
}

func TestEvaluateChoices_OrderAndDecisions(t *testing.T) {
	node := sampleNode()
	gs := state.NewGameState()
	gs.Characters["maya"] = state.CharacterState{Trust: 2}

	evals := EvaluateChoices(node, gs)
	if len(evals) != 3 {
		t.Fatalf("expected all 3 choices returned, got %d", len(evals))
	}

	// Order preserved from authoring.
	for i, expected := range []string{"ask_robotics", "push_on_family", "name_the_pattern"} {
		if evals[i].Choice.ChoiceID != expected {
			t.Errorf("position %d: expected %s, got %s", i, expected, evals[i].Choice.ChoiceID)
		}
	}

	if !evals[0].Visible || !evals[0].Enabled {
		t.Error("unconditioned choice should be visible and enabled")
	}

	if !evals[1].Visible {
		t.Error("choice failing enabled_when should remain visible")
	}
	if evals[1].Enabled {
		t.Error("choice failing enabled_when should be disabled")
	}
	if evals[1].Reason != "Requires trust level 4 with maya" {
		t.Errorf("unexpected reason: %q", evals[1].Reason)
	}

	if evals[2].Visible {
		t.Error("choice failing visible_when should be hidden")
	}
	if evals[2].Reason == "" {
		t.Error("hidden choice should still carry a reason for preview callers")
	}

	if got := VisibleChoices(evals); len(got) != 2 {
		t.Errorf("default UI should see 2 choices, got %d", len(got))
	}
}

func TestEvaluateChoices_Idempotent(t *testing.T) {
	node := sampleNode()
	gs := state.NewGameState()
	gs.Characters["maya"] = state.CharacterState{Trust: 5}
	gs.Patterns = state.PlayerPatterns{Analytical: 4}

	first := EvaluateChoices(node, gs)
	second := EvaluateChoices(node, gs)
	if !reflect.DeepEqual(first, second) {
		t.Error("evaluating the same (node, state) twice should yield identical results")
	}
}

func TestResolveContent(t *testing.T) {
	node := sampleNode()

	gs := state.NewGameState()
	gs.Characters["maya"] = state.CharacterState{Trust: 3}
	if got := ResolveContent(node, gs); got.VariationID != "default" {
		t.Errorf("low trust should render default variation, got %s", got.VariationID)
	}

	gs.Characters["maya"] = state.CharacterState{Trust: 6}
	if got := ResolveContent(node, gs); got.VariationID != "confidant" {
		t.Errorf("trust 6 should render confidant variation, got %s", got.VariationID)
	}
}

func TestResolveContent_MissingCharacterFallsBack(t *testing.T) {
	node := sampleNode()
	gs := state.NewGameState()
	if got := ResolveContent(node, gs); got.VariationID != "default" {
		t.Errorf("missing character should fail closed to default, got %s", got.VariationID)
	}
}

func TestNodeAvailable(t *testing.T) {
	node := sampleNode()
	node.RequiredState = &Condition{HasGlobalFlags: []string{"maya_arc_started"}}

	gs := state.NewGameState()
	if ok, reason := NodeAvailable(node, gs); ok {
		t.Error("node should be gated")
	} else if reason != "Requires: maya_arc_started" {
		t.Errorf("unexpected reason: %q", reason)
	}

	gs.GlobalFlags = gs.GlobalFlags.With("maya_arc_started")
	if ok, _ := NodeAvailable(node, gs); !ok {
		t.Error("node should be available once the flag is set")
	}
}

func TestEligibleModules(t *testing.T) {
	modules := []FloatingModule{
		{
			ModuleID:    "quiet_hour",
			InsertAfter: HookHubReturn,
			OneShot:     true,
			Priority:    1,
			Trigger:     &Condition{Patterns: map[state.PatternType]int{state.PatternPatience: 3}},
		},
		{
			ModuleID:    "platform_announcement",
			InsertAfter: HookHubReturn,
			Priority:    5,
			Trigger:     &Condition{HasGlobalFlags: []string{"arrived_at_terminus"}},
		},
		{
			ModuleID:    "letter_from_home",
			InsertAfter: HookArcTransition,
			Priority:    9,
			Trigger:     &Condition{},
		},
	}

	gs := state.NewGameState()
	gs.Patterns = state.PlayerPatterns{Patience: 3}
	gs.GlobalFlags = state.NewIDSet("arrived_at_terminus")

	eligible := EligibleModules(modules, gs, HookHubReturn)
	if len(eligible) != 2 {
		t.Fatalf("expected 2 hub_return modules, got %d", len(eligible))
	}
	if eligible[0].ModuleID != "platform_announcement" {
		t.Errorf("expected highest priority first, got %s", eligible[0].ModuleID)
	}

	// One-shot drops out after firing; the state mutation is copy-on-write.
	fired := MarkModuleFired(gs, "quiet_hour")
	if gs.FiredModules.Has("quiet_hour") {
		t.Error("MarkModuleFired mutated the input state")
	}
	eligible = EligibleModules(modules, fired, HookHubReturn)
	if len(eligible) != 1 || eligible[0].ModuleID != "platform_announcement" {
		t.Errorf("fired one-shot should be excluded, got %v", eligible)
	}

	// Repeatable modules keep firing.
	refired := MarkModuleFired(fired, "platform_announcement")
	eligible = EligibleModules(modules, refired, HookHubReturn)
	if len(eligible) != 1 || eligible[0].ModuleID != "platform_announcement" {
		t.Errorf("repeatable module should stay eligible, got %v", eligible)
	}
}

package knowledge

import (
	"testing"

	"github.com/gcterminus/engine/pkg/state"
)

var testCombos = []Combination{
	{
		ID:            "both_hiding_from_parents",
		RequiredFlags: []string{"maya_family_pressure", "devon_father_distance"},
		Insight:       "Maya and Devon are both performing versions of themselves for their families.",
		OutputFlag:    "insight_parallel_performances",
	},
	{
		ID:            "robotics_needs_funding",
		RequiredFlags: []string{"maya_robotics_dream", "terminus_grant_posted"},
		ExcludedFlags: []string{"grant_deadline_passed"},
		Insight:       "The terminus grant could fund Maya's robotics work.",
	},
}

func comboState() *state.GameState {
	gs := state.NewGameState()
	gs.Characters["maya"] = state.CharacterState{
		KnowledgeFlags: state.NewIDSet("maya_family_pressure", "maya_robotics_dream"),
	}
	gs.Characters["devon"] = state.CharacterState{
		KnowledgeFlags: state.NewIDSet("devon_father_distance"),
	}
	return gs
}

func TestAvailableCombinations(t *testing.T) {
	gs := comboState()
	cs := CombinationState{}

	available := AvailableCombinations(testCombos, gs, cs)
	if len(available) != 1 || available[0].ID != "both_hiding_from_parents" {
		t.Fatalf("expected only the cross-character combination, got %v", available)
	}

	// The grant combination needs a global flag too.
	gs.GlobalFlags = state.NewIDSet("terminus_grant_posted")
	available = AvailableCombinations(testCombos, gs, cs)
	if len(available) != 2 {
		t.Fatalf("expected both combinations, got %d", len(available))
	}

	// An excluded flag vetoes even when requirements hold.
	gs.GlobalFlags = gs.GlobalFlags.With("grant_deadline_passed")
	available = AvailableCombinations(testCombos, gs, cs)
	if len(available) != 1 {
		t.Errorf("excluded flag should veto the grant combination, got %d", len(available))
	}
}

func TestAvailableCombinations_SkipsDiscovered(t *testing.T) {
	gs := comboState()
	cs := CombinationState{}.MarkDiscovered("both_hiding_from_parents")

	if got := AvailableCombinations(testCombos, gs, cs); len(got) != 0 {
		t.Errorf("discovered combination should not resurface, got %v", got)
	}
}

func TestNewlyAvailableCombinations(t *testing.T) {
	before := state.NewGameState()
	before.Characters["maya"] = state.CharacterState{
		KnowledgeFlags: state.NewIDSet("maya_family_pressure"),
	}

	after := before.Clone()
	cs := after.Characters["devon"]
	cs.KnowledgeFlags = state.NewIDSet("devon_father_distance")
	after.Characters["devon"] = cs

	newly := NewlyAvailableCombinations(testCombos, before, after, CombinationState{})
	if len(newly) != 1 || newly[0].ID != "both_hiding_from_parents" {
		t.Fatalf("expected the newly unlocked combination, got %v", newly)
	}

	// No change between snapshots means nothing newly available.
	if got := NewlyAvailableCombinations(testCombos, after, after, CombinationState{}); len(got) != 0 {
		t.Errorf("identical snapshots should yield nothing, got %v", got)
	}
}

func TestIcebergTopic_Lifecycle(t *testing.T) {
	topic := IcebergTopic{ID: "platform_seven", Title: "Platform Seven", MentionThreshold: 3}
	is := IcebergState{}

	mention := func(character, node string) Mention {
		return Mention{CharacterID: character, NodeID: node}
	}

	is = RecordMention(is, "platform_seven", mention("samuel", "samuel_hint_1"))
	is = RecordMention(is, "platform_seven", mention("maya", "maya_aside"))
	if TopicInvestigable(is, topic) {
		t.Error("2 mentions should not cross the threshold of 3")
	}

	is = RecordMention(is, "platform_seven", mention("jess", "jess_warning"))
	if !TopicInvestigable(is, topic) {
		t.Error("3rd mention should make the topic investigable")
	}

	is = MarkInvestigated(is, "platform_seven")
	if TopicInvestigable(is, topic) {
		t.Error("investigated topic should close")
	}

	// Terminal: further mentions never reopen it.
	is = RecordMention(is, "platform_seven", mention("devon", "devon_echo"))
	if TopicInvestigable(is, topic) {
		t.Error("investigation is terminal even with more mentions")
	}
}

func TestRecordMention_CopyOnWrite(t *testing.T) {
	is := RecordMention(IcebergState{}, "platform_seven", Mention{CharacterID: "samuel"})
	before := len(is.Mentions["platform_seven"])

	_ = RecordMention(is, "platform_seven", Mention{CharacterID: "maya"})
	if len(is.Mentions["platform_seven"]) != before {
		t.Error("RecordMention mutated the input state")
	}
}

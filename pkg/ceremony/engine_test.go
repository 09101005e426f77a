package ceremony

import (
	"testing"
	"time"
)

var ceremonyNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func testRegistry() *Registry {
	return NewRegistry([]Ceremony{
		{
			ID:        "first_name_known",
			TriggerID: "trust_maya_3",
			Title:     "She Uses Your Name",
			Priority:  2,
			OneTime:   true,
		},
		{
			ID:        "pattern_recognized",
			TriggerID: "analytical_emerging",
			Title:     "Samuel Names What He Sees",
			Priority:  5,
			OneTime:   true,
		},
		{
			ID:        "quiet_platform",
			TriggerID: "hub_return_late",
			Title:     "The Station Breathes",
			Priority:  1,
		},
	})
}

func TestFindEligibleCeremonies_PriorityOrder(t *testing.T) {
	r := testRegistry()
	triggers := []string{"trust_maya_3", "analytical_emerging", "hub_return_late"}

	eligible := FindEligibleCeremonies(r, State{}, triggers)
	if len(eligible) != 3 {
		t.Fatalf("expected 3 eligible, got %d", len(eligible))
	}
	for i, expected := range []string{"pattern_recognized", "first_name_known", "quiet_platform"} {
		if eligible[i].ID != expected {
			t.Errorf("position %d: expected %s, got %s", i, expected, eligible[i].ID)
		}
	}
}

func TestFindEligibleCeremonies_OneTimeExcluded(t *testing.T) {
	r := testRegistry()
	s := CompleteCeremony(State{}, "pattern_recognized", "nod", ceremonyNow)

	eligible := FindEligibleCeremonies(r, s, []string{"analytical_emerging", "hub_return_late"})
	if len(eligible) != 1 || eligible[0].ID != "quiet_platform" {
		t.Errorf("completed one-time ceremony should be excluded, got %v", eligible)
	}

	// Repeatable ceremonies stay eligible after completion.
	s = CompleteCeremony(s, "quiet_platform", "", ceremonyNow.Add(DefaultCooldown+time.Second))
	eligible = FindEligibleCeremonies(r, s, []string{"hub_return_late"})
	if len(eligible) != 1 || eligible[0].ID != "quiet_platform" {
		t.Errorf("repeatable ceremony should remain eligible, got %v", eligible)
	}
}

func TestGetNextCeremony_CooldownHardGate(t *testing.T) {
	r := testRegistry()
	triggers := []string{"analytical_emerging"}

	// Half the cooldown has elapsed: nothing plays, even with a live trigger.
	mid := ceremonyNow.Add(-DefaultCooldown / 2)
	s := State{LastCeremonyAt: &mid}
	if got := GetNextCeremony(r, s, triggers, DefaultCooldown, ceremonyNow); got != nil {
		t.Errorf("cooldown active: expected nil, got %s", got.ID)
	}

	// Just past the window: the top-priority eligible ceremony plays.
	past := ceremonyNow.Add(-DefaultCooldown - time.Second)
	s = State{LastCeremonyAt: &past}
	got := GetNextCeremony(r, s, triggers, DefaultCooldown, ceremonyNow)
	if got == nil || got.ID != "pattern_recognized" {
		t.Errorf("cooldown expired: expected pattern_recognized, got %v", got)
	}
}

func TestGetNextCeremony_PendingResumes(t *testing.T) {
	r := testRegistry()

	// A pending ceremony resumes even with no active triggers and even inside
	// the cooldown window from an earlier completion.
	mid := ceremonyNow.Add(-DefaultCooldown / 2)
	s := State{PendingCeremony: "first_name_known", LastCeremonyAt: &mid}

	got := GetNextCeremony(r, s, nil, DefaultCooldown, ceremonyNow)
	if got == nil || got.ID != "first_name_known" {
		t.Errorf("expected pending ceremony to resume, got %v", got)
	}

	// The pending ceremony wins over higher-priority fresh eligibility.
	past := ceremonyNow.Add(-2 * DefaultCooldown)
	s = State{PendingCeremony: "quiet_platform", LastCeremonyAt: &past}
	got = GetNextCeremony(r, s, []string{"analytical_emerging"}, DefaultCooldown, ceremonyNow)
	if got == nil || got.ID != "quiet_platform" {
		t.Errorf("pending should take precedence over eligibility, got %v", got)
	}
}

func TestCompleteCeremony(t *testing.T) {
	s := MarkPending(State{}, "first_name_known")

	out := CompleteCeremony(s, "first_name_known", "smile_back", ceremonyNow)
	if out.PendingCeremony != "" {
		t.Error("completion should clear the pending slot")
	}
	if !out.Completed.Has("first_name_known") {
		t.Error("completion should record the ceremony")
	}
	if len(out.History) != 1 || out.History[0].ResponseID != "smile_back" {
		t.Errorf("unexpected history: %v", out.History)
	}
	if out.LastCeremonyAt == nil || !out.LastCeremonyAt.Equal(ceremonyNow) {
		t.Error("completion should stamp the cooldown clock")
	}

	// Input state untouched.
	if s.PendingCeremony != "first_name_known" || s.Completed.Has("first_name_known") {
		t.Error("CompleteCeremony mutated the input state")
	}
}

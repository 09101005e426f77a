package trust

import (
	"testing"
)

func TestVoiceToneForTrust_Monotonic(t *testing.T) {
	order := map[VoiceTone]int{ToneWhisper: 0, ToneSpeak: 1, ToneUrge: 2, ToneCommand: 3}

	prev := -1
	for trust := 0; trust <= 10; trust++ {
		rank := order[VoiceToneForTrust(trust)]
		if rank < prev {
			t.Errorf("tone rank decreased at trust %d", trust)
		}
		prev = rank
	}

	if VoiceToneForTrust(0) != ToneWhisper {
		t.Errorf("trust 0 should whisper, got %s", VoiceToneForTrust(0))
	}
	if VoiceToneForTrust(ThresholdFriendly) != ToneSpeak {
		t.Errorf("trust at friendly threshold should speak, got %s", VoiceToneForTrust(ThresholdFriendly))
	}
	if VoiceToneForTrust(10) != ToneCommand {
		t.Errorf("trust 10 should command, got %s", VoiceToneForTrust(10))
	}
}

func TestEchoIntensityForTrust_Monotonic(t *testing.T) {
	prev := -1
	for trust := 0; trust <= 10; trust++ {
		rank := EchoIntensityForTrust(trust).Rank()
		if rank < prev {
			t.Errorf("echo intensity decreased at trust %d", trust)
		}
		prev = rank
	}

	if EchoIntensityForTrust(0) != EchoFaded {
		t.Errorf("trust 0 should be faded, got %s", EchoIntensityForTrust(0))
	}
	if EchoIntensityForTrust(10) != EchoIndelible {
		t.Errorf("trust 10 should be indelible, got %s", EchoIntensityForTrust(10))
	}
}

func TestFormatEchoByIntensity_DetailIncreases(t *testing.T) {
	echo := Echo{
		CharacterID: "samuel",
		NodeID:      "samuel_arrival",
		Moment:      "you stayed on the platform while the train left",
		Feeling:     "steadiness",
	}

	intensities := []EchoIntensity{EchoFaded, EchoHazy, EchoClear, EchoVivid, EchoIndelible}
	prevLen := 0
	for _, intensity := range intensities {
		rendered := FormatEchoByIntensity(echo, intensity)
		if len(rendered) <= prevLen {
			t.Errorf("%s rendering (%d chars) not longer than previous (%d chars)", intensity, len(rendered), prevLen)
		}
		prevLen = len(rendered)
	}
}

func TestCalculateTrustAsymmetry_Symmetric(t *testing.T) {
	for a := 0; a <= 10; a++ {
		for b := 0; b <= 10; b++ {
			ab := CalculateTrustAsymmetry(a, b)
			ba := CalculateTrustAsymmetry(b, a)
			if ab != ba {
				t.Fatalf("asymmetry(%d,%d)=%+v != asymmetry(%d,%d)=%+v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestCalculateTrustAsymmetry_Buckets(t *testing.T) {
	tests := []struct {
		a, b     int
		expected AsymmetryLevel
	}{
		{5, 5, AsymmetryNone},
		{5, 4, AsymmetryMinor},
		{5, 3, AsymmetryMinor},
		{6, 3, AsymmetryNotable},
		{7, 3, AsymmetryNotable},
		{8, 3, AsymmetryMajor},
		{10, 0, AsymmetryMajor},
	}

	for _, tt := range tests {
		got := CalculateTrustAsymmetry(tt.a, tt.b)
		if got.Level != tt.expected {
			t.Errorf("asymmetry(%d,%d) = %s, expected %s", tt.a, tt.b, got.Level, tt.expected)
		}
	}
}

func TestUpdateTrustMomentum_Streaks(t *testing.T) {
	m := Momentum{}

	for i := 0; i < 5; i++ {
		m = UpdateTrustMomentum(m, 1)
	}
	if m.ConsecutivePositive != 5 || m.ConsecutiveNegative != 0 {
		t.Errorf("expected streak 5/0, got %d/%d", m.ConsecutivePositive, m.ConsecutiveNegative)
	}
	if m.Momentum != 1 {
		t.Errorf("expected momentum saturated at 1, got %f", m.Momentum)
	}

	m = UpdateTrustMomentum(m, -1)
	if m.ConsecutivePositive != 0 || m.ConsecutiveNegative != 1 {
		t.Errorf("negative delta should reset positive streak, got %d/%d", m.ConsecutivePositive, m.ConsecutiveNegative)
	}
	if m.Momentum >= 1 {
		t.Errorf("reversal should decay momentum, got %f", m.Momentum)
	}

	for i := 0; i < 12; i++ {
		m = UpdateTrustMomentum(m, -1)
	}
	if m.Momentum != -1 {
		t.Errorf("sustained negatives should saturate at -1, got %f", m.Momentum)
	}
}

func TestUpdateTrustMomentum_ZeroDeltaIsNeutral(t *testing.T) {
	m := UpdateTrustMomentum(Momentum{}, 1)
	after := UpdateTrustMomentum(m, 0)
	if after != m {
		t.Errorf("zero delta changed momentum: %+v -> %+v", m, after)
	}
}

func TestApplyMomentumToTrustChange_NeverInvertsSign(t *testing.T) {
	momenta := []Momentum{
		{Momentum: -1},
		{Momentum: -0.4},
		{},
		{Momentum: 0.4},
		{Momentum: 1},
	}

	for _, m := range momenta {
		for _, raw := range []int{-3, -1, 1, 3} {
			scaled := ApplyMomentumToTrustChange(raw, m)
			if raw > 0 && scaled <= 0 {
				t.Errorf("momentum %f inverted positive delta %d to %f", m.Momentum, raw, scaled)
			}
			if raw < 0 && scaled >= 0 {
				t.Errorf("momentum %f inverted negative delta %d to %f", m.Momentum, raw, scaled)
			}
		}
	}

	if ApplyMomentumToTrustChange(0, Momentum{Momentum: 1}) != 0 {
		t.Error("zero delta should stay zero")
	}
}

func TestApplyMomentumToTrustChange_AmplifiesSameSign(t *testing.T) {
	hot := Momentum{Momentum: 1}
	if got := ApplyMomentumToTrustChange(2, hot); got <= 2 {
		t.Errorf("positive momentum should amplify positive delta, got %f", got)
	}
	if got := ApplyMomentumToTrustChange(-2, hot); got <= -2 {
		t.Errorf("positive momentum should cushion negative delta, got %f", got)
	}

	cold := Momentum{Momentum: -1}
	if got := ApplyMomentumToTrustChange(-2, cold); got >= -2 {
		t.Errorf("negative momentum should amplify negative delta, got %f", got)
	}
}

func testGraph() *RelationshipGraph {
	return NewRelationshipGraph([]Relationship{
		{A: "maya", B: "devon", Tier: TierCloseFriend},
		{A: "maya", B: "samuel", Tier: TierFriend},
		{A: "maya", B: "jess", Tier: TierCloseFriend},
		{A: "devon", B: "jess", Tier: TierRival},
		{A: "samuel", B: "jess", Tier: TierColleague},
	})
}

func TestRelationshipGraph_SymmetricLookup(t *testing.T) {
	g := testGraph()
	chars := []string{"maya", "devon", "samuel", "jess"}
	for _, a := range chars {
		for _, b := range chars {
			if g.Lookup(a, b) != g.Lookup(b, a) {
				t.Errorf("lookup(%s,%s) != lookup(%s,%s)", a, b, b, a)
			}
		}
	}
	if g.Lookup("maya", "nobody") != TierStranger {
		t.Error("unknown character should read as stranger")
	}
}

func TestCalculateInheritedTrust_Capped(t *testing.T) {
	g := NewRelationshipGraph([]Relationship{
		{A: "newcomer", B: "maya", Tier: TierCloseFriend},
		{A: "newcomer", B: "devon", Tier: TierCloseFriend},
		{A: "newcomer", B: "samuel", Tier: TierCloseFriend},
	})

	trusts := map[string]int{"maya": 10, "devon": 10, "samuel": 10}
	inherited := g.CalculateInheritedTrust("newcomer", trusts)
	if inherited > InheritedTrustCap {
		t.Errorf("inherited trust %f exceeds cap %f", inherited, InheritedTrustCap)
	}
	if inherited != InheritedTrustCap {
		t.Errorf("three maxed close friends should hit the cap, got %f", inherited)
	}
}

func TestCalculateInheritedTrust_RivalAndFloor(t *testing.T) {
	g := testGraph()

	// devon only relates to maya (close friend) and jess (rival).
	inherited := g.CalculateInheritedTrust("devon", map[string]int{"maya": 4, "jess": 2})
	expected := 4*0.3 - 2*0.15
	if diff := inherited - expected; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected inherited %f, got %f", expected, inherited)
	}

	// Rival-only standing floors at zero, never negative.
	if got := g.CalculateInheritedTrust("devon", map[string]int{"jess": 10}); got != 0 {
		t.Errorf("expected floor at 0, got %f", got)
	}
}

func TestGetTrustRippleTargets(t *testing.T) {
	g := testGraph()
	targets := g.GetTrustRippleTargets("jess", 2)

	byID := make(map[string]float64, len(targets))
	for _, target := range targets {
		byID[target.CharacterID] = target.ExpectedDelta
	}

	if byID["maya"] != 2*0.3 {
		t.Errorf("close friend ripple wrong: %f", byID["maya"])
	}
	if byID["devon"] != 2*-0.15 {
		t.Errorf("rival ripple should be negated: %f", byID["devon"])
	}
	if byID["samuel"] != 2*0.1 {
		t.Errorf("colleague ripple wrong: %f", byID["samuel"])
	}
}

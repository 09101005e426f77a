package state

// Delta is a compact representation of the state changes a single player
// action produces. A Delta is authored on a dialogue choice and applied by the
// session runtime. Much smaller than a full GameState, and safe to log.
type Delta struct {
	TrustDeltas       map[string]int                `json:"trust_deltas,omitempty" yaml:"trust_deltas,omitempty"`
	AnxietyDeltas     map[string]int                `json:"anxiety_deltas,omitempty" yaml:"anxiety_deltas,omitempty"`
	PatternIncrements map[PatternType]int           `json:"pattern_increments,omitempty" yaml:"pattern_increments,omitempty"`
	AddGlobalFlags    []string                      `json:"add_global_flags,omitempty" yaml:"add_global_flags,omitempty"`
	AddKnowledge      map[string][]string           `json:"add_knowledge,omitempty" yaml:"add_knowledge,omitempty"`
	SetNervousSystem  map[string]NervousSystemState `json:"set_nervous_system,omitempty" yaml:"set_nervous_system,omitempty"`
	SetRelationship   map[string]RelationshipStatus `json:"set_relationship,omitempty" yaml:"set_relationship,omitempty"`
}

// IsEmpty reports whether the delta changes anything.
func (d *Delta) IsEmpty() bool {
	return d == nil || (len(d.TrustDeltas) == 0 &&
		len(d.AnxietyDeltas) == 0 &&
		len(d.PatternIncrements) == 0 &&
		len(d.AddGlobalFlags) == 0 &&
		len(d.AddKnowledge) == 0 &&
		len(d.SetNervousSystem) == 0 &&
		len(d.SetRelationship) == 0)
}

// Apply returns a new GameState with the delta applied. The input state is not
// modified. Trust lands clamped to [TrustMin, TrustMax]; trust deltas for
// unmet characters introduce the character as a stranger first, so a typo'd
// character ID creates visible state rather than silently dropping the change.
func (d *Delta) Apply(gs *GameState) *GameState {
	out := gs.Clone()
	if d.IsEmpty() {
		return out
	}

	for id, delta := range d.TrustDeltas {
		cs := out.Characters[id]
		cs.Trust = ClampTrust(cs.Trust + delta)
		if cs.KnowledgeFlags == nil {
			cs.KnowledgeFlags = NewIDSet()
		}
		out.Characters[id] = cs
	}
	for id, delta := range d.AnxietyDeltas {
		cs := out.Characters[id]
		cs.Anxiety += delta
		if cs.Anxiety < 0 {
			cs.Anxiety = 0
		}
		out.Characters[id] = cs
	}
	for t, n := range d.PatternIncrements {
		out.Patterns = out.Patterns.WithIncrement(t, n)
	}
	if len(d.AddGlobalFlags) > 0 {
		out.GlobalFlags = out.GlobalFlags.With(d.AddGlobalFlags...)
	}
	for id, flags := range d.AddKnowledge {
		cs := out.Characters[id]
		cs.KnowledgeFlags = cs.KnowledgeFlags.With(flags...)
		out.Characters[id] = cs
	}
	for id, ns := range d.SetNervousSystem {
		cs := out.Characters[id]
		cs.NervousSystem = ns
		out.Characters[id] = cs
	}
	for id, rel := range d.SetRelationship {
		cs := out.Characters[id]
		cs.Relationship = rel
		out.Characters[id] = cs
	}
	return out
}

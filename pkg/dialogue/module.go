package dialogue

import (
	"sort"

	"github.com/gcterminus/engine/pkg/state"
)

// Hook is a point in the session flow where floating modules can insert.
type Hook string

const (
	HookPatternThreshold Hook = "pattern_threshold"
	HookHubReturn        Hook = "hub_return"
	HookArcTransition    Hook = "arc_transition"
)

// FloatingModule is a state-gated interlude that isn't anchored to any one
// character graph. Modules live in a static registry; whether a one-shot has
// fired is session state (GameState.FiredModules).
type FloatingModule struct {
	ModuleID    string     `json:"module_id" yaml:"module_id"`
	Trigger     *Condition `json:"trigger" yaml:"trigger"`
	InsertAfter Hook       `json:"insert_after" yaml:"insert_after"`
	OneShot     bool       `json:"one_shot" yaml:"one_shot"`
	Priority    int        `json:"priority" yaml:"priority"`
	Node        *Node      `json:"node" yaml:"node"` // the interlude content itself
}

// EligibleModules returns the modules that can insert at a hook for the given
// state: trigger satisfied, and unfired if one-shot. Sorted by descending
// priority, then module ID for a stable order between equal priorities.
func EligibleModules(modules []FloatingModule, gs *state.GameState, hook Hook) []FloatingModule {
	var out []FloatingModule
	for _, m := range modules {
		if m.InsertAfter != hook {
			continue
		}
		if m.OneShot && gs.FiredModules.Has(m.ModuleID) {
			continue
		}
		if ok, _ := m.Trigger.Evaluate(gs); !ok {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ModuleID < out[j].ModuleID
	})
	return out
}

// MarkModuleFired records a module as shown, returning a new state.
func MarkModuleFired(gs *state.GameState, moduleID string) *state.GameState {
	out := gs.Clone()
	out.FiredModules = out.FiredModules.With(moduleID)
	return out
}

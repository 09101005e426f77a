// Package ceremony implements the recognition-event trigger engine: scripted
// moments that fire when trust, pattern, or flag thresholds are crossed, with
// priority ordering, a cooldown window, and one-time/repeatable semantics.
package ceremony

import (
	"time"

	"github.com/gcterminus/engine/pkg/state"
)

// DefaultCooldown is the minimum gap between completed ceremonies. A new
// ceremony cannot become pending while the window from the last completion is
// still open, no matter what triggers fire.
const DefaultCooldown = 10 * time.Minute

// Response is one way the player can answer a ceremony.
type Response struct {
	ResponseID string `json:"response_id" yaml:"response_id"`
	Text       string `json:"text" yaml:"text"`
}

// Ceremony is one authored recognition event, keyed by trigger ID in the
// registry.
type Ceremony struct {
	ID        string     `json:"id" yaml:"id"`
	TriggerID string     `json:"trigger_id" yaml:"trigger_id"`
	Title     string     `json:"title" yaml:"title"`
	Script    string     `json:"script" yaml:"script"`
	Responses []Response `json:"responses,omitempty" yaml:"responses,omitempty"`
	Priority  int        `json:"priority" yaml:"priority"`
	OneTime   bool       `json:"one_time" yaml:"one_time"`
}

// Registry is the static ceremony lookup, built once at load.
type Registry struct {
	byID      map[string]Ceremony
	byTrigger map[string][]Ceremony
	ordered   []Ceremony
}

func NewRegistry(ceremonies []Ceremony) *Registry {
	r := &Registry{
		byID:      make(map[string]Ceremony, len(ceremonies)),
		byTrigger: make(map[string][]Ceremony),
		ordered:   append([]Ceremony(nil), ceremonies...),
	}
	for _, c := range ceremonies {
		r.byID[c.ID] = c
		r.byTrigger[c.TriggerID] = append(r.byTrigger[c.TriggerID], c)
	}
	return r
}

// ByID looks up a ceremony.
func (r *Registry) ByID(id string) (Ceremony, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// All returns the ceremonies in authored order.
func (r *Registry) All() []Ceremony {
	return r.ordered
}

// Record is one completed ceremony in a session's history.
type Record struct {
	CeremonyID  string    `json:"ceremony_id"`
	ResponseID  string    `json:"response_id,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// State is the per-player ceremony state machine.
type State struct {
	Completed       state.IDSet `json:"completed,omitempty"`
	PendingCeremony string      `json:"pending_ceremony,omitempty"`
	History         []Record    `json:"history,omitempty"`
	LastCeremonyAt  *time.Time  `json:"last_ceremony_at,omitempty"`
}

// CooldownActive reports whether the window since the last completed ceremony
// is still open. The clock is caller-supplied.
func (s State) CooldownActive(cooldown time.Duration, now time.Time) bool {
	if s.LastCeremonyAt == nil {
		return false
	}
	return now.Sub(*s.LastCeremonyAt) < cooldown
}

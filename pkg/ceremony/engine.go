package ceremony

import (
	"sort"
	"time"
)

// FindEligibleCeremonies returns registry entries whose trigger is active,
// excluding one-time ceremonies already completed, sorted by descending
// priority (ties break on ceremony ID for a stable order).
func FindEligibleCeremonies(r *Registry, s State, activeTriggerIDs []string) []Ceremony {
	var out []Ceremony
	for _, triggerID := range activeTriggerIDs {
		for _, c := range r.byTrigger[triggerID] {
			if c.OneTime && s.Completed.Has(c.ID) {
				continue
			}
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// GetNextCeremony decides what, if anything, should play now. A pending
// ceremony always resumes; it was selected before it was interrupted, so the
// cooldown that gated its selection doesn't re-apply. For a fresh selection
// the cooldown is a hard gate checked before eligibility: while the window is
// open the result is nil regardless of which triggers match.
func GetNextCeremony(r *Registry, s State, activeTriggerIDs []string, cooldown time.Duration, now time.Time) *Ceremony {
	if s.PendingCeremony != "" {
		if c, ok := r.ByID(s.PendingCeremony); ok {
			return &c
		}
	}

	if s.CooldownActive(cooldown, now) {
		return nil
	}

	eligible := FindEligibleCeremonies(r, s, activeTriggerIDs)
	if len(eligible) == 0 {
		return nil
	}
	top := eligible[0]
	return &top
}

// MarkPending records a ceremony as started, returning a new state. Only
// CompleteCeremony clears it.
func MarkPending(s State, ceremonyID string) State {
	out := s
	out.PendingCeremony = ceremonyID
	return out
}

// CompleteCeremony is the single mutator that finishes a ceremony: it clears
// the pending slot, records completion and history, and stamps the cooldown
// clock. Returns a new state; the input is unchanged.
func CompleteCeremony(s State, ceremonyID, responseID string, now time.Time) State {
	out := s
	out.PendingCeremony = ""
	out.Completed = s.Completed.With(ceremonyID)
	out.History = append(append([]Record(nil), s.History...), Record{
		CeremonyID:  ceremonyID,
		ResponseID:  responseID,
		CompletedAt: now,
	})
	t := now
	out.LastCeremonyAt = &t
	return out
}

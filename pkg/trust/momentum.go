package trust

// Momentum is a smoothed trend over recent trust deltas for one character. It
// amplifies future changes in the trending direction and dampens reversals.
type Momentum struct {
	Momentum            float64 `json:"momentum"` // [-1, 1]
	ConsecutivePositive int     `json:"consecutive_positive"`
	ConsecutiveNegative int     `json:"consecutive_negative"`
}

const (
	momentumStep = 0.2

	// Multiplier bounds for ApplyMomentumToTrustChange.
	MinMultiplier = 0.5
	MaxMultiplier = 1.5
)

// UpdateTrustMomentum folds one signed trust delta into the momentum. A
// positive delta extends the positive streak and resets the negative one, and
// vice versa. A reversal decays momentum by one step rather than snapping to
// zero, so a single slip doesn't erase a long streak. Zero deltas leave the
// momentum unchanged. Returns a new value; the input is not modified.
func UpdateTrustMomentum(m Momentum, delta int) Momentum {
	switch {
	case delta > 0:
		m.ConsecutivePositive++
		m.ConsecutiveNegative = 0
		if m.Momentum < 0 {
			m.Momentum += momentumStep
		} else {
			m.Momentum = clampFloat(m.Momentum+momentumStep, -1, 1)
		}
	case delta < 0:
		m.ConsecutiveNegative++
		m.ConsecutivePositive = 0
		if m.Momentum > 0 {
			m.Momentum -= momentumStep
		} else {
			m.Momentum = clampFloat(m.Momentum-momentumStep, -1, 1)
		}
	}
	m.Momentum = clampFloat(m.Momentum, -1, 1)
	return m
}

// GetMomentumMultiplier converts momentum into a trust-change multiplier for
// positive deltas, clamped to [MinMultiplier, MaxMultiplier]. Negative deltas
// use the mirrored multiplier inside ApplyMomentumToTrustChange.
func GetMomentumMultiplier(m Momentum) float64 {
	return clampFloat(1+m.Momentum/2, MinMultiplier, MaxMultiplier)
}

// ApplyMomentumToTrustChange scales a raw trust delta by the current momentum.
// Same-sign changes are amplified, opposite-sign changes are dampened, and the
// sign of rawDelta is never inverted (the multiplier is always positive).
func ApplyMomentumToTrustChange(rawDelta int, m Momentum) float64 {
	if rawDelta == 0 {
		return 0
	}
	mult := GetMomentumMultiplier(m)
	if rawDelta < 0 {
		// Mirror: negative momentum makes losses sting more, positive
		// momentum cushions them.
		mult = clampFloat(1-m.Momentum/2, MinMultiplier, MaxMultiplier)
	}
	return float64(rawDelta) * mult
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package trust

// AsymmetryLevel labels the gap between two trust values, e.g. between two
// characters' trust in the player, or trust in both directions of a pair.
type AsymmetryLevel string

const (
	AsymmetryNone    AsymmetryLevel = "none"
	AsymmetryMinor   AsymmetryLevel = "minor"
	AsymmetryNotable AsymmetryLevel = "notable"
	AsymmetryMajor   AsymmetryLevel = "major"
)

// Asymmetry is the result of comparing two trust values.
type Asymmetry struct {
	Level AsymmetryLevel `json:"level"`
	Delta int            `json:"delta"` // absolute gap, always >= 0
}

// CalculateTrustAsymmetry compares two trust values. Symmetric in its inputs:
// swapping a and b yields an identical result.
func CalculateTrustAsymmetry(a, b int) Asymmetry {
	delta := a - b
	if delta < 0 {
		delta = -delta
	}

	level := AsymmetryNone
	switch {
	case delta >= 5:
		level = AsymmetryMajor
	case delta >= 3:
		level = AsymmetryNotable
	case delta >= 1:
		level = AsymmetryMinor
	}
	return Asymmetry{Level: level, Delta: delta}
}

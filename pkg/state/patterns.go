package state

// PatternType identifies one of the five behavioral patterns accumulated from
// player choices.
type PatternType string

const (
	PatternAnalytical PatternType = "analytical"
	PatternBuilding   PatternType = "building"
	PatternHelping    PatternType = "helping"
	PatternPatience   PatternType = "patience"
	PatternExploring  PatternType = "exploring"
)

// PatternTypes lists all patterns in canonical order.
var PatternTypes = []PatternType{
	PatternAnalytical,
	PatternBuilding,
	PatternHelping,
	PatternPatience,
	PatternExploring,
}

// PatternTier is an unlock tier reached when a pattern counter crosses a
// threshold.
type PatternTier string

const (
	TierNone        PatternTier = "none"
	TierEmerging    PatternTier = "emerging"
	TierDeveloping  PatternTier = "developing"
	TierFlourishing PatternTier = "flourishing"
)

// Tier thresholds. A counter exactly at a threshold unlocks the tier.
const (
	EmergingThreshold    = 3
	DevelopingThreshold  = 6
	FlourishingThreshold = 9
)

// PlayerPatterns holds the raw pattern counters. Counters only ever increase
// within a session; derived signals like momentum decay, the counters do not.
type PlayerPatterns struct {
	Analytical int `json:"analytical"`
	Building   int `json:"building"`
	Helping    int `json:"helping"`
	Patience   int `json:"patience"`
	Exploring  int `json:"exploring"`
}

// Get returns the counter for a pattern type. Unknown types read as zero.
func (p PlayerPatterns) Get(t PatternType) int {
	switch t {
	case PatternAnalytical:
		return p.Analytical
	case PatternBuilding:
		return p.Building
	case PatternHelping:
		return p.Helping
	case PatternPatience:
		return p.Patience
	case PatternExploring:
		return p.Exploring
	}
	return 0
}

// WithIncrement returns a copy with the given pattern raised by n.
func (p PlayerPatterns) WithIncrement(t PatternType, n int) PlayerPatterns {
	switch t {
	case PatternAnalytical:
		p.Analytical += n
	case PatternBuilding:
		p.Building += n
	case PatternHelping:
		p.Helping += n
	case PatternPatience:
		p.Patience += n
	case PatternExploring:
		p.Exploring += n
	}
	return p
}

// TierFor maps a raw counter to its unlock tier.
func TierFor(value int) PatternTier {
	switch {
	case value >= FlourishingThreshold:
		return TierFlourishing
	case value >= DevelopingThreshold:
		return TierDeveloping
	case value >= EmergingThreshold:
		return TierEmerging
	default:
		return TierNone
	}
}

// Tier returns the unlock tier for a pattern type.
func (p PlayerPatterns) Tier(t PatternType) PatternTier {
	return TierFor(p.Get(t))
}

// Dominant returns the pattern with the highest counter. Ties resolve in
// canonical pattern order, so the result is stable.
func (p PlayerPatterns) Dominant() PatternType {
	best := PatternTypes[0]
	for _, t := range PatternTypes[1:] {
		if p.Get(t) > p.Get(best) {
			best = t
		}
	}
	return best
}

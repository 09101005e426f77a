package trust

import (
	"math"
	"sort"
)

// RelationshipTier classifies the bond between two characters. The tier sets
// how strongly trust earned with one transfers to the other.
type RelationshipTier string

const (
	TierCloseFriend RelationshipTier = "close_friend"
	TierFriend      RelationshipTier = "friend"
	TierColleague   RelationshipTier = "colleague"
	TierStranger    RelationshipTier = "stranger"
	TierRival       RelationshipTier = "rival"
)

// transferRates maps tiers to trust transfer weights. Rivals carry a negative
// rate: warming to one cools the other.
var transferRates = map[RelationshipTier]float64{
	TierCloseFriend: 0.3,
	TierFriend:      0.2,
	TierColleague:   0.1,
	TierStranger:    0,
	TierRival:       -0.15,
}

// TransferRate returns the weight for a tier. Unknown tiers read as stranger.
func TransferRate(tier RelationshipTier) float64 {
	return transferRates[tier]
}

// InheritedTrustCap bounds how much standing a character grants from their
// connections alone, no matter how many or how strong.
const InheritedTrustCap = 3.0

// Relationship is one authored edge of the character relationship graph.
type Relationship struct {
	A    string           `json:"a" yaml:"a"`
	B    string           `json:"b" yaml:"b"`
	Tier RelationshipTier `json:"tier" yaml:"tier"`
}

// RelationshipGraph is the static, symmetric web of character relationships.
// Built once from authored content and read-only after that.
type RelationshipGraph struct {
	edges map[string]map[string]RelationshipTier
}

// NewRelationshipGraph builds a graph from authored edges. Each edge is stored
// in both directions, so Lookup(a, b) == Lookup(b, a) by construction.
func NewRelationshipGraph(rels []Relationship) *RelationshipGraph {
	g := &RelationshipGraph{edges: make(map[string]map[string]RelationshipTier)}
	for _, r := range rels {
		g.add(r.A, r.B, r.Tier)
		g.add(r.B, r.A, r.Tier)
	}
	return g
}

func (g *RelationshipGraph) add(from, to string, tier RelationshipTier) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]RelationshipTier)
	}
	g.edges[from][to] = tier
}

// Lookup returns the tier between two characters, stranger when unrelated.
func (g *RelationshipGraph) Lookup(a, b string) RelationshipTier {
	if tier, ok := g.edges[a][b]; ok {
		return tier
	}
	return TierStranger
}

// Related returns the IDs connected to a character, sorted for determinism.
func (g *RelationshipGraph) Related(id string) []string {
	out := make([]string, 0, len(g.edges[id]))
	for other := range g.edges[id] {
		out = append(out, other)
	}
	sort.Strings(out)
	return out
}

// CalculateInheritedTrust sums weighted trust from a character's connections,
// capped at InheritedTrustCap and floored at zero. A stranger to everyone
// inherits nothing.
func (g *RelationshipGraph) CalculateInheritedTrust(characterID string, allTrusts map[string]int) float64 {
	var total float64
	for other, tier := range g.edges[characterID] {
		t, ok := allTrusts[other]
		if !ok {
			continue
		}
		total += float64(t) * TransferRate(tier)
	}
	if total < 0 {
		return 0
	}
	return math.Min(total, InheritedTrustCap)
}

// RippleTarget is one character affected by a trust change elsewhere.
type RippleTarget struct {
	CharacterID   string  `json:"character_id"`
	ExpectedDelta float64 `json:"expected_delta"`
}

// GetTrustRippleTargets propagates a signed trust delta along the relationship
// graph. Rival edges negate the ripple. Zero-weight edges are omitted. Targets
// come back sorted by character ID so callers see a stable order.
func (g *RelationshipGraph) GetTrustRippleTargets(characterID string, delta int) []RippleTarget {
	var targets []RippleTarget
	for _, other := range g.Related(characterID) {
		rate := TransferRate(g.Lookup(characterID, other))
		if rate == 0 {
			continue
		}
		targets = append(targets, RippleTarget{
			CharacterID:   other,
			ExpectedDelta: float64(delta) * rate,
		})
	}
	return targets
}

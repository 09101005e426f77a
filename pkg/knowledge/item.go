// Package knowledge implements the knowledge graph: discrete items the player
// learns, combinations that unlock insights, iceberg topics that surface after
// repeated mentions, the trade marketplace, and synthesis puzzles. Every
// mutating operation returns a new state value.
package knowledge

// Tier ranks how guarded a piece of knowledge is.
type Tier string

const (
	TierRumor   Tier = "rumor"
	TierInsight Tier = "insight"
	TierSecret  Tier = "secret"
	TierTruth   Tier = "truth"
)

// Item is one discrete piece of knowledge, keyed by ID in the registry.
type Item struct {
	ID                string   `json:"id" yaml:"id"`
	SourceCharacterID string   `json:"source_character_id" yaml:"source_character_id"`
	Content           string   `json:"content" yaml:"content"`
	Tier              Tier     `json:"tier" yaml:"tier"`
	UnlocksTradesWith []string `json:"unlocks_trades_with,omitempty" yaml:"unlocks_trades_with,omitempty"`
}

// Registry is the static lookup table of authored knowledge content. Built
// once at load and read-only afterward.
type Registry struct {
	items        map[string]Item
	combinations []Combination
	topics       map[string]IcebergTopic
	offers       map[string]TradeOffer
	puzzles      map[string]SynthesisPuzzle
}

func NewRegistry(items []Item, combos []Combination, topics []IcebergTopic, offers []TradeOffer, puzzles []SynthesisPuzzle) *Registry {
	r := &Registry{
		items:        make(map[string]Item, len(items)),
		combinations: combos,
		topics:       make(map[string]IcebergTopic, len(topics)),
		offers:       make(map[string]TradeOffer, len(offers)),
		puzzles:      make(map[string]SynthesisPuzzle, len(puzzles)),
	}
	for _, it := range items {
		r.items[it.ID] = it
	}
	for _, topic := range topics {
		r.topics[topic.ID] = topic
	}
	for _, offer := range offers {
		r.offers[offer.ID] = offer
	}
	for _, p := range puzzles {
		r.puzzles[p.ID] = p
	}
	return r
}

func (r *Registry) Item(id string) (Item, bool) {
	it, ok := r.items[id]
	return it, ok
}

func (r *Registry) Topic(id string) (IcebergTopic, bool) {
	topic, ok := r.topics[id]
	return topic, ok
}

func (r *Registry) Offer(id string) (TradeOffer, bool) {
	offer, ok := r.offers[id]
	return offer, ok
}

func (r *Registry) Puzzle(id string) (SynthesisPuzzle, bool) {
	p, ok := r.puzzles[id]
	return p, ok
}

func (r *Registry) Combinations() []Combination {
	return r.combinations
}

package knowledge

import (
	"sort"

	"github.com/gcterminus/engine/pkg/state"
)

// IcebergTopic is narrative content that stays below the surface until
// characters have mentioned it enough times to become investigable.
type IcebergTopic struct {
	ID               string `json:"id" yaml:"id"`
	Title            string `json:"title" yaml:"title"`
	MentionThreshold int    `json:"mention_threshold" yaml:"mention_threshold"`
}

// Mention records one character referencing a topic.
type Mention struct {
	CharacterID string `json:"character_id"`
	NodeID      string `json:"node_id"`
	Text        string `json:"text,omitempty"`
}

// IcebergState is the per-session accumulation of mentions and investigated
// topics.
type IcebergState struct {
	Mentions     map[string][]Mention `json:"mentions,omitempty"`
	Investigated state.IDSet          `json:"investigated,omitempty"`
}

// RecordMention appends a mention for a topic, returning a new state. The
// input state is not modified. Mentions keep accruing after the threshold;
// only investigation stops the topic.
func RecordMention(is IcebergState, topicID string, m Mention) IcebergState {
	out := IcebergState{
		Mentions:     make(map[string][]Mention, len(is.Mentions)+1),
		Investigated: is.Investigated.With(),
	}
	for id, ms := range is.Mentions {
		out.Mentions[id] = append([]Mention(nil), ms...)
	}
	out.Mentions[topicID] = append(out.Mentions[topicID], m)
	return out
}

// TopicInvestigable reports whether a topic has crossed its mention threshold
// and has not yet been investigated. Investigation is terminal: once marked,
// the topic never reopens regardless of further mentions.
func TopicInvestigable(is IcebergState, topic IcebergTopic) bool {
	if is.Investigated.Has(topic.ID) {
		return false
	}
	return len(is.Mentions[topic.ID]) >= topic.MentionThreshold
}

// MarkInvestigated closes a topic, returning a new state.
func MarkInvestigated(is IcebergState, topicID string) IcebergState {
	out := is
	out.Investigated = is.Investigated.With(topicID)
	return out
}

// InvestigableTopics filters a registry's topics down to the ones currently
// open to the player, sorted by topic ID.
func InvestigableTopics(r *Registry, is IcebergState) []IcebergTopic {
	ids := make([]string, 0, len(is.Mentions))
	for id := range is.Mentions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []IcebergTopic
	for _, id := range ids {
		topic, ok := r.Topic(id)
		if !ok {
			continue
		}
		if TopicInvestigable(is, topic) {
			out = append(out, topic)
		}
	}
	return out
}

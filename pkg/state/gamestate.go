package state

import (
	"time"

	"github.com/google/uuid"
)

// Trust bounds. Callers clamp on every write; the engine assumes loaded state
// already satisfies this.
const (
	TrustMin = 0
	TrustMax = 10
)

// NervousSystemState is the polyvagal read of a character's (or the player's)
// regulation during a conversation.
type NervousSystemState string

const (
	VentralVagal NervousSystemState = "ventral_vagal" // regulated, socially engaged
	Sympathetic  NervousSystemState = "sympathetic"   // mobilized, anxious
	DorsalVagal  NervousSystemState = "dorsal_vagal"  // shut down, withdrawn
)

// RelationshipStatus labels how far a character relationship has progressed.
type RelationshipStatus string

const (
	RelStranger     RelationshipStatus = "stranger"
	RelAcquaintance RelationshipStatus = "acquaintance"
	RelFriend       RelationshipStatus = "friend"
	RelConfidant    RelationshipStatus = "confidant"
	RelAlly         RelationshipStatus = "ally"
)

// ConversationEntry records one exchange with a character.
type ConversationEntry struct {
	NodeID   string `json:"node_id"`
	ChoiceID string `json:"choice_id,omitempty"`
	Text     string `json:"text,omitempty"`
}

// CharacterState is the player's standing with a single NPC.
type CharacterState struct {
	Trust               int                 `json:"trust"` // [TrustMin, TrustMax]
	Anxiety             int                 `json:"anxiety,omitempty"`
	NervousSystem       NervousSystemState  `json:"nervous_system,omitempty"`
	Relationship        RelationshipStatus  `json:"relationship,omitempty"`
	KnowledgeFlags      IDSet               `json:"knowledge_flags,omitempty"`
	ConversationHistory []ConversationEntry `json:"conversation_history,omitempty"`
}

// GameState is the full per-player snapshot the engine evaluates against.
// Evaluation never mutates it; every mutator returns a new value.
type GameState struct {
	ID                 uuid.UUID                 `json:"id"`
	Characters         map[string]CharacterState `json:"characters,omitempty"`
	Patterns           PlayerPatterns            `json:"patterns"`
	GlobalFlags        IDSet                     `json:"global_flags,omitempty"`
	FiredModules       IDSet                     `json:"fired_modules,omitempty"`
	CurrentNodeID      string                    `json:"current_node_id,omitempty"`
	CurrentCharacterID string                    `json:"current_character_id,omitempty"`
	CreatedAt          time.Time                 `json:"created_at,omitempty"`
	UpdatedAt          time.Time                 `json:"updated_at,omitempty"`
}

func NewGameState() *GameState {
	now := time.Now().UTC()
	return &GameState{
		ID:           uuid.New(),
		Characters:   make(map[string]CharacterState),
		GlobalFlags:  NewIDSet(),
		FiredModules: NewIDSet(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Character looks up a character's state. The second return is false when the
// character has not been met; condition evaluation fails closed on that.
func (gs *GameState) Character(id string) (CharacterState, bool) {
	cs, ok := gs.Characters[id]
	return cs, ok
}

// TrustWith returns the trust level for a character, zero if unmet.
func (gs *GameState) TrustWith(id string) int {
	return gs.Characters[id].Trust
}

// AllKnowledge returns the union of global flags and every character's
// knowledge flags. Knowledge combinations match against this set.
func (gs *GameState) AllKnowledge() IDSet {
	all := gs.GlobalFlags
	for _, cs := range gs.Characters {
		if len(cs.KnowledgeFlags) > 0 {
			all = all.Union(cs.KnowledgeFlags)
		}
	}
	return all
}

// Clone returns a deep copy. Delta application works on a clone so the caller's
// snapshot stays untouched.
func (gs *GameState) Clone() *GameState {
	out := *gs
	out.Characters = make(map[string]CharacterState, len(gs.Characters))
	for id, cs := range gs.Characters {
		cc := cs
		cc.KnowledgeFlags = cs.KnowledgeFlags.With()
		cc.ConversationHistory = append([]ConversationEntry(nil), cs.ConversationHistory...)
		out.Characters[id] = cc
	}
	out.GlobalFlags = gs.GlobalFlags.With()
	out.FiredModules = gs.FiredModules.With()
	return &out
}

// ClampTrust bounds a trust value to [TrustMin, TrustMax].
func ClampTrust(trust int) int {
	if trust < TrustMin {
		return TrustMin
	}
	if trust > TrustMax {
		return TrustMax
	}
	return trust
}

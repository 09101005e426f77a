// Package session owns the per-player aggregate: the game state snapshot plus
// ceremony, marketplace, iceberg, and momentum state, and the runtime that
// applies choices to it. The session runtime is the single writer; everything
// it calls in the engine packages is pure.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/gcterminus/engine/pkg/ceremony"
	"github.com/gcterminus/engine/pkg/knowledge"
	"github.com/gcterminus/engine/pkg/state"
	"github.com/gcterminus/engine/pkg/trust"
)

// Character is one roster entry from authored content.
type Character struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Role  string `json:"role,omitempty" yaml:"role,omitempty"`
	Intro string `json:"intro,omitempty" yaml:"intro,omitempty"`
}

// Session is the persisted unit: everything the engine needs to evaluate a
// player, and nothing it derives.
type Session struct {
	Game         *state.GameState           `json:"game"`
	Ceremonies   ceremony.State             `json:"ceremonies"`
	Marketplace  knowledge.MarketplaceState `json:"marketplace"`
	Iceberg      knowledge.IcebergState     `json:"iceberg"`
	Combinations knowledge.CombinationState `json:"combinations"`

	// Momentum is tracked per character from the raw trust deltas of chosen
	// choices.
	Momentum map[string]trust.Momentum `json:"momentum,omitempty"`

	// SynthesisAttempts counts attempts per puzzle for progressive hints.
	SynthesisAttempts map[string]int `json:"synthesis_attempts,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a session with every roster character met as a stranger, so
// conditions referencing any cast member evaluate against real state from the
// first node.
func New(roster []Character) *Session {
	gs := state.NewGameState()
	for _, c := range roster {
		gs.Characters[c.ID] = state.CharacterState{
			Trust:          state.TrustMin,
			NervousSystem:  state.VentralVagal,
			Relationship:   state.RelStranger,
			KnowledgeFlags: state.NewIDSet(),
		}
	}
	return &Session{
		Game:              gs,
		Momentum:          make(map[string]trust.Momentum),
		SynthesisAttempts: make(map[string]int),
		UpdatedAt:         time.Now().UTC(),
	}
}

// ID returns the session's identity, shared with its game state.
func (s *Session) ID() uuid.UUID {
	return s.Game.ID
}

// Clone deep-copies the session so runtime operations stay copy-on-write.
func (s *Session) Clone() *Session {
	out := *s
	out.Game = s.Game.Clone()
	out.Momentum = make(map[string]trust.Momentum, len(s.Momentum))
	for id, m := range s.Momentum {
		out.Momentum[id] = m
	}
	out.SynthesisAttempts = make(map[string]int, len(s.SynthesisAttempts))
	for id, n := range s.SynthesisAttempts {
		out.SynthesisAttempts[id] = n
	}
	return &out
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeSessionUpdated      EventType = "session.updated"
	EventTypeCeremonyTriggered   EventType = "ceremony.triggered"
	EventTypeCombinationUnlocked EventType = "combination.unlocked"
	EventTypePatternTier         EventType = "pattern.tier_crossed"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"session_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Broadcaster publishes events to Redis Pub/Sub for client distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishSessionUpdated publishes a session.updated event after a choice is applied
func (b *Broadcaster) PublishSessionUpdated(ctx context.Context, sessionID uuid.UUID, characterID string, nodeID string) error {
	event := Event{
		Type:      EventTypeSessionUpdated,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"character_id": characterID,
			"node_id":      nodeID,
		},
	}
	return b.publishToSession(ctx, sessionID, event)
}

// PublishCeremonyTriggered publishes a ceremony.triggered event
func (b *Broadcaster) PublishCeremonyTriggered(ctx context.Context, sessionID uuid.UUID, ceremonyID string) error {
	event := Event{
		Type:      EventTypeCeremonyTriggered,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"ceremony_id": ceremonyID,
		},
	}
	return b.publishToSession(ctx, sessionID, event)
}

// PublishCombinationUnlocked publishes a combination.unlocked event
func (b *Broadcaster) PublishCombinationUnlocked(ctx context.Context, sessionID uuid.UUID, combinationID string, insight string) error {
	event := Event{
		Type:      EventTypeCombinationUnlocked,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"combination_id": combinationID,
			"insight":        insight,
		},
	}
	return b.publishToSession(ctx, sessionID, event)
}

// PublishPatternTierCrossed publishes a pattern.tier_crossed event
func (b *Broadcaster) PublishPatternTierCrossed(ctx context.Context, sessionID uuid.UUID, pattern string, tier string) error {
	event := Event{
		Type:      EventTypePatternTier,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"pattern": pattern,
			"tier":    tier,
		},
	}
	return b.publishToSession(ctx, sessionID, event)
}

// publishToSession publishes an event to the session-specific channel
func (b *Broadcaster) publishToSession(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := fmt.Sprintf("session-events:%s", sessionID.String())

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}

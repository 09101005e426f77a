package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/gcterminus/engine/pkg/session"
)

// Storage persists sessions between visits. Load returns (nil, nil) for a
// session that doesn't exist; callers translate that to a 404.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	SaveSession(ctx context.Context, s *session.Session) error
	LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

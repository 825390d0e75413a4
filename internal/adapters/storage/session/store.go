package session

import (
	"context"
	"errors"
	"time"

	domain "courtlink/internal/domain/session"
)

// ErrNotFound is returned when no live session matches the id.
var ErrNotFound = errors.New("session not found")

// Store persists browser sessions.
type Store interface {
	Get(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, value domain.Session) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

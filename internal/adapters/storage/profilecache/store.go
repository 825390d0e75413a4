package profilecache

import (
	"context"
	"errors"

	domain "courtlink/internal/domain/profile"
)

// ErrNotFound is returned when no current-version entry exists for the session.
var ErrNotFound = errors.New("profile cache entry not found")

// Store persists the per-session profile cache.
type Store interface {
	Get(ctx context.Context, sessionID string) (domain.CacheEntry, error)
	Put(ctx context.Context, entry domain.CacheEntry) error
	Delete(ctx context.Context, sessionID string) error
}

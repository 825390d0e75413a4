package profilecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"courtlink/internal/adapters/storage"
	domain "courtlink/internal/domain/profile"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  storage.DB
	now func() time.Time
}

// NewSQLiteStore creates a new profile cache store.
func NewSQLiteStore(db storage.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

type row struct {
	SessionID    string `db:"session_id"`
	Email        string `db:"email"`
	Name         string `db:"name"`
	UniversityID string `db:"university_id"`
	Completed    bool   `db:"completed"`
	Version      int    `db:"version"`
	UpdatedAt    string `db:"updated_at"`
}

// Get returns the cached entry for a session. Entries written under an older
// cache version are treated as absent.
// PRE: sessionID is non-empty
// POST: Returns the entry or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (domain.CacheEntry, error) {
	var r row
	err := sqlx.GetContext(ctx, s.db, &r, `SELECT session_id, email, name, university_id, completed, version, updated_at FROM profile_cache WHERE session_id = ?`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CacheEntry{}, ErrNotFound
	}
	if err != nil {
		return domain.CacheEntry{}, fmt.Errorf("get profile cache: %w", err)
	}
	if r.Version != domain.CacheVersion {
		return domain.CacheEntry{}, ErrNotFound
	}
	return domain.CacheEntry{
		SessionID:    r.SessionID,
		Email:        r.Email,
		Name:         r.Name,
		UniversityID: r.UniversityID,
		Completed:    r.Completed,
		Version:      r.Version,
	}, nil
}

// Put writes the entry under the current cache version, replacing any previous one.
// PRE: entry.SessionID is non-empty
// POST: Get returns entry with Version == CacheVersion
func (s *SQLiteStore) Put(ctx context.Context, entry domain.CacheEntry) error {
	if entry.SessionID == "" {
		return errors.New("put profile cache: empty session id")
	}
	_, err := sqlx.NamedExecContext(ctx, s.db, `
		INSERT INTO profile_cache (session_id, email, name, university_id, completed, version, updated_at)
		VALUES (:session_id, :email, :name, :university_id, :completed, :version, :updated_at)
		ON CONFLICT(session_id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			university_id = excluded.university_id,
			completed = excluded.completed,
			version = excluded.version,
			updated_at = excluded.updated_at`, row{
		SessionID:    entry.SessionID,
		Email:        entry.Email,
		Name:         entry.Name,
		UniversityID: entry.UniversityID,
		Completed:    entry.Completed,
		Version:      domain.CacheVersion,
		UpdatedAt:    storage.FormatTime(s.now()),
	})
	if err != nil {
		return fmt.Errorf("put profile cache: %w", err)
	}
	return nil
}

// Delete removes the entry for a session. Deleting a missing entry is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profile_cache WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete profile cache: %w", err)
	}
	return nil
}

// DeleteOrphaned removes entries whose browser session no longer exists.
// POST: returns the number of removed entries
func (s *SQLiteStore) DeleteOrphaned(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profile_cache WHERE session_id NOT IN (SELECT id FROM browser_session)`)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned profile cache: %w", err)
	}
	return res.RowsAffected()
}

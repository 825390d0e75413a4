package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"courtlink/internal/adapters/storage"
	domain "courtlink/internal/domain/session"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  storage.DB
	now func() time.Time
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

type row struct {
	ID           string `db:"id"`
	Kind         string `db:"kind"`
	Email        string `db:"email"`
	AccessToken  string `db:"access_token"`
	IDToken      string `db:"id_token"`
	RefreshToken string `db:"refresh_token"`
	AdminClaim   string `db:"admin_claim"`
	CreatedAt    string `db:"created_at"`
	ExpiresAt    string `db:"expires_at"`
}

func toRow(s domain.Session) row {
	return row{
		ID:           s.ID,
		Kind:         string(s.Kind),
		Email:        s.Email,
		AccessToken:  s.AccessToken,
		IDToken:      s.IDToken,
		RefreshToken: s.RefreshToken,
		AdminClaim:   s.AdminClaim,
		CreatedAt:    storage.FormatTime(s.CreatedAt),
		ExpiresAt:    storage.FormatTime(s.ExpiresAt),
	}
}

func (r row) toDomain() (domain.Session, error) {
	created, err := storage.ParseTime(r.CreatedAt)
	if err != nil {
		return domain.Session{}, err
	}
	expires, err := storage.ParseTime(r.ExpiresAt)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		ID:           r.ID,
		Kind:         domain.Kind(r.Kind),
		Email:        r.Email,
		AccessToken:  r.AccessToken,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		AdminClaim:   r.AdminClaim,
		CreatedAt:    created,
		ExpiresAt:    expires,
	}, nil
}

// Get retrieves a live session by id. Expired sessions are removed and reported as not found.
// PRE: id is non-empty
// POST: Returns the session or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Session, error) {
	var r row
	err := sqlx.GetContext(ctx, s.db, &r, `SELECT id, kind, email, access_token, id_token, refresh_token, admin_claim, created_at, expires_at FROM browser_session WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, ErrNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	sess, err := r.toDomain()
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		_ = s.Delete(ctx, id)
		return domain.Session{}, ErrNotFound
	}
	return sess, nil
}

// Save inserts or replaces a session.
// PRE: value.ID is non-empty
// POST: the stored row equals value
func (s *SQLiteStore) Save(ctx context.Context, value domain.Session) error {
	if value.ID == "" {
		return errors.New("save session: empty id")
	}
	_, err := sqlx.NamedExecContext(ctx, s.db, `
		INSERT INTO browser_session (id, kind, email, access_token, id_token, refresh_token, admin_claim, created_at, expires_at)
		VALUES (:id, :kind, :email, :access_token, :id_token, :refresh_token, :admin_claim, :created_at, :expires_at)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			email = excluded.email,
			access_token = excluded.access_token,
			id_token = excluded.id_token,
			refresh_token = excluded.refresh_token,
			admin_claim = excluded.admin_claim,
			expires_at = excluded.expires_at`, toRow(value))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM browser_session WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session whose expiry is at or before now.
// Sessions without an expiry are kept.
// POST: returns the number of removed sessions
func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM browser_session WHERE expires_at > ? AND expires_at <= ?`,
		storage.FormatTime(time.Time{}), storage.FormatTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

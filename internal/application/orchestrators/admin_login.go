package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"courtlink/internal/adapters/backend"
	"courtlink/internal/domain/session"
)

// AdminAuthenticator checks admin credentials against the backend.
type AdminAuthenticator interface {
	AdminLogin(ctx context.Context, username, password string) error
}

// ClaimIssuer signs an admin role assertion for subject.
type ClaimIssuer interface {
	Issue(subject string, now time.Time) (token string, expiresAt time.Time, err error)
}

// AdminLoginInput carries the admin login form.
type AdminLoginInput struct {
	Username string          `form:"username" validate:"required"`
	Password string          `form:"password" validate:"required"`
	Current  session.Session `validate:"-"`
}

// AdminLoginDeps holds dependencies for AdminLogin.
type AdminLoginDeps struct {
	Backend    AdminAuthenticator
	Claims     ClaimIssuer
	Sessions   SessionStoreForLogin
	Cache      ProfileCacheRemover
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteAdminLogin verifies admin credentials with the backend and starts an
// admin session carrying a signed role claim.
// PRE: Username and password are provided
// POST: On success a new admin session exists whose expiry equals the claim's
func ExecuteAdminLogin(ctx context.Context, input AdminLoginInput, deps AdminLoginDeps) (session.Session, error) {
	input.Username = strings.TrimSpace(input.Username)
	if err := validateInput(input); err != nil {
		return session.Session{}, err
	}

	if err := deps.Backend.AdminLogin(ctx, input.Username, input.Password); err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			slog.Info("admin_event", "event", "login_failed", "username", input.Username)
			return session.Session{}, ErrInvalidAdminCredentials
		}
		return session.Session{}, err
	}

	now := deps.Now()
	claim, expires, err := deps.Claims.Issue(input.Username, now)
	if err != nil {
		return session.Session{}, err
	}
	next := session.Session{
		ID:         deps.GenerateID(),
		Kind:       session.KindAdmin,
		Email:      input.Username,
		AdminClaim: claim,
		CreatedAt:  now,
		ExpiresAt:  expires,
	}
	if err := deps.Sessions.Save(ctx, next); err != nil {
		return session.Session{}, err
	}
	discardSession(ctx, input.Current.ID, deps.Sessions, deps.Cache)

	slog.Info("admin_event", "event", "login_success", "username", input.Username, "session_id", next.ID)
	return next, nil
}

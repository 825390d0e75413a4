package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"courtlink/internal/adapters/identity"
	"courtlink/internal/domain/session"
)

// IdentityForLogin defines the identity operations needed by Login.
type IdentityForLogin interface {
	SignIn(ctx context.Context, in identity.SignInInput) (identity.Tokens, error)
	SignOut(ctx context.Context, refreshToken string) error
}

// SessionStoreForLogin defines the session store interface needed by Login.
type SessionStoreForLogin interface {
	Save(ctx context.Context, s session.Session) error
	Delete(ctx context.Context, id string) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	// Current is the browser's existing session, if any. It is replaced on success.
	Current session.Session `validate:"-"`
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Identity   IdentityForLogin
	Sessions   SessionStoreForLogin
	Cache      ProfileCacheRemover
	GenerateID func() string
	Now        func() time.Time
	TTL        time.Duration
}

// ExecuteLogin signs the user in and starts a new user session.
// A sign-in refused because another user is still signed in on this browser
// triggers exactly one forced sign-out and one retry.
// PRE: Email and password are provided
// POST: On success a new user session is saved and the previous one removed
// INVARIANT: At most two sign-in attempts are made
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (session.Session, error) {
	if err := validateInput(input); err != nil {
		return session.Session{}, err
	}

	tokens, err := deps.Identity.SignIn(ctx, identity.SignInInput{
		Email:             input.Email,
		Password:          input.Password,
		ActiveAccessToken: input.Current.AccessToken,
	})
	if errors.Is(err, identity.ErrAlreadySignedIn) {
		slog.Info("auth_event", "event", "login_retry", "email", input.Email, "reason", "already_signed_in")
		if signOutErr := deps.Identity.SignOut(ctx, input.Current.RefreshToken); signOutErr != nil {
			slog.Warn("auth_event", "event", "forced_sign_out_failed", "email", input.Email, "error", signOutErr)
		}
		tokens, err = deps.Identity.SignIn(ctx, identity.SignInInput{
			Email:    input.Email,
			Password: input.Password,
		})
		if err != nil {
			slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "session_mismatch", "error", err)
			return session.Session{}, ErrSessionMismatch
		}
	}
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "error", err)
		return session.Session{}, err
	}

	now := deps.Now()
	expires := now.Add(sessionTTL(deps.TTL))
	if !tokens.ExpiresAt.IsZero() && tokens.ExpiresAt.Before(expires) {
		expires = tokens.ExpiresAt
	}
	next := session.Session{
		ID:           deps.GenerateID(),
		Kind:         session.KindUser,
		Email:        input.Email,
		AccessToken:  tokens.AccessToken,
		IDToken:      tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
		CreatedAt:    now,
		ExpiresAt:    expires,
	}
	if err := deps.Sessions.Save(ctx, next); err != nil {
		return session.Session{}, err
	}
	discardSession(ctx, input.Current.ID, deps.Sessions, deps.Cache)

	slog.Info("auth_event", "event", "login_success", "email", input.Email, "session_id", next.ID)
	return next, nil
}

func sessionTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return session.DefaultTTL
	}
	return ttl
}

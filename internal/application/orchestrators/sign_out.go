package orchestrators

import (
	"context"
	"log/slog"

	"courtlink/internal/domain/session"
)

// ProfileCacheRemover deletes the cached profile of a session.
type ProfileCacheRemover interface {
	Delete(ctx context.Context, sessionID string) error
}

// SessionRemover deletes a browser session.
type SessionRemover interface {
	Delete(ctx context.Context, id string) error
}

// IdentityForSignOut defines the identity operation needed by SignOut.
type IdentityForSignOut interface {
	SignOut(ctx context.Context, refreshToken string) error
}

// SignOutDeps holds dependencies for SignOut.
type SignOutDeps struct {
	Identity IdentityForSignOut
	Sessions SessionRemover
	Cache    ProfileCacheRemover
}

// ExecuteSignOut ends a user or admin session.
// Only this browser's refresh token is revoked; the user's other sessions
// stay signed in. The identity sign-out is best effort; local state is always
// cleared.
// POST: the session row and its cached profile are gone
func ExecuteSignOut(ctx context.Context, current session.Session, deps SignOutDeps) error {
	if current.RefreshToken != "" && deps.Identity != nil {
		if err := deps.Identity.SignOut(ctx, current.RefreshToken); err != nil {
			slog.Warn("auth_event", "event", "identity_sign_out_failed", "email", current.Email, "error", err)
		}
	}
	if current.ID == "" {
		return nil
	}
	if err := deps.Cache.Delete(ctx, current.ID); err != nil {
		return err
	}
	if err := deps.Sessions.Delete(ctx, current.ID); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "sign_out", "email", current.Email, "kind", current.Kind)
	return nil
}

// discardSession drops a replaced session and its cache. Failures are logged;
// the orphaned row expires on its own.
func discardSession(ctx context.Context, id string, sessions SessionRemover, cache ProfileCacheRemover) {
	if id == "" {
		return
	}
	if cache != nil {
		if err := cache.Delete(ctx, id); err != nil {
			slog.Warn("auth_event", "event", "discard_cache_failed", "session_id", id, "error", err)
		}
	}
	if err := sessions.Delete(ctx, id); err != nil {
		slog.Warn("auth_event", "event", "discard_session_failed", "session_id", id, "error", err)
	}
}

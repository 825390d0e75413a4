package projections

import (
	"context"
	"log/slog"
	"time"

	"courtlink/internal/domain/session"
)

// ResolveSessionQuery identifies the page being requested and the browser session.
type ResolveSessionQuery struct {
	Path    string
	Session session.Session
}

// Resolution is who the visitor is for this request. A non-empty Redirect
// means the request must stop and send the browser there.
type Resolution struct {
	Kind     session.Kind
	Email    string
	Name     string
	Redirect string
}

// Allowed reports whether the request may proceed.
func (r Resolution) Allowed() bool {
	return r.Redirect == ""
}

// ResolveSessionDeps holds dependencies for ResolveSession.
type ResolveSessionDeps struct {
	Identity IdentityReader
	Claims   ClaimVerifier
	Now      func() time.Time
}

// QueryResolveSession decides whether the visitor is a user, an admin or anonymous.
// Admin routes trust only a verified admin claim and never call the identity
// provider. Other routes make exactly one identity call; a failure is final.
// PRE: Path is the request path
// POST: Kind is user or admin when Redirect is empty
func QueryResolveSession(ctx context.Context, query ResolveSessionQuery, deps ResolveSessionDeps) Resolution {
	sess := query.Session

	if session.IsAdminRoute(query.Path) {
		if !sess.HasAdminClaim() {
			return Resolution{Kind: session.KindAnonymous, Redirect: session.AdminLoginPath}
		}
		subject, err := deps.Claims.Verify(sess.AdminClaim, deps.Now())
		if err != nil {
			slog.Info("auth_event", "event", "admin_claim_rejected", "session_id", sess.ID, "error", err)
			return Resolution{Kind: session.KindAnonymous, Redirect: session.AdminLoginPath}
		}
		return Resolution{Kind: session.KindAdmin, Email: subject}
	}

	if sess.AccessToken == "" {
		return Resolution{Kind: session.KindAnonymous, Redirect: session.LoginPath}
	}
	attrs, err := deps.Identity.CurrentUserAttributes(ctx, sess.AccessToken)
	if err != nil {
		slog.Info("auth_event", "event", "identity_check_failed", "session_id", sess.ID, "error", err)
		return Resolution{Kind: session.KindAnonymous, Redirect: session.LoginPath}
	}
	email := attrs.Email
	if email == "" {
		email = sess.Email
	}
	return Resolution{Kind: session.KindUser, Email: email, Name: attrs.Name}
}

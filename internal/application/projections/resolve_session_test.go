package projections

import (
	"context"
	"testing"

	"courtlink/internal/adapters/identity"
	"courtlink/internal/domain/session"
)

func resolveDeps(id *mockIdentity) ResolveSessionDeps {
	return ResolveSessionDeps{
		Identity: id,
		Claims:   mockClaims{valid: map[string]string{"good-claim": "admin"}},
		Now:      fixedNow,
	}
}

// TestQueryResolveSession_User verifies a live identity session resolves to a user.
func TestQueryResolveSession_User(t *testing.T) {
	id := &mockIdentity{attrs: identity.Attributes{Email: "a@ufl.edu", Name: "Alberta"}}
	got := QueryResolveSession(context.Background(), ResolveSessionQuery{
		Path:    "/dashboard",
		Session: session.Session{ID: "s1", Kind: session.KindUser, AccessToken: "acc"},
	}, resolveDeps(id))

	if !got.Allowed() || got.Kind != session.KindUser || got.Email != "a@ufl.edu" {
		t.Errorf("resolution = %+v", got)
	}
	if id.calls != 1 {
		t.Errorf("identity calls = %d, want 1", id.calls)
	}
}

// TestQueryResolveSession_IdentityFailureRedirects verifies one failed check is final.
func TestQueryResolveSession_IdentityFailureRedirects(t *testing.T) {
	id := &mockIdentity{err: identity.ErrNotAuthenticated}
	got := QueryResolveSession(context.Background(), ResolveSessionQuery{
		Path:    "/dashboard/bookings",
		Session: session.Session{ID: "s1", AccessToken: "expired"},
	}, resolveDeps(id))

	if got.Redirect != session.LoginPath {
		t.Errorf("Redirect = %q, want %q", got.Redirect, session.LoginPath)
	}
	if id.calls != 1 {
		t.Errorf("identity calls = %d, want exactly 1", id.calls)
	}
}

// TestQueryResolveSession_Anonymous verifies a session without tokens goes to login.
func TestQueryResolveSession_Anonymous(t *testing.T) {
	id := &mockIdentity{}
	got := QueryResolveSession(context.Background(), ResolveSessionQuery{Path: "/dashboard"}, resolveDeps(id))
	if got.Redirect != session.LoginPath || got.Kind != session.KindAnonymous {
		t.Errorf("resolution = %+v", got)
	}
}

// TestQueryResolveSession_Admin covers the admin carve-out.
func TestQueryResolveSession_Admin(t *testing.T) {
	tests := []struct {
		name     string
		claim    string
		wantKind session.Kind
		redirect string
	}{
		{"verified claim", "good-claim", session.KindAdmin, ""},
		{"forged claim", "forged", session.KindAnonymous, session.AdminLoginPath},
		{"no claim", "", session.KindAnonymous, session.AdminLoginPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := &mockIdentity{attrs: identity.Attributes{Email: "a@ufl.edu"}}
			got := QueryResolveSession(context.Background(), ResolveSessionQuery{
				Path:    "/admin",
				Session: session.Session{ID: "s1", AccessToken: "acc", AdminClaim: tt.claim},
			}, resolveDeps(id))
			if got.Kind != tt.wantKind || got.Redirect != tt.redirect {
				t.Errorf("resolution = %+v", got)
			}
			if id.calls != 0 {
				t.Error("admin routes must not call the identity provider")
			}
		})
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courtlink/internal/domain/session"
)

type mockLoader struct {
	sessions map[string]session.Session
}

func (m *mockLoader) Get(_ context.Context, id string) (session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return session.Session{}, errors.New("not found")
	}
	return s, nil
}

// TestAuth_LoadsSession tests that the cookie session reaches the handler.
func TestAuth_LoadsSession(t *testing.T) {
	loader := &mockLoader{sessions: map[string]session.Session{
		"s1": {ID: "s1", Kind: session.KindUser, Email: "ana@ufl.edu"},
	}}
	var got session.Session
	var found bool
	handler := Auth(loader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !found || got.Email != "ana@ufl.edu" {
		t.Errorf("session = %+v found=%v", got, found)
	}
}

// TestAuth_UnknownCookie tests that an unknown id leaves the request anonymous.
func TestAuth_UnknownCookie(t *testing.T) {
	loader := &mockLoader{sessions: map[string]session.Session{}}
	called := false
	handler := Auth(loader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := SessionFromContext(r.Context()); ok {
			t.Error("expected no session")
		}
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "ghost"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("handler not called")
	}
}

// TestRequire_Redirects tests the browser redirect on failed resolution.
func TestRequire_Redirects(t *testing.T) {
	resolve := func(context.Context, string, session.Session) (Principal, string) {
		return Principal{}, session.LoginPath
	}
	handler := Require(resolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/dashboard", nil))

	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != session.LoginPath {
		t.Errorf("Location = %q", loc)
	}
}

// TestRequire_JSONUnauthorized tests the 401 body for JSON clients.
func TestRequire_JSONUnauthorized(t *testing.T) {
	resolve := func(context.Context, string, session.Session) (Principal, string) {
		return Principal{}, session.AdminLoginPath
	}
	handler := Require(resolve)(http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"redirect":"/admin/login"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

// TestRequire_SetsPrincipal tests that an allowed visitor reaches the handler.
func TestRequire_SetsPrincipal(t *testing.T) {
	var seenPath string
	resolve := func(_ context.Context, path string, s session.Session) (Principal, string) {
		seenPath = path
		return Principal{Kind: session.KindUser, Email: s.Email}, ""
	}
	var got Principal
	handler := Require(resolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/bookings", nil)
	req = req.WithContext(ContextWithSession(req.Context(), session.Session{Email: "ana@ufl.edu"}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seenPath != "/bookings" || got.Email != "ana@ufl.edu" || got.Kind != session.KindUser {
		t.Errorf("path=%q principal=%+v", seenPath, got)
	}
}

// TestSessionCookie tests cookie set and clear attributes.
func TestSessionCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "abc", 3600, true)
	c := rr.Result().Cookies()[0]
	if c.Value != "abc" || !c.HttpOnly || !c.Secure || c.MaxAge != 3600 || c.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie = %+v", c)
	}

	rr = httptest.NewRecorder()
	ClearSessionCookie(rr, false)
	c = rr.Result().Cookies()[0]
	if c.Value != "" || c.MaxAge >= 0 {
		t.Errorf("cleared cookie = %+v", c)
	}
}

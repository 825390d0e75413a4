package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"courtlink/internal/domain/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	sessionContextKey   contextKey = "session"
	principalContextKey contextKey = "principal"
)

// SessionCookieName is the cookie carrying the browser session id.
const SessionCookieName = "courtlink_session"

// SessionLoader loads a live browser session by id.
// Any error leaves the request anonymous.
type SessionLoader interface {
	Get(ctx context.Context, id string) (session.Session, error)
}

// Principal is the resolved visitor of a protected request.
type Principal struct {
	Kind  session.Kind
	Email string
	Name  string
}

// ResolveFunc decides who the visitor is. A non-empty redirect stops the request.
type ResolveFunc func(ctx context.Context, path string, sess session.Session) (p Principal, redirect string)

// Auth returns middleware that loads the session named by the cookie into the context.
// It does NOT block anonymous requests; use Require for that.
func Auth(sessions SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				sess, err := sessions.Get(r.Context(), cookie.Value)
				if err == nil {
					r = r.WithContext(ContextWithSession(r.Context(), sess))
				} else {
					slog.Debug("session_lookup", "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Require returns middleware that resolves the visitor for every request and
// redirects when resolution fails. Browsers get a 303; JSON clients get a 401.
func Require(resolve ResolveFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := SessionFromContext(r.Context())
			principal, redirect := resolve(r.Context(), r.URL.Path, sess)
			if redirect != "" {
				if wantsJSON(r) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"error":"authentication required","redirect":"` + redirect + `"}`))
					return
				}
				http.Redirect(w, r, redirect, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalContextKey, principal)))
		})
	}
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// SessionFromContext extracts the browser session from the request context.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(session.Session)
	return sess, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// PrincipalFromContext extracts the resolved visitor set by Require.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

// ContextWithPrincipal returns a context with the given principal set.
// Intended for use in tests.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, id string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

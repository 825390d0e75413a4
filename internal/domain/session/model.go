package session

import (
	"strings"
	"time"
)

// Kind is who the visitor is.
type Kind string

const (
	KindAnonymous Kind = "anonymous"
	KindUser      Kind = "user"
	KindAdmin     Kind = "admin"
)

// Route entry points.
const (
	LoginPath      = "/login"
	AdminLoginPath = "/admin/login"
	AdminPrefix    = "/admin"
	DashboardPath  = "/dashboard"
)

// DefaultTTL bounds how long a browser session lives without a sign-in.
const DefaultTTL = 24 * time.Hour

// IsAdminRoute reports whether path belongs to the admin console.
// The admin login page itself is not an admin route.
func IsAdminRoute(path string) bool {
	if path == AdminLoginPath || strings.HasPrefix(path, AdminLoginPath+"/") {
		return false
	}
	return path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/")
}

// Session is a server-side browser session.
type Session struct {
	ID           string
	Kind         Kind
	Email        string
	AccessToken  string
	IDToken      string
	RefreshToken string
	AdminClaim   string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// HasAdminClaim reports whether an admin assertion is attached.
// The claim still has to be verified before it is trusted.
func (s Session) HasAdminClaim() bool {
	return s.AdminClaim != ""
}

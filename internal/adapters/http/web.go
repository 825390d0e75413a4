package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"courtlink/internal/adapters/http/middleware"
	"courtlink/internal/adapters/http/perf"
	"courtlink/internal/adapters/identity"
	"courtlink/internal/adapters/storage/profilecache"
	"courtlink/internal/application/orchestrators"
	"courtlink/internal/application/projections"
	"courtlink/internal/domain/session"
)

// Backend is every reservation backend call the web layer makes.
type Backend interface {
	orchestrators.AdminBackend
	orchestrators.AdminAuthenticator
	orchestrators.BookingStoreForCancel
	orchestrators.CourtReader
	orchestrators.BookingCreator
	orchestrators.ProfileReader
	orchestrators.ProfileWriter
}

// SessionStore persists browser sessions.
type SessionStore interface {
	Get(ctx context.Context, id string) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	Delete(ctx context.Context, id string) error
}

// ClaimService issues and verifies admin claims.
type ClaimService interface {
	orchestrators.ClaimIssuer
	projections.ClaimVerifier
}

// Notifier sends booking emails. It may be nil.
type Notifier interface {
	orchestrators.BookingConfirmedNotifier
	orchestrators.BookingCancelledNotifier
	orchestrators.AdminNotifier
}

// Options are the request-level settings taken from configuration.
type Options struct {
	SessionTTL     time.Duration
	BookingFee     int
	SecureCookies  bool
	CSRFKey        []byte
	TrustedOrigins []string
	RateLimit      int // requests per second per client IP
	SlowRequestMs  int
	MetricsToken   string // bearer token for /metrics; empty leaves the route unregistered
}

// Deps holds everything the HTTP layer talks to.
type Deps struct {
	Backend      Backend
	Identity     identity.Provider
	Sessions     SessionStore
	ProfileCache profilecache.Store
	Claims       ClaimService
	Notifier     Notifier
	Collector    *perf.Collector
	Metrics      http.Handler               // served at /metrics behind Options.MetricsToken
	Requests     middleware.RequestObserver // may be nil
	Options      Options

	Now        func() time.Time
	GenerateID func() string
}

// Server serves the CourtLink pages and their JSON twins.
type Server struct {
	deps    Deps
	pages   *pageSet
	limiter *middleware.RateLimiter
}

// NewServer prepares templates and defaults.
// PRE: Backend, Identity, Sessions, ProfileCache and Claims are set
func NewServer(deps Deps) (*Server, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.GenerateID == nil {
		deps.GenerateID = uuid.NewString
	}
	if deps.Options.RateLimit <= 0 {
		deps.Options.RateLimit = 10
	}
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &Server{
		deps:    deps,
		pages:   pages,
		limiter: middleware.NewRateLimiter(deps.Options.RateLimit, time.Second),
	}, nil
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.limiter.Close()
}

// Handler returns the mux wrapped in the middleware chain.
// Order on the way in: SecurityHeaders, RateLimit, CSRF, Auth, Timing, mux.
// Timing sits next to the mux so the matched pattern labels the request.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(s.mux(),
		middleware.Timing(s.deps.Collector, s.deps.Options.SlowRequestMs, s.deps.Requests),
		middleware.Auth(s.deps.Sessions),
		middleware.CSRF(s.deps.Options.CSRFKey, s.deps.Options.SecureCookies, s.deps.Options.TrustedOrigins),
		middleware.RateLimit(s.limiter),
		middleware.SecurityHeaders,
	)
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	protected := middleware.Require(s.resolve)
	guard := func(h http.HandlerFunc) http.Handler { return protected(h) }

	mux.Handle("GET /static/", http.FileServerFS(staticFS))
	mux.HandleFunc("GET /healthz", handleHealthz)
	if s.deps.Metrics != nil && s.deps.Options.MetricsToken != "" {
		mux.Handle("GET /metrics", middleware.BearerToken(s.deps.Options.MetricsToken)(s.deps.Metrics))
	}
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, session.DashboardPath, http.StatusSeeOther)
	})

	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /register", s.handleRegisterPage)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("GET /confirm", s.handleConfirmPage)
	mux.HandleFunc("POST /confirm", s.handleConfirm)
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.Handle("GET /dashboard", guard(s.handleDashboard))
	mux.Handle("GET /dashboard/courts", guard(s.handleCourts))
	mux.Handle("POST /dashboard/courts/book", guard(s.handleBook))
	mux.Handle("GET /dashboard/bookings", guard(s.handleBookings))
	mux.Handle("POST /dashboard/bookings/cancel", guard(s.handleCancelBooking))
	mux.Handle("POST /profile", guard(s.handleCompleteProfile))

	mux.HandleFunc("GET /admin/login", s.handleAdminLoginPage)
	mux.HandleFunc("POST /admin/login", s.handleAdminLogin)
	mux.HandleFunc("POST /admin/logout", s.handleAdminLogout)
	mux.Handle("GET /admin", guard(s.handleAdminConsole))
	mux.Handle("GET /admin/perf", guard(s.handleAdminPerf))
	for path, cmd := range adminCommandRoutes {
		mux.Handle("POST "+path, guard(s.adminCommandHandler(cmd)))
	}
	return mux
}

// resolve adapts QueryResolveSession to the Require middleware.
func (s *Server) resolve(ctx context.Context, path string, sess session.Session) (middleware.Principal, string) {
	res := projections.QueryResolveSession(ctx,
		projections.ResolveSessionQuery{Path: path, Session: sess},
		projections.ResolveSessionDeps{Identity: s.deps.Identity, Claims: s.deps.Claims, Now: s.deps.Now},
	)
	if !res.Allowed() {
		return middleware.Principal{}, res.Redirect
	}
	return middleware.Principal{Kind: res.Kind, Email: res.Email, Name: res.Name}, ""
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"courtlink/internal/adapters/backend"
	"courtlink/internal/adapters/http/middleware"
	"courtlink/internal/adapters/identity"
	"courtlink/internal/adapters/storage/profilecache"
	"courtlink/internal/domain/booking"
	"courtlink/internal/domain/court"
	"courtlink/internal/domain/profile"
	"courtlink/internal/domain/session"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const testUserEmail = "alberta@ufl.edu"

// --- backend ---

type mockBackend struct {
	mu    sync.Mutex
	calls []string

	bookings    []booking.Booking
	bookingsErr error
	cancelErr   error

	courtsResponses [][]court.Availability
	courtsErr       error
	created         []backend.CreateBookingRequest

	customer    profile.Profile
	customerErr error
	upserted    []profile.Profile

	allBookings []booking.Booking
	sports      []court.Sport
	courts      []court.Court
	commandErr  error
	adminErr    error
}

func (m *mockBackend) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockBackend) count(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockBackend) ListBookings(_ context.Context, _ string) ([]booking.Booking, error) {
	m.record("ListBookings")
	return m.bookings, m.bookingsErr
}

func (m *mockBackend) CancelBooking(_ context.Context, _ int, _ string) error {
	m.record("CancelBooking")
	return m.cancelErr
}

func (m *mockBackend) GetCourts(_ context.Context, _ string) ([]court.Availability, error) {
	m.record("GetCourts")
	if m.courtsErr != nil {
		return nil, m.courtsErr
	}
	n := min(m.count("GetCourts")-1, len(m.courtsResponses)-1)
	if n < 0 {
		return nil, nil
	}
	return m.courtsResponses[n], nil
}

func (m *mockBackend) CreateBooking(_ context.Context, req backend.CreateBookingRequest) (string, error) {
	m.record("CreateBooking")
	m.created = append(m.created, req)
	return "Booking created successfully", nil
}

func (m *mockBackend) GetCustomer(_ context.Context, _ string) (profile.Profile, error) {
	m.record("GetCustomer")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.customer, m.customerErr
}

// UpsertCustomer stores p so later GetCustomer calls see the completed profile.
func (m *mockBackend) UpsertCustomer(_ context.Context, p profile.Profile) error {
	m.record("UpsertCustomer")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserted = append(m.upserted, p)
	m.customer = p
	m.customerErr = nil
	return nil
}

func (m *mockBackend) AdminLogin(_ context.Context, _, _ string) error {
	m.record("AdminLogin")
	return m.adminErr
}

func (m *mockBackend) AllBookings(_ context.Context) ([]booking.Booking, error) {
	m.record("AllBookings")
	return m.allBookings, nil
}

func (m *mockBackend) ListSports(_ context.Context) ([]court.Sport, error) {
	m.record("ListSports")
	return m.sports, nil
}

func (m *mockBackend) ListCourts(_ context.Context) ([]court.Court, error) {
	m.record("ListCourts")
	return m.courts, nil
}

func (m *mockBackend) AdminCancelBooking(_ context.Context, _ int) error {
	m.record("AdminCancelBooking")
	return m.commandErr
}

func (m *mockBackend) DeleteAllBookings(_ context.Context) error {
	m.record("DeleteAllBookings")
	return m.commandErr
}

func (m *mockBackend) CreateSport(_ context.Context, _ string) error {
	m.record("CreateSport")
	return m.commandErr
}

func (m *mockBackend) DeleteSport(_ context.Context, _ string) error {
	m.record("DeleteSport")
	return m.commandErr
}

func (m *mockBackend) ResetSportCourts(_ context.Context, _ string) error {
	m.record("ResetSportCourts")
	return m.commandErr
}

func (m *mockBackend) CreateCourt(_ context.Context, _ court.Court) error {
	m.record("CreateCourt")
	return m.commandErr
}

func (m *mockBackend) DeleteCourt(_ context.Context, _ string) error {
	m.record("DeleteCourt")
	return m.commandErr
}

func (m *mockBackend) ResetCourtSlots(_ context.Context, _ string) error {
	m.record("ResetCourtSlots")
	return m.commandErr
}

// --- identity ---

type mockIdentity struct {
	mu         sync.Mutex
	signInErr  error
	attrErr    error
	attrCalls  int
	signedOut  []string
	name       string
	registered []identity.SignUpInput
}

func (m *mockIdentity) SignUp(_ context.Context, in identity.SignUpInput) (identity.SignUpResult, error) {
	m.registered = append(m.registered, in)
	return identity.SignUpResult{UserID: "sub-1", NeedsConfirm: true}, nil
}

func (m *mockIdentity) ConfirmSignUp(_ context.Context, _, _ string) error { return nil }

func (m *mockIdentity) SignIn(_ context.Context, in identity.SignInInput) (identity.Tokens, error) {
	if m.signInErr != nil {
		return identity.Tokens{}, m.signInErr
	}
	return identity.Tokens{AccessToken: "access-" + in.Email, IDToken: "id", RefreshToken: "refresh"}, nil
}

func (m *mockIdentity) SignOut(_ context.Context, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signedOut = append(m.signedOut, refreshToken)
	return nil
}

func (m *mockIdentity) CurrentUserAttributes(_ context.Context, _ string) (identity.Attributes, error) {
	m.mu.Lock()
	m.attrCalls++
	m.mu.Unlock()
	if m.attrErr != nil {
		return identity.Attributes{}, m.attrErr
	}
	return identity.Attributes{Email: testUserEmail, Name: m.name}, nil
}

// --- sessions and profile cache ---

var errNoSession = errors.New("session not found")

type memSessions struct {
	mu   sync.Mutex
	byID map[string]session.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byID: make(map[string]session.Session)}
}

func (m *memSessions) Get(_ context.Context, id string) (session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return session.Session{}, errNoSession
	}
	return s, nil
}

func (m *memSessions) Save(_ context.Context, s session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[s.ID] = s
	return nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]profile.CacheEntry
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]profile.CacheEntry)}
}

func (m *memCache) Get(_ context.Context, id string) (profile.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return profile.CacheEntry{}, profilecache.ErrNotFound
	}
	return e, nil
}

func (m *memCache) Put(_ context.Context, e profile.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.SessionID] = e
	return nil
}

func (m *memCache) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// --- server fixture ---

type testEnv struct {
	server   *Server
	backend  *mockBackend
	identity *mockIdentity
	sessions *memSessions
	cache    *memCache
	claims   *middleware.ClaimSigner
}

func newTestEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()
	claims, err := middleware.NewClaimSigner([]byte(strings.Repeat("k", 32)), 8*time.Hour)
	if err != nil {
		t.Fatalf("NewClaimSigner: %v", err)
	}
	env := &testEnv{
		backend: &mockBackend{
			customer: profile.Profile{Email: testUserEmail, Name: "Alberta Gator", UniversityID: "12345678"},
		},
		identity: &mockIdentity{name: "Alberta Gator"},
		sessions: newMemSessions(),
		cache:    newMemCache(),
		claims:   claims,
	}
	deps := Deps{
		Backend:      env.backend,
		Identity:     env.identity,
		Sessions:     env.sessions,
		ProfileCache: env.cache,
		Claims:       env.claims,
		Options: Options{
			BookingFee: booking.DefaultFee,
			CSRFKey:    []byte(strings.Repeat("c", 32)),
			RateLimit:  1000,
		},
		Now:        func() time.Time { return testNow },
		GenerateID: func() string { return "sess-new" },
	}
	for _, opt := range opts {
		opt(&deps)
	}
	s, err := NewServer(deps)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(s.Close)
	env.server = s
	return env
}

// browser serves requests without the CSRF layer so tests can post forms.
func (e *testEnv) browser() http.Handler {
	return middleware.Auth(e.sessions)(e.server.mux())
}

func (e *testEnv) userCookie(t *testing.T) *http.Cookie {
	t.Helper()
	s := session.Session{
		ID:           "sess-user",
		Kind:         session.KindUser,
		Email:        testUserEmail,
		AccessToken:  "access-user",
		RefreshToken: "refresh-user",
		CreatedAt:    testNow,
		ExpiresAt:    testNow.Add(time.Hour),
	}
	_ = e.sessions.Save(context.Background(), s)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: s.ID}
}

func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	claim, expires, err := e.claims.Issue("admin", testNow)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	s := session.Session{
		ID:         "sess-admin",
		Kind:       session.KindAdmin,
		Email:      "admin",
		AdminClaim: claim,
		CreatedAt:  testNow,
		ExpiresAt:  expires,
	}
	_ = e.sessions.Save(context.Background(), s)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: s.ID}
}

// doJSON sends a JSON request through the full middleware chain.
func doJSON(t *testing.T, h http.Handler, method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// doHTML sends a browser request; form is url-encoded when non-empty.
func doHTML(t *testing.T, h http.Handler, method, target, form string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if form != "" {
		rd = strings.NewReader(form)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Accept", "text/html")
	if form != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

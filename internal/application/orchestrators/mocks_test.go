package orchestrators

import (
	"context"
	"errors"
	"time"

	"courtlink/internal/adapters/backend"
	"courtlink/internal/adapters/identity"
	"courtlink/internal/domain/booking"
	"courtlink/internal/domain/court"
	"courtlink/internal/domain/profile"
	"courtlink/internal/domain/session"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// --- identity ---

type signInCall struct {
	input identity.SignInInput
}

type mockIdentity struct {
	signInResults []error
	tokens        identity.Tokens
	signInCalls   []signInCall
	signOutTokens []string
	signOutErr    error
	signUpErr     error
	signUpInputs  []identity.SignUpInput
	confirmErr    error
	confirmed     []string
}

func (m *mockIdentity) SignIn(_ context.Context, in identity.SignInInput) (identity.Tokens, error) {
	m.signInCalls = append(m.signInCalls, signInCall{input: in})
	idx := len(m.signInCalls) - 1
	if idx < len(m.signInResults) && m.signInResults[idx] != nil {
		return identity.Tokens{}, m.signInResults[idx]
	}
	return m.tokens, nil
}

func (m *mockIdentity) SignOut(_ context.Context, refreshToken string) error {
	m.signOutTokens = append(m.signOutTokens, refreshToken)
	return m.signOutErr
}

func (m *mockIdentity) SignUp(_ context.Context, in identity.SignUpInput) (identity.SignUpResult, error) {
	m.signUpInputs = append(m.signUpInputs, in)
	if m.signUpErr != nil {
		return identity.SignUpResult{}, m.signUpErr
	}
	return identity.SignUpResult{UserID: "sub-1", NeedsConfirm: true}, nil
}

func (m *mockIdentity) ConfirmSignUp(_ context.Context, email, code string) error {
	m.confirmed = append(m.confirmed, email+":"+code)
	return m.confirmErr
}

// --- sessions and cache ---

type mockSessions struct {
	saved   map[string]session.Session
	deleted []string
	saveErr error
}

func newMockSessions() *mockSessions {
	return &mockSessions{saved: make(map[string]session.Session)}
}

func (m *mockSessions) Save(_ context.Context, s session.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[s.ID] = s
	return nil
}

func (m *mockSessions) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.saved, id)
	return nil
}

type mockCache struct {
	entries map[string]profile.CacheEntry
	deleted []string
	putErr  error
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]profile.CacheEntry)}
}

func (m *mockCache) Put(_ context.Context, e profile.CacheEntry) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[e.SessionID] = e
	return nil
}

func (m *mockCache) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.entries, id)
	return nil
}

// --- backend ---

type mockBackend struct {
	calls []string

	bookings    []booking.Booking
	bookingsErr error
	cancelErr   error

	courtsResponses [][]court.Availability
	courtsErr       error
	createdBookings []backend.CreateBookingRequest
	createErr       error

	customer    profile.Profile
	customerErr error
	upserted    []profile.Profile
	upsertErr   error

	allBookings  []booking.Booking
	sports       []court.Sport
	courts       []court.Court
	commandErr   error
	adminErr     error
	createdCourt court.Court
}

func (m *mockBackend) record(call string) { m.calls = append(m.calls, call) }

func (m *mockBackend) count(call string) int {
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
	n := m.count("GetCourts") - 1
	if n >= len(m.courtsResponses) {
		n = len(m.courtsResponses) - 1
	}
	if n < 0 {
		return nil, nil
	}
	return m.courtsResponses[n], nil
}

func (m *mockBackend) CreateBooking(_ context.Context, req backend.CreateBookingRequest) (string, error) {
	m.record("CreateBooking")
	if m.createErr != nil {
		return "", m.createErr
	}
	m.createdBookings = append(m.createdBookings, req)
	return "Booking created successfully", nil
}

func (m *mockBackend) GetCustomer(_ context.Context, _ string) (profile.Profile, error) {
	m.record("GetCustomer")
	return m.customer, m.customerErr
}

func (m *mockBackend) UpsertCustomer(_ context.Context, p profile.Profile) error {
	m.record("UpsertCustomer")
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, p)
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

func (m *mockBackend) CreateCourt(_ context.Context, c court.Court) error {
	m.record("CreateCourt")
	m.createdCourt = c
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

// --- notifier and claims ---

type mockNotifier struct {
	confirmed []string
	cancelled []booking.Booking
	admin     []booking.Booking
	cleared   [][]booking.Booking
}

func (m *mockNotifier) BookingConfirmed(_ context.Context, to, courtName, _, slot string) {
	m.confirmed = append(m.confirmed, to+"|"+courtName+"|"+slot)
}

func (m *mockNotifier) BookingCancelled(_ context.Context, _ string, b booking.Booking) {
	m.cancelled = append(m.cancelled, b)
}

func (m *mockNotifier) AdminCancelled(_ context.Context, b booking.Booking) {
	m.admin = append(m.admin, b)
}

func (m *mockNotifier) BookingsCleared(_ context.Context, bookings []booking.Booking) {
	m.cleared = append(m.cleared, bookings)
}

type mockClaims struct {
	err error
}

func (m mockClaims) Issue(subject string, now time.Time) (string, time.Time, error) {
	if m.err != nil {
		return "", time.Time{}, m.err
	}
	return "claim-for-" + subject, now.Add(8 * time.Hour), nil
}

var errBackendDown = errors.New("backend down")

func apiError(status int, msg string) error {
	return &backend.APIError{Op: "test", Status: status, Message: msg}
}

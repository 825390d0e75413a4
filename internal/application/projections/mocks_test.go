package projections

import (
	"context"
	"errors"
	"time"

	"courtlink/internal/adapters/identity"
	"courtlink/internal/domain/booking"
	"courtlink/internal/domain/court"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

type mockIdentity struct {
	attrs identity.Attributes
	err   error
	calls int
}

func (m *mockIdentity) CurrentUserAttributes(_ context.Context, _ string) (identity.Attributes, error) {
	m.calls++
	return m.attrs, m.err
}

type mockClaims struct {
	valid map[string]string
}

func (m mockClaims) Verify(token string, _ time.Time) (string, error) {
	if sub, ok := m.valid[token]; ok {
		return sub, nil
	}
	return "", errors.New("invalid claim")
}

type mockBackend struct {
	sports   []court.Sport
	courts   []court.Court
	avail    []court.Availability
	bookings []booking.Booking
	err      error
	calls    []string
}

func (m *mockBackend) ListSports(_ context.Context) ([]court.Sport, error) {
	m.calls = append(m.calls, "ListSports")
	return m.sports, m.err
}

func (m *mockBackend) ListCourts(_ context.Context) ([]court.Court, error) {
	m.calls = append(m.calls, "ListCourts")
	return m.courts, m.err
}

func (m *mockBackend) GetCourts(_ context.Context, _ string) ([]court.Availability, error) {
	m.calls = append(m.calls, "GetCourts")
	return m.avail, m.err
}

func (m *mockBackend) ListBookings(_ context.Context, _ string) ([]booking.Booking, error) {
	m.calls = append(m.calls, "ListBookings")
	return m.bookings, m.err
}

func (m *mockBackend) AllBookings(_ context.Context) ([]booking.Booking, error) {
	m.calls = append(m.calls, "AllBookings")
	return m.bookings, m.err
}

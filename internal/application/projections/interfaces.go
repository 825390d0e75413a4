package projections

import (
	"context"
	"time"

	"courtlink/internal/adapters/identity"
	"courtlink/internal/domain/booking"
	"courtlink/internal/domain/court"
)

// IdentityReader reads the signed-in user's attributes from the identity provider.
type IdentityReader interface {
	CurrentUserAttributes(ctx context.Context, accessToken string) (identity.Attributes, error)
}

// ClaimVerifier checks an admin role assertion and returns its subject.
type ClaimVerifier interface {
	Verify(token string, now time.Time) (subject string, err error)
}

// SportLister lists sports from the backend.
type SportLister interface {
	ListSports(ctx context.Context) ([]court.Sport, error)
}

// CourtReader loads per-court slot availability for a sport.
type CourtReader interface {
	GetCourts(ctx context.Context, sport string) ([]court.Availability, error)
}

// BookingLister lists one user's bookings.
type BookingLister interface {
	ListBookings(ctx context.Context, email string) ([]booking.Booking, error)
}

// AdminReader loads the admin console collections.
type AdminReader interface {
	AllBookings(ctx context.Context) ([]booking.Booking, error)
	ListSports(ctx context.Context) ([]court.Sport, error)
	ListCourts(ctx context.Context) ([]court.Court, error)
}

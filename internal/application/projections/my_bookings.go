package projections

import (
	"context"

	"courtlink/internal/domain/booking"
)

// NoActiveBookingsMessage is shown when the user has no active bookings.
const NoActiveBookingsMessage = "No active bookings found"

// MyBookingsQuery identifies the user.
type MyBookingsQuery struct {
	Email string
}

// MyBookingsResult splits the user's bookings for display.
type MyBookingsResult struct {
	Active  []booking.Booking
	History []booking.Booking
}

// EmptyMessage returns the notice for an empty active list, or "".
func (r MyBookingsResult) EmptyMessage() string {
	if len(r.Active) == 0 {
		return NoActiveBookingsMessage
	}
	return ""
}

// MyBookingsDeps holds dependencies for MyBookings.
type MyBookingsDeps struct {
	Bookings BookingLister
}

// QueryMyBookings loads and partitions the user's bookings.
// PRE: Email is the signed-in user's email
// POST: Active and History are disjoint, cover every booking, and keep fetch order
func QueryMyBookings(ctx context.Context, query MyBookingsQuery, deps MyBookingsDeps) (MyBookingsResult, error) {
	all, err := deps.Bookings.ListBookings(ctx, query.Email)
	if err != nil {
		return MyBookingsResult{}, err
	}
	return BuildMyBookings(all), nil
}

// BuildMyBookings partitions an already loaded list.
func BuildMyBookings(all []booking.Booking) MyBookingsResult {
	active, history := booking.Partition(all)
	return MyBookingsResult{Active: active, History: history}
}

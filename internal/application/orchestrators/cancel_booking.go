package orchestrators

import (
	"context"
	"log/slog"

	"courtlink/internal/domain/booking"
)

// BookingStoreForCancel defines the backend operations needed by CancelBooking.
type BookingStoreForCancel interface {
	ListBookings(ctx context.Context, email string) ([]booking.Booking, error)
	CancelBooking(ctx context.Context, bookingID int, email string) error
}

// BookingCancelledNotifier sends the cancellation email.
type BookingCancelledNotifier interface {
	BookingCancelled(ctx context.Context, to string, b booking.Booking)
}

// CancelBookingInput identifies the booking to cancel.
type CancelBookingInput struct {
	BookingID int    `form:"booking_id" validate:"gt=0"`
	Email     string `validate:"required,email"`
}

// CancelBookingResult is the user's booking list after the optimistic flip.
type CancelBookingResult struct {
	Bookings []booking.Booking
	Active   []booking.Booking
	History  []booking.Booking
}

// CancelBookingDeps holds dependencies for CancelBooking.
type CancelBookingDeps struct {
	Bookings BookingStoreForCancel
	Notifier BookingCancelledNotifier
}

// ExecuteCancelBooking cancels a booking and flips it to Cancelled in the
// already loaded list instead of re-fetching.
// PRE: The booking belongs to Email
// POST: On success exactly the cancelled booking changed status; on failure
// the backend error is returned and nothing changes
func ExecuteCancelBooking(ctx context.Context, input CancelBookingInput, deps CancelBookingDeps) (CancelBookingResult, error) {
	if err := validateInput(input); err != nil {
		return CancelBookingResult{}, err
	}

	current, err := deps.Bookings.ListBookings(ctx, input.Email)
	if err != nil {
		return CancelBookingResult{}, err
	}
	if err := deps.Bookings.CancelBooking(ctx, input.BookingID, input.Email); err != nil {
		slog.Info("booking_event", "event", "cancel_failed", "email", input.Email, "booking_id", input.BookingID, "error", err)
		return CancelBookingResult{}, err
	}

	updated, found := booking.MarkCancelled(current, input.BookingID)
	slog.Info("booking_event", "event", "cancelled", "email", input.Email, "booking_id", input.BookingID, "in_list", found)
	if found && deps.Notifier != nil {
		for _, b := range updated {
			if b.ID == input.BookingID {
				deps.Notifier.BookingCancelled(ctx, input.Email, b)
				break
			}
		}
	}

	active, history := booking.Partition(updated)
	return CancelBookingResult{Bookings: updated, Active: active, History: history}, nil
}

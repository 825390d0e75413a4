package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"courtlink/internal/adapters/backend"
	"courtlink/internal/domain/court"
)

// CourtReader loads per-court slot availability for a sport.
type CourtReader interface {
	GetCourts(ctx context.Context, sport string) ([]court.Availability, error)
}

// BookingCreator reserves a slot in the backend.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req backend.CreateBookingRequest) (string, error)
}

// BookingConfirmedNotifier sends the booking confirmation email.
type BookingConfirmedNotifier interface {
	BookingConfirmed(ctx context.Context, to, courtName, sport, slot string)
}

// BookSlotInput identifies the slot the user chose.
type BookSlotInput struct {
	Sport     string `form:"sport" validate:"required"`
	CourtID   int    `form:"court_id"`
	SlotIndex int    `form:"slot_index" validate:"gte=0"`
	Email     string `validate:"required,email"`
}

// BookSlotResult is the confirmation plus the freshly fetched court list.
type BookSlotResult struct {
	Message   string
	CourtName string
	SlotLabel string
	Courts    []court.Availability
	// Refreshed is false when the booking succeeded but the re-fetch failed.
	Refreshed bool
}

// BookSlotDeps holds dependencies for BookSlot.
type BookSlotDeps struct {
	Courts   CourtReader
	Bookings BookingCreator
	Notifier BookingConfirmedNotifier
}

// ExecuteBookSlot books one slot and re-fetches the whole court list for the sport.
// PRE: The court is open and the slot is open in the current availability
// POST: On success the backend holds the booking and Courts is a full re-fetch;
// on failure no booking request was accepted
// INVARIANT: Availability is never patched locally
func ExecuteBookSlot(ctx context.Context, input BookSlotInput, deps BookSlotDeps) (BookSlotResult, error) {
	if err := validateInput(input); err != nil {
		return BookSlotResult{}, err
	}

	courts, err := deps.Courts.GetCourts(ctx, input.Sport)
	if err != nil {
		return BookSlotResult{}, err
	}
	chosen, ok := findCourt(courts, input.CourtID)
	if !ok {
		return BookSlotResult{}, ErrCourtNotFound
	}
	if err := chosen.CheckBookable(input.SlotIndex); err != nil {
		return BookSlotResult{}, fmt.Errorf("%w: %w", ErrSlotUnavailable, err)
	}
	label, _ := court.Label(input.SlotIndex)

	msg, err := deps.Bookings.CreateBooking(ctx, backend.CreateBookingRequest{
		CourtID:   chosen.CourtID,
		SportID:   chosen.SportID,
		Email:     input.Email,
		SlotIndex: input.SlotIndex,
	})
	if err != nil {
		slog.Info("booking_event", "event", "book_failed", "email", input.Email, "court_id", chosen.CourtID, "slot", input.SlotIndex, "error", err)
		return BookSlotResult{}, err
	}
	slog.Info("booking_event", "event", "booked", "email", input.Email, "court_id", chosen.CourtID, "slot", input.SlotIndex)

	if deps.Notifier != nil {
		deps.Notifier.BookingConfirmed(ctx, input.Email, chosen.CourtName, input.Sport, label)
	}

	result := BookSlotResult{Message: msg, CourtName: chosen.CourtName, SlotLabel: label}
	refreshed, err := deps.Courts.GetCourts(ctx, input.Sport)
	if err != nil {
		slog.Warn("booking_event", "event", "refresh_failed", "sport", input.Sport, "error", err)
		return result, nil
	}
	result.Courts = refreshed
	result.Refreshed = true
	return result, nil
}

func findCourt(courts []court.Availability, id int) (court.Availability, bool) {
	for _, c := range courts {
		if c.CourtID == id {
			return c, true
		}
	}
	return court.Availability{}, false
}

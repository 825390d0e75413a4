package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"courtlink/internal/domain/booking"
)

// ListBookings returns the bookings of one customer. A 404 means the customer
// has no bookings and yields an empty list.
func (c *Client) ListBookings(ctx context.Context, email string) ([]booking.Booking, error) {
	var payload []wireBooking
	err := c.call(ctx, "list_bookings", http.MethodGet, "/listBookings", url.Values{"email": {email}}, nil, &payload)
	if errors.Is(err, ErrNotFound) {
		return []booking.Booking{}, nil
	}
	if err != nil {
		return nil, err
	}
	return bookingsToDomain(payload), nil
}

// CreateBookingRequest identifies the slot to reserve.
type CreateBookingRequest struct {
	CourtID   int
	SportID   int
	Email     string
	SlotIndex int
}

// CreateBooking reserves a slot. The returned message is the backend's confirmation text.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (string, error) {
	var resp messageResponse
	err := c.call(ctx, "create_booking", http.MethodPost, "/CreateBooking", nil, createBookingRequest{
		CourtID:   req.CourtID,
		SportID:   req.SportID,
		Email:     req.Email,
		SlotIndex: req.SlotIndex,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// CancelBooking cancels one of the customer's bookings.
func (c *Client) CancelBooking(ctx context.Context, bookingID int, email string) error {
	return c.call(ctx, "cancel_booking", http.MethodPost, "/cancelBooking", nil,
		cancelBookingRequest{BookingID: bookingID, Email: email}, nil)
}

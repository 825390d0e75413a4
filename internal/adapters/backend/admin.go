package backend

import (
	"context"
	"net/http"

	"courtlink/internal/domain/booking"
	"courtlink/internal/domain/court"
)

// AdminLogin checks admin credentials. Rejected credentials match ErrUnauthorized.
func (c *Client) AdminLogin(ctx context.Context, username, password string) error {
	return c.call(ctx, "admin_login", http.MethodPost, "/AdminLogin", nil,
		adminLoginRequest{Username: username, Password: password}, nil)
}

// AllBookings returns every booking with its customer.
func (c *Client) AllBookings(ctx context.Context) ([]booking.Booking, error) {
	var payload []wireBooking
	if err := c.call(ctx, "admin_all_bookings", http.MethodGet, "/admin/allBookings", nil, nil, &payload); err != nil {
		return nil, err
	}
	return bookingsToDomain(payload), nil
}

// AdminCancelBooking cancels any booking.
func (c *Client) AdminCancelBooking(ctx context.Context, bookingID int) error {
	return c.call(ctx, "admin_cancel_booking", http.MethodPost, "/admin/cancelBooking", nil,
		cancelBookingRequest{BookingID: bookingID}, nil)
}

// DeleteAllBookings removes every booking and resets the booking id sequence.
func (c *Client) DeleteAllBookings(ctx context.Context) error {
	return c.call(ctx, "admin_delete_all_bookings", http.MethodDelete, "/admin/deleteAllBookings", nil, nil, nil)
}

// CreateSport adds a sport.
func (c *Client) CreateSport(ctx context.Context, name string) error {
	return c.call(ctx, "create_sport", http.MethodPost, "/CreateSport", nil, sportRequest{SportName: name}, nil)
}

// DeleteSport removes a sport; the backend cascades to its courts and bookings.
func (c *Client) DeleteSport(ctx context.Context, name string) error {
	return c.call(ctx, "delete_sport", http.MethodDelete, "/DeleteSport", nil, sportRequest{SportName: name}, nil)
}

// ResetSportCourts reopens every slot of every court of a sport.
func (c *Client) ResetSportCourts(ctx context.Context, name string) error {
	return c.call(ctx, "reset_sport_courts", http.MethodPost, "/ResetSportCourts", nil, sportRequest{SportName: name}, nil)
}

// CreateCourt adds an open court for a sport.
func (c *Client) CreateCourt(ctx context.Context, cr court.Court) error {
	capacity := cr.Capacity
	if capacity <= 0 {
		capacity = court.DefaultCapacity
	}
	return c.call(ctx, "create_court", http.MethodPost, "/CreateCourt", nil, createCourtRequest{
		CourtName:     cr.Name,
		CourtLocation: cr.Location,
		SportName:     cr.SportName,
		CourtStatus:   court.StatusOpen,
		CourtCapacity: capacity,
	}, nil)
}

// DeleteCourt removes a court; the backend cascades to its bookings.
func (c *Client) DeleteCourt(ctx context.Context, name string) error {
	return c.call(ctx, "delete_court", http.MethodDelete, "/DeleteCourt", nil, deleteCourtRequest{CourtName: name}, nil)
}

// ResetCourtSlots reopens every slot of one court.
func (c *Client) ResetCourtSlots(ctx context.Context, name string) error {
	return c.call(ctx, "reset_court_slots", http.MethodPut, "/resetCourtSlots", nil, resetCourtRequest{CourtName: name}, nil)
}

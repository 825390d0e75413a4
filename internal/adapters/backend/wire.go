package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"courtlink/internal/domain/booking"
	"courtlink/internal/domain/court"
	"courtlink/internal/domain/profile"
)

type wireBooking struct {
	BookingID     int    `json:"booking_id"`
	CourtName     string `json:"court_name"`
	SportName     string `json:"sport_name"`
	SlotTime      string `json:"slot_time"`
	BookingStatus string `json:"booking_status"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerUFID  string `json:"customer_ufid"`
}

func (w wireBooking) toDomain() booking.Booking {
	return booking.Booking{
		ID:            w.BookingID,
		CourtName:     w.CourtName,
		SportName:     w.SportName,
		SlotTime:      w.SlotTime,
		Status:        booking.ParseStatus(w.BookingStatus),
		StatusLabel:   w.BookingStatus,
		CustomerName:  w.CustomerName,
		CustomerEmail: w.CustomerEmail,
		CustomerUFID:  w.CustomerUFID,
	}
}

func bookingsToDomain(in []wireBooking) []booking.Booking {
	out := make([]booking.Booking, 0, len(in))
	for _, w := range in {
		out = append(out, w.toDomain())
	}
	return out
}

type wireAvailability struct {
	CourtID     int    `json:"CourtID"`
	CourtName   string `json:"CourtName"`
	CourtStatus int    `json:"CourtStatus"`
	SportID     int    `json:"SportID"`
	Slots       []int  `json:"Slots"`
}

func (w wireAvailability) toDomain() court.Availability {
	return court.Availability{
		CourtID:   w.CourtID,
		CourtName: w.CourtName,
		SportID:   w.SportID,
		Status:    w.CourtStatus,
		Slots:     w.Slots,
	}
}

// wireSport accepts either a bare sport name or a sport object.
type wireSport struct {
	ID   int
	Name string
}

func (w *wireSport) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &w.Name)
	}
	var obj struct {
		SportID   int    `json:"Sport_ID"`
		SportName string `json:"Sport_name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("sport: %w", err)
	}
	w.ID = obj.SportID
	w.Name = obj.SportName
	return nil
}

type wireCourt struct {
	CourtID       int        `json:"Court_ID"`
	CourtName     string     `json:"Court_Name"`
	CourtLocation string     `json:"Court_Location"`
	CourtStatus   int        `json:"Court_Status"`
	CourtCapacity *int       `json:"Court_Capacity"`
	SportID       int        `json:"Sport_id"`
	Sport         *wireSport `json:"Sport"`
}

func (w wireCourt) toDomain() court.Court {
	c := court.Court{
		ID:       w.CourtID,
		Name:     w.CourtName,
		Location: w.CourtLocation,
		Status:   w.CourtStatus,
		SportID:  w.SportID,
	}
	if w.CourtCapacity != nil {
		c.Capacity = *w.CourtCapacity
	}
	if w.Sport != nil {
		c.SportName = w.Sport.Name
	}
	return c
}

type wireCustomer struct {
	CustomerID int    `json:"Customer_ID,omitempty"`
	Name       string `json:"name"`
	Contact    string `json:"Contact,omitempty"`
	Email      string `json:"email"`
	UFID       string `json:"ufid"`
}

func (w wireCustomer) toDomain() profile.Profile {
	return profile.Profile{
		CustomerID:   w.CustomerID,
		Email:        w.Email,
		Name:         w.Name,
		UniversityID: w.UFID,
		Contact:      w.Contact,
	}
}

type createBookingRequest struct {
	CourtID   int    `json:"court_id"`
	SportID   int    `json:"sport_id"`
	Email     string `json:"email"`
	SlotIndex int    `json:"slot_index"`
}

type cancelBookingRequest struct {
	BookingID int    `json:"booking_id"`
	Email     string `json:"email,omitempty"`
}

type sportRequest struct {
	SportName string `json:"Sport_name"`
}

type createCourtRequest struct {
	CourtName     string `json:"Court_Name"`
	CourtLocation string `json:"Court_Location"`
	SportName     string `json:"Sport_name"`
	CourtStatus   int    `json:"Court_Status"`
	CourtCapacity int    `json:"Court_Capacity"`
}

type deleteCourtRequest struct {
	CourtName string `json:"Court_Name"`
}

type resetCourtRequest struct {
	CourtName string `json:"court_name"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message   string `json:"message"`
	BookingID int    `json:"booking_id"`
}

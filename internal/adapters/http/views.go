package web

import (
	"courtlink/internal/application/listutil"
	"courtlink/internal/application/orchestrators"
	"courtlink/internal/application/projections"
	"courtlink/internal/domain/booking"
	"courtlink/internal/domain/court"
)

// JSON shapes of the domain models. Domain types carry no wire tags.

type sportJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type slotJSON struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Bookable bool   `json:"bookable"`
}

type availabilityJSON struct {
	CourtID   int        `json:"court_id"`
	CourtName string     `json:"court_name"`
	SportID   int        `json:"sport_id"`
	Open      bool       `json:"open"`
	Slots     []slotJSON `json:"slots"`
}

type courtJSON struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Sport    string `json:"sport"`
	Open     bool   `json:"open"`
	Capacity int    `json:"capacity"`
}

type bookingJSON struct {
	ID            int    `json:"id"`
	Court         string `json:"court"`
	Sport         string `json:"sport"`
	Slot          string `json:"slot"`
	Status        string `json:"status"`
	StatusLabel   string `json:"status_label"`
	Cancelled     bool   `json:"cancelled"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

type statsJSON struct {
	TotalBookings int `json:"total_bookings"`
	Revenue       int `json:"revenue"`
	ActiveUsers   int `json:"active_users"`
}

type pageJSON struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func sportsJSON(in []court.Sport) []sportJSON {
	out := make([]sportJSON, 0, len(in))
	for _, s := range in {
		out = append(out, sportJSON{ID: s.ID, Name: s.Name})
	}
	return out
}

func availabilitiesJSON(in []projections.CourtView) []availabilityJSON {
	out := make([]availabilityJSON, 0, len(in))
	for _, c := range in {
		slots := make([]slotJSON, 0, len(c.Labelled))
		for _, sl := range c.Labelled {
			slots = append(slots, slotJSON{Index: sl.Index, Label: sl.Label, Bookable: sl.Bookable})
		}
		out = append(out, availabilityJSON{
			CourtID:   c.CourtID,
			CourtName: c.CourtName,
			SportID:   c.SportID,
			Open:      c.IsOpen(),
			Slots:     slots,
		})
	}
	return out
}

func courtsJSON(in []court.Court) []courtJSON {
	out := make([]courtJSON, 0, len(in))
	for _, c := range in {
		out = append(out, courtJSON{
			ID:       c.ID,
			Name:     c.Name,
			Location: c.Location,
			Sport:    c.SportName,
			Open:     c.Status == court.StatusOpen,
			Capacity: c.Capacity,
		})
	}
	return out
}

func bookingsJSON(in []booking.Booking) []bookingJSON {
	out := make([]bookingJSON, 0, len(in))
	for _, b := range in {
		out = append(out, bookingJSON{
			ID:            b.ID,
			Court:         b.CourtName,
			Sport:         b.SportName,
			Slot:          b.SlotTime,
			Status:        string(b.Status),
			StatusLabel:   b.StatusLabel,
			Cancelled:     b.IsCancelled(),
			CustomerName:  b.CustomerName,
			CustomerEmail: b.CustomerEmail,
		})
	}
	return out
}

func toStatsJSON(s booking.Stats) statsJSON {
	return statsJSON{TotalBookings: s.TotalBookings, Revenue: s.Revenue, ActiveUsers: s.ActiveUsers}
}

func toPageJSON(p listutil.PageInfo) pageJSON {
	return pageJSON{Page: p.Page, PerPage: p.PerPage, Total: p.Total, TotalPages: p.TotalPages}
}

// refetchedNames lists the collections a command re-fetched, in table order.
func refetchedNames(c orchestrators.Collections) []string {
	names := []string{}
	if c.Has(orchestrators.RefetchBookings) {
		names = append(names, "bookings")
	}
	if c.Has(orchestrators.RefetchSports) {
		names = append(names, "sports")
	}
	if c.Has(orchestrators.RefetchCourts) {
		names = append(names, "courts")
	}
	return names
}

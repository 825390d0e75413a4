package booking

import (
	"strings"
)

// Status is the closed set of booking states the front-end acts on.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusUnknown   Status = "unknown"
)

// CancelledLabel is the label written onto a booking flipped locally after a
// successful cancel. The backend uses the same word.
const CancelledLabel = "Cancelled"

// DefaultFee is the per-booking fee used for revenue figures.
const DefaultFee = 15

// Booking represents a court reservation as returned by the backend.
type Booking struct {
	ID            int
	CourtName     string
	SportName     string
	SlotTime      string
	Status        Status
	StatusLabel   string // backend wording, e.g. "Confirmed" or "Cancelled by Admin"
	CustomerName  string
	CustomerEmail string
	CustomerUFID  string
}

// ParseStatus maps the backend's free-form status string onto Status.
// Any label carrying "Cancelled" is cancelled; any other non-empty label is active.
func ParseStatus(label string) Status {
	switch {
	case strings.Contains(label, CancelledLabel):
		return StatusCancelled
	case strings.TrimSpace(label) == "":
		return StatusUnknown
	default:
		return StatusActive
	}
}

// IsCancelled reports whether the booking is in the cancelled state.
func (b Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Partition splits bookings into active and history (cancelled) lists.
// PRE: none
// POST: every booking lands in exactly one list; fetch order is preserved in both
func Partition(bookings []Booking) (active, history []Booking) {
	active = make([]Booking, 0, len(bookings))
	history = make([]Booking, 0)
	for _, b := range bookings {
		if b.IsCancelled() {
			history = append(history, b)
			continue
		}
		active = append(active, b)
	}
	return active, history
}

// MarkCancelled returns a copy of bookings with the booking matching id flipped to cancelled.
// PRE: none
// POST: only the booking with the given id changes; found is false when no booking matched
// INVARIANT: input slice is not mutated
func MarkCancelled(bookings []Booking, id int) (updated []Booking, found bool) {
	updated = make([]Booking, len(bookings))
	copy(updated, bookings)
	for i := range updated {
		if updated[i].ID == id {
			updated[i].Status = StatusCancelled
			updated[i].StatusLabel = CancelledLabel
			found = true
		}
	}
	return updated, found
}

// Stats holds display-only aggregates derived from a booking list.
type Stats struct {
	TotalBookings int
	Revenue       int
	ActiveUsers   int
}

// Summarize computes console stats from the fetched bookings.
// Revenue is fee times the number of bookings; active users counts distinct customer emails.
func Summarize(bookings []Booking, fee int) Stats {
	seen := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		email := strings.ToLower(strings.TrimSpace(b.CustomerEmail))
		if email == "" {
			continue
		}
		seen[email] = struct{}{}
	}
	return Stats{
		TotalBookings: len(bookings),
		Revenue:       fee * len(bookings),
		ActiveUsers:   len(seen),
	}
}

// CustomerEmails returns the distinct customer emails in first-seen order.
func CustomerEmails(bookings []Booking) []string {
	seen := make(map[string]struct{}, len(bookings))
	var emails []string
	for _, b := range bookings {
		email := strings.TrimSpace(b.CustomerEmail)
		key := strings.ToLower(email)
		if email == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		emails = append(emails, email)
	}
	return emails
}

package court

import (
	"errors"
	"fmt"
)

// SlotCount is the number of bookable one-hour slots per court per day.
const SlotCount = 10

// SlotLabels maps slot index to its display label. The index convention is
// shared with the backend and must not change on one side only.
var SlotLabels = [SlotCount]string{
	"08:00 - 09:00",
	"09:00 - 10:00",
	"10:00 - 11:00",
	"11:00 - 12:00",
	"12:00 - 13:00",
	"13:00 - 14:00",
	"14:00 - 15:00",
	"15:00 - 16:00",
	"16:00 - 17:00",
	"17:00 - 18:00",
}

// Court and slot states as encoded by the backend.
const (
	StatusClosed = 0
	StatusOpen   = 1

	SlotTaken = 0
	SlotOpen  = 1
)

// Default values sent when creating a court.
const (
	DefaultCapacity = 4
)

var (
	ErrSlotOutOfRange = errors.New("slot index out of range")
	ErrCourtClosed    = errors.New("court is closed")
	ErrSlotTaken      = errors.New("slot is not available")
)

// Label returns the label for slot index i.
func Label(i int) (string, error) {
	if i < 0 || i >= SlotCount {
		return "", fmt.Errorf("%w: %d", ErrSlotOutOfRange, i)
	}
	return SlotLabels[i], nil
}

// Availability is one court's slot vector for a sport.
type Availability struct {
	CourtID   int
	CourtName string
	SportID   int
	Status    int
	Slots     []int
}

// IsOpen reports whether the court accepts bookings at all.
func (a Availability) IsOpen() bool {
	return a.Status == StatusOpen
}

// CheckBookable returns nil when slot i can be booked.
// PRE: none
// POST: returns ErrSlotOutOfRange, ErrCourtClosed or ErrSlotTaken when not bookable
func (a Availability) CheckBookable(i int) error {
	if i < 0 || i >= SlotCount {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, i)
	}
	if !a.IsOpen() {
		return ErrCourtClosed
	}
	if i >= len(a.Slots) || a.Slots[i] != SlotOpen {
		return ErrSlotTaken
	}
	return nil
}

// CanBook reports whether slot i is selectable.
func (a Availability) CanBook(i int) bool {
	return a.CheckBookable(i) == nil
}

// Slot is a labelled view of one slot.
type Slot struct {
	Index    int
	Label    string
	Bookable bool
}

// LabelledSlots returns the labelled slots for the court, always SlotCount long.
// A vector shorter than SlotCount reports the missing tail as unavailable.
func (a Availability) LabelledSlots() []Slot {
	out := make([]Slot, SlotCount)
	for i := range SlotLabels {
		out[i] = Slot{Index: i, Label: SlotLabels[i], Bookable: a.CanBook(i)}
	}
	return out
}

// Court is the admin view of a court.
type Court struct {
	ID        int
	Name      string
	Location  string
	Status    int
	Capacity  int
	SportID   int
	SportName string
}

// Sport is a sport offered by the facility.
type Sport struct {
	ID   int
	Name string
}

package projections

import (
	"context"
	"net/url"
	"testing"

	"courtlink/internal/application/listutil"
	"courtlink/internal/domain/booking"
	"courtlink/internal/domain/court"
)

// TestQueryListSports_NilIsEmpty verifies an empty backend list renders as empty.
func TestQueryListSports_NilIsEmpty(t *testing.T) {
	got, err := QueryListSports(context.Background(), ListSportsDeps{Sports: &mockBackend{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("sports = %#v", got)
	}
}

// TestQueryCourtAvailability_Labels verifies slot i carries label i.
func TestQueryCourtAvailability_Labels(t *testing.T) {
	be := &mockBackend{avail: []court.Availability{{CourtID: 1, CourtName: "Court 1", Status: court.StatusOpen, Slots: []int{1, 0, 1, 1, 1, 1, 1, 1, 1, 1}}}}
	got, err := QueryCourtAvailability(context.Background(), CourtAvailabilityQuery{Sport: " Tennis "}, CourtAvailabilityDeps{Courts: be})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Sport != "Tennis" || got.Empty() {
		t.Fatalf("result = %+v", got)
	}
	slots := got.Courts[0].Labelled
	for i, s := range slots {
		if s.Label != court.SlotLabels[i] {
			t.Errorf("slot %d label = %q, want %q", i, s.Label, court.SlotLabels[i])
		}
	}
	if !slots[0].Bookable || slots[1].Bookable {
		t.Errorf("bookable = %v, %v", slots[0].Bookable, slots[1].Bookable)
	}
}

// TestQueryCourtAvailability_NoCourts verifies an empty sport is not an error.
func TestQueryCourtAvailability_NoCourts(t *testing.T) {
	got, err := QueryCourtAvailability(context.Background(), CourtAvailabilityQuery{Sport: "Golf"}, CourtAvailabilityDeps{Courts: &mockBackend{}})
	if err != nil || !got.Empty() {
		t.Errorf("result = %+v, err = %v", got, err)
	}
}

// TestQueryMyBookings_Empty verifies the empty-state message.
func TestQueryMyBookings_Empty(t *testing.T) {
	got, err := QueryMyBookings(context.Background(), MyBookingsQuery{Email: "a@ufl.edu"}, MyBookingsDeps{Bookings: &mockBackend{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EmptyMessage() != "No active bookings found" || len(got.Active) != 0 {
		t.Errorf("result = %+v", got)
	}
}

// TestQueryMyBookings_Partition verifies active and history split in fetch order.
func TestQueryMyBookings_Partition(t *testing.T) {
	be := &mockBackend{bookings: []booking.Booking{
		{ID: 3, Status: booking.StatusActive},
		{ID: 1, Status: booking.StatusCancelled},
		{ID: 2, Status: booking.StatusActive},
	}}
	got, err := QueryMyBookings(context.Background(), MyBookingsQuery{Email: "a@ufl.edu"}, MyBookingsDeps{Bookings: be})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Active) != 2 || got.Active[0].ID != 3 || got.Active[1].ID != 2 {
		t.Errorf("active = %+v", got.Active)
	}
	if len(got.History) != 1 || got.EmptyMessage() != "" {
		t.Errorf("history = %+v", got.History)
	}
}

func consoleBookings() []booking.Booking {
	return []booking.Booking{
		{ID: 1, CourtName: "Court B", SportName: "Tennis", CustomerName: "Zed", CustomerEmail: "z@ufl.edu"},
		{ID: 2, CourtName: "Court A", SportName: "Badminton", CustomerName: "Amy", CustomerEmail: "a@ufl.edu"},
		{ID: 3, CourtName: "Court C", SportName: "Tennis", CustomerName: "Amy", CustomerEmail: "A@ufl.edu "},
	}
}

// TestQueryAdminConsole_Stats verifies revenue and distinct users.
func TestQueryAdminConsole_Stats(t *testing.T) {
	be := &mockBackend{bookings: consoleBookings()}
	got, err := QueryAdminConsole(context.Background(), AdminConsoleQuery{List: listutil.Parse(url.Values{}, AdminBookingSortColumns)}, AdminConsoleDeps{Admin: be})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stats.TotalBookings != 3 || got.Stats.Revenue != 45 || got.Stats.ActiveUsers != 2 {
		t.Errorf("stats = %+v", got.Stats)
	}
	if len(be.calls) != 3 {
		t.Errorf("calls = %v, want bookings, sports and courts", be.calls)
	}
}

// TestBuildAdminConsole_SearchAndSort verifies filtering keeps stats over all bookings.
func TestBuildAdminConsole_SearchAndSort(t *testing.T) {
	q := url.Values{"q": {"tennis"}, "sort": {"court"}, "dir": {"desc"}}
	got := BuildAdminConsole(consoleBookings(), nil, nil, AdminConsoleQuery{List: listutil.Parse(q, AdminBookingSortColumns), Fee: 20})

	if len(got.Bookings) != 2 || got.Bookings[0].ID != 3 || got.Bookings[1].ID != 1 {
		t.Errorf("bookings = %+v", got.Bookings)
	}
	if got.Stats.Revenue != 60 {
		t.Errorf("revenue = %d, want 60", got.Stats.Revenue)
	}
	if got.Page.Total != 2 {
		t.Errorf("page total = %d", got.Page.Total)
	}
}

// TestBuildAdminConsole_Paging verifies the page slice.
func TestBuildAdminConsole_Paging(t *testing.T) {
	var many []booking.Booking
	for i := 1; i <= 30; i++ {
		many = append(many, booking.Booking{ID: i})
	}
	q := url.Values{"page": {"2"}, "per_page": {"10"}}
	got := BuildAdminConsole(many, nil, nil, AdminConsoleQuery{List: listutil.Parse(q, AdminBookingSortColumns)})
	if len(got.Bookings) != 10 || got.Bookings[0].ID != 11 {
		t.Errorf("page 2 = %d rows starting at %d", len(got.Bookings), got.Bookings[0].ID)
	}
	if got.Page.TotalPages != 3 {
		t.Errorf("TotalPages = %d", got.Page.TotalPages)
	}
}

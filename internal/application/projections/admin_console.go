package projections

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"courtlink/internal/application/listutil"
	"courtlink/internal/domain/booking"
	"courtlink/internal/domain/court"
)

// AdminBookingSortColumns are the sortable columns of the admin booking table.
var AdminBookingSortColumns = []string{"id", "court", "sport", "slot", "customer", "status"}

// AdminConsoleQuery carries the booking table parameters and the per-booking fee.
type AdminConsoleQuery struct {
	List listutil.Params
	Fee  int
}

// AdminConsoleResult is everything the admin console renders.
type AdminConsoleResult struct {
	Bookings []booking.Booking // the current page of the filtered, sorted table
	Page     listutil.PageInfo
	List     listutil.Params
	Stats    booking.Stats // over every booking, not just the filtered page
	Sports   []court.Sport
	Courts   []court.Court
}

// AdminConsoleDeps holds dependencies for AdminConsole.
type AdminConsoleDeps struct {
	Admin AdminReader
}

// QueryAdminConsole fetches bookings, sports and courts and derives the stats.
// POST: Stats are recomputed from the fetched bookings on every call
func QueryAdminConsole(ctx context.Context, query AdminConsoleQuery, deps AdminConsoleDeps) (AdminConsoleResult, error) {
	bookings, err := deps.Admin.AllBookings(ctx)
	if err != nil {
		return AdminConsoleResult{}, err
	}
	sports, err := deps.Admin.ListSports(ctx)
	if err != nil {
		return AdminConsoleResult{}, err
	}
	courts, err := deps.Admin.ListCourts(ctx)
	if err != nil {
		return AdminConsoleResult{}, err
	}
	return BuildAdminConsole(bookings, sports, courts, query), nil
}

// BuildAdminConsole filters, sorts and pages bookings and computes the stats.
func BuildAdminConsole(bookings []booking.Booking, sports []court.Sport, courts []court.Court, query AdminConsoleQuery) AdminConsoleResult {
	fee := query.Fee
	if fee <= 0 {
		fee = booking.DefaultFee
	}

	filtered := make([]booking.Booking, 0, len(bookings))
	for _, b := range bookings {
		if listutil.Matches(query.List.Search, strconv.Itoa(b.ID), b.CourtName, b.SportName, b.SlotTime, b.CustomerName, b.CustomerEmail, b.CustomerUFID, b.StatusLabel) {
			filtered = append(filtered, b)
		}
	}
	sortBookings(filtered, query.List.Sort, query.List.Desc)

	page := listutil.NewPageInfo(query.List.Page, query.List.PerPage, len(filtered))
	if sports == nil {
		sports = []court.Sport{}
	}
	if courts == nil {
		courts = []court.Court{}
	}
	return AdminConsoleResult{
		Bookings: listutil.Slice(filtered, page),
		Page:     page,
		List:     query.List,
		Stats:    booking.Summarize(bookings, fee),
		Sports:   sports,
		Courts:   courts,
	}
}

func sortBookings(list []booking.Booking, column string, desc bool) {
	key := func(b booking.Booking) string {
		switch column {
		case "court":
			return strings.ToLower(b.CourtName)
		case "sport":
			return strings.ToLower(b.SportName)
		case "slot":
			return b.SlotTime
		case "customer":
			return strings.ToLower(b.CustomerName)
		case "status":
			return string(b.Status)
		}
		return ""
	}
	slices.SortStableFunc(list, func(a, b booking.Booking) int {
		c := cmp.Compare(key(a), key(b))
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
}

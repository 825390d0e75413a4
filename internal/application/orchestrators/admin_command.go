package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"courtlink/internal/domain/booking"
	"courtlink/internal/domain/court"
)

// Command names an admin console action.
type Command string

const (
	CmdCancelBooking     Command = "cancel_booking"
	CmdDeleteAllBookings Command = "delete_all_bookings"
	CmdCreateSport       Command = "create_sport"
	CmdDeleteSport       Command = "delete_sport"
	CmdResetSportCourts  Command = "reset_sport_courts"
	CmdCreateCourt       Command = "create_court"
	CmdDeleteCourt       Command = "delete_court"
	CmdResetCourtSlots   Command = "reset_court_slots"
)

// Collections is a set of admin collections to re-fetch.
type Collections uint8

const (
	RefetchBookings Collections = 1 << iota
	RefetchSports
	RefetchCourts

	refetchAll = RefetchBookings | RefetchSports | RefetchCourts
)

// Has reports whether c includes every collection in other.
func (c Collections) Has(other Collections) bool {
	return c&other == other
}

type commandSpec struct {
	destructive bool
	refetch     Collections
}

// Cascading deletes re-fetch everything since the backend removes dependent rows.
var commandTable = map[Command]commandSpec{
	CmdCancelBooking:     {destructive: true, refetch: RefetchBookings},
	CmdDeleteAllBookings: {destructive: true, refetch: RefetchBookings},
	CmdCreateSport:       {refetch: RefetchSports},
	CmdDeleteSport:       {destructive: true, refetch: refetchAll},
	CmdResetSportCourts:  {destructive: true, refetch: RefetchBookings | RefetchCourts},
	CmdCreateCourt:       {refetch: RefetchCourts},
	CmdDeleteCourt:       {destructive: true, refetch: refetchAll},
	CmdResetCourtSlots:   {destructive: true, refetch: RefetchBookings | RefetchCourts},
}

// Known reports whether c is an admin command.
func (c Command) Known() bool {
	_, ok := commandTable[c]
	return ok
}

// RequiresConfirmation reports whether c is destructive.
func (c Command) RequiresConfirmation() bool {
	return commandTable[c].destructive
}

// Refetch returns the collections re-fetched after c succeeds.
func (c Command) Refetch() Collections {
	return commandTable[c].refetch
}

// AdminBackend defines the backend operations used by the admin console.
type AdminBackend interface {
	AllBookings(ctx context.Context) ([]booking.Booking, error)
	ListSports(ctx context.Context) ([]court.Sport, error)
	ListCourts(ctx context.Context) ([]court.Court, error)
	AdminCancelBooking(ctx context.Context, bookingID int) error
	DeleteAllBookings(ctx context.Context) error
	CreateSport(ctx context.Context, name string) error
	DeleteSport(ctx context.Context, name string) error
	ResetSportCourts(ctx context.Context, name string) error
	CreateCourt(ctx context.Context, c court.Court) error
	DeleteCourt(ctx context.Context, name string) error
	ResetCourtSlots(ctx context.Context, name string) error
}

// AdminNotifier tells customers about admin actions on their bookings.
type AdminNotifier interface {
	AdminCancelled(ctx context.Context, b booking.Booking)
	BookingsCleared(ctx context.Context, bookings []booking.Booking)
}

// AdminCommandInput carries one admin action. Name is the sport or court the
// action targets; Location, Sport and Capacity are only read by CmdCreateCourt.
type AdminCommandInput struct {
	Command   Command
	BookingID int
	Name      string
	Location  string
	Sport     string
	Capacity  int
	Confirmed bool
	Actor     string
}

// AdminCommandResult holds the collections re-fetched after the command.
type AdminCommandResult struct {
	Command   Command
	Refetched Collections
	Bookings  []booking.Booking
	Sports    []court.Sport
	Courts    []court.Court
	// Stale is true when the command succeeded but a re-fetch failed.
	Stale bool
}

// AdminCommandDeps holds dependencies for AdminCommand.
type AdminCommandDeps struct {
	Backend  AdminBackend
	Notifier AdminNotifier
}

type sportForm struct {
	Name string `form:"name" validate:"required"`
}

type courtForm struct {
	Name     string `form:"name" validate:"required"`
	Location string `form:"location" validate:"required"`
	Sport    string `form:"sport" validate:"required"`
}

// ExecuteAdminCommand runs one admin action and then re-fetches exactly the
// collections that action can change.
// PRE: Destructive commands carry Confirmed
// POST: On success the result holds fresh copies of Command.Refetch(); no
// collection is patched locally
// INVARIANT: An unconfirmed destructive command sends no request
func ExecuteAdminCommand(ctx context.Context, input AdminCommandInput, deps AdminCommandDeps) (AdminCommandResult, error) {
	cmd := input.Command
	if !cmd.Known() {
		return AdminCommandResult{}, fmt.Errorf("unknown admin command %q", cmd)
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validateCommand(input); err != nil {
		return AdminCommandResult{}, err
	}
	if cmd.RequiresConfirmation() && !input.Confirmed {
		return AdminCommandResult{}, ErrConfirmationRequired
	}

	if err := runCommand(ctx, input, deps); err != nil {
		slog.Info("admin_event", "event", "command_failed", "command", cmd, "actor", input.Actor, "target", commandTarget(input), "error", err)
		return AdminCommandResult{}, err
	}
	slog.Info("admin_event", "event", "command_applied", "command", cmd, "actor", input.Actor, "target", commandTarget(input))

	return refetch(ctx, cmd, deps.Backend), nil
}

func validateCommand(input AdminCommandInput) error {
	switch input.Command {
	case CmdCancelBooking:
		if input.BookingID <= 0 {
			return &ValidationError{Fields: map[string]string{"booking_id": "Choose a booking"}}
		}
	case CmdCreateSport, CmdDeleteSport, CmdResetSportCourts, CmdDeleteCourt, CmdResetCourtSlots:
		return validateInput(sportForm{Name: input.Name})
	case CmdCreateCourt:
		return validateInput(courtForm{
			Name:     input.Name,
			Location: strings.TrimSpace(input.Location),
			Sport:    strings.TrimSpace(input.Sport),
		})
	}
	return nil
}

func runCommand(ctx context.Context, input AdminCommandInput, deps AdminCommandDeps) error {
	b := deps.Backend
	switch input.Command {
	case CmdCancelBooking:
		target, found := findBookingForNotice(ctx, b, deps.Notifier, input.BookingID)
		if err := b.AdminCancelBooking(ctx, input.BookingID); err != nil {
			return err
		}
		if found {
			deps.Notifier.AdminCancelled(ctx, target)
		}
		return nil
	case CmdDeleteAllBookings:
		var before []booking.Booking
		if deps.Notifier != nil {
			var err error
			if before, err = b.AllBookings(ctx); err != nil {
				slog.Warn("admin_event", "event", "notify_lookup_failed", "command", input.Command, "error", err)
			}
		}
		if err := b.DeleteAllBookings(ctx); err != nil {
			return err
		}
		if deps.Notifier != nil && len(before) > 0 {
			deps.Notifier.BookingsCleared(ctx, before)
		}
		return nil
	case CmdCreateSport:
		return b.CreateSport(ctx, input.Name)
	case CmdDeleteSport:
		return b.DeleteSport(ctx, input.Name)
	case CmdResetSportCourts:
		return b.ResetSportCourts(ctx, input.Name)
	case CmdCreateCourt:
		return b.CreateCourt(ctx, court.Court{
			Name:      input.Name,
			Location:  strings.TrimSpace(input.Location),
			SportName: strings.TrimSpace(input.Sport),
			Capacity:  input.Capacity,
		})
	case CmdDeleteCourt:
		return b.DeleteCourt(ctx, input.Name)
	case CmdResetCourtSlots:
		return b.ResetCourtSlots(ctx, input.Name)
	}
	return fmt.Errorf("unknown admin command %q", input.Command)
}

// findBookingForNotice looks up a booking so its customer can be told about the cancellation.
func findBookingForNotice(ctx context.Context, b AdminBackend, n AdminNotifier, id int) (booking.Booking, bool) {
	if n == nil {
		return booking.Booking{}, false
	}
	all, err := b.AllBookings(ctx)
	if err != nil {
		slog.Warn("admin_event", "event", "notify_lookup_failed", "booking_id", id, "error", err)
		return booking.Booking{}, false
	}
	for _, bk := range all {
		if bk.ID == id {
			return bk, true
		}
	}
	return booking.Booking{}, false
}

func refetch(ctx context.Context, cmd Command, b AdminBackend) AdminCommandResult {
	want := cmd.Refetch()
	res := AdminCommandResult{Command: cmd, Refetched: want}
	var err error
	if want.Has(RefetchBookings) {
		if res.Bookings, err = b.AllBookings(ctx); err != nil {
			res.Stale = true
			slog.Warn("admin_event", "event", "refetch_failed", "collection", "bookings", "error", err)
		}
	}
	if want.Has(RefetchSports) {
		if res.Sports, err = b.ListSports(ctx); err != nil {
			res.Stale = true
			slog.Warn("admin_event", "event", "refetch_failed", "collection", "sports", "error", err)
		}
	}
	if want.Has(RefetchCourts) {
		if res.Courts, err = b.ListCourts(ctx); err != nil {
			res.Stale = true
			slog.Warn("admin_event", "event", "refetch_failed", "collection", "courts", "error", err)
		}
	}
	return res
}

func commandTarget(input AdminCommandInput) string {
	if input.Command == CmdCancelBooking {
		return fmt.Sprintf("booking:%d", input.BookingID)
	}
	return input.Name
}

package web

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"courtlink/internal/adapters/http/middleware"
	"courtlink/internal/application/listutil"
	"courtlink/internal/application/orchestrators"
	"courtlink/internal/application/projections"
	"courtlink/internal/domain/session"
)

// adminCommandRoutes maps each admin POST path to its command.
var adminCommandRoutes = map[string]orchestrators.Command{
	"/admin/bookings/cancel":     orchestrators.CmdCancelBooking,
	"/admin/bookings/delete-all": orchestrators.CmdDeleteAllBookings,
	"/admin/sports":              orchestrators.CmdCreateSport,
	"/admin/sports/delete":       orchestrators.CmdDeleteSport,
	"/admin/sports/reset":        orchestrators.CmdResetSportCourts,
	"/admin/courts":              orchestrators.CmdCreateCourt,
	"/admin/courts/delete":       orchestrators.CmdDeleteCourt,
	"/admin/courts/reset":        orchestrators.CmdResetCourtSlots,
}

// commandText describes each command on the confirmation page and in flashes.
var commandText = map[orchestrators.Command]struct{ Prompt, Done string }{
	orchestrators.CmdCancelBooking:     {"Cancel this booking? The customer loses the slot.", "Booking cancelled"},
	orchestrators.CmdDeleteAllBookings: {"Delete every booking? Booking IDs restart from 1.", "All bookings deleted"},
	orchestrators.CmdCreateSport:       {"", "Sport created"},
	orchestrators.CmdDeleteSport:       {"Delete this sport? Its courts and their bookings are deleted too.", "Sport deleted"},
	orchestrators.CmdResetSportCourts:  {"Reset every court of this sport? All their slots become free.", "Sport courts reset"},
	orchestrators.CmdCreateCourt:       {"", "Court created"},
	orchestrators.CmdDeleteCourt:       {"Delete this court? Its bookings are deleted too.", "Court deleted"},
	orchestrators.CmdResetCourtSlots:   {"Reset this court's slots? All of them become free.", "Court slots reset"},
}

// perfWindow is how far back the perf snapshot looks.
const perfWindow = 15 * time.Minute

type adminView struct {
	Console projections.AdminConsoleResult
	Sorts   []string
}

type confirmView struct {
	Action string
	Prompt string
	Target string
	Hidden url.Values
}

func (s *Server) adminConsole(r *http.Request, q url.Values) (projections.AdminConsoleResult, error) {
	query := projections.AdminConsoleQuery{
		List: listutil.Parse(q, projections.AdminBookingSortColumns),
		Fee:  s.deps.Options.BookingFee,
	}
	return projections.QueryAdminConsole(r.Context(), query, projections.AdminConsoleDeps{Admin: s.deps.Backend})
}

// handleAdminConsole handles GET /admin
func (s *Server) handleAdminConsole(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Admin console"}
	if done := orchestrators.Command(r.URL.Query().Get("done")); done.Known() {
		data.Flash = commandText[done].Done
	}

	result, err := s.adminConsole(r, r.URL.Query())
	if err != nil {
		s.fail(w, r, err, "admin.html", data)
		return
	}

	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"bookings": bookingsJSON(result.Bookings),
			"page":     toPageJSON(result.Page),
			"stats":    toStatsJSON(result.Stats),
			"sports":   sportsJSON(result.Sports),
			"courts":   courtsJSON(result.Courts),
		})
		return
	}
	data.Data = adminView{Console: result, Sorts: projections.AdminBookingSortColumns}
	s.render(w, r, http.StatusOK, "admin.html", data)
}

// adminCommandHandler runs one admin command. Destructive commands without
// confirm=yes get a confirmation page instead; browsers are sent back to the
// console after success.
func (s *Server) adminCommandHandler(cmd orchestrators.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := requestValues(r)
		if err != nil {
			badForm(w, r)
			return
		}
		principal, _ := middleware.PrincipalFromContext(r.Context())

		input := orchestrators.AdminCommandInput{
			Command:   cmd,
			BookingID: intValue(values, "booking_id"),
			Name:      values.Get("name"),
			Location:  values.Get("location"),
			Sport:     values.Get("sport"),
			Capacity:  max(intValue(values, "capacity"), 0),
			Confirmed: values.Get("confirm") == "yes",
			Actor:     principal.Email,
		}
		deps := orchestrators.AdminCommandDeps{
			Backend:  s.deps.Backend,
			Notifier: s.deps.Notifier,
		}

		result, err := orchestrators.ExecuteAdminCommand(r.Context(), input, deps)
		switch {
		case err == nil:
		case errors.Is(err, orchestrators.ErrConfirmationRequired):
			s.confirmCommand(w, r, cmd, values)
			return
		default:
			data := pageData{Title: "Admin console"}
			if isHTMLRequest(r) {
				if console, qerr := s.adminConsole(r, url.Values{}); qerr == nil {
					data.Data = adminView{Console: console, Sorts: projections.AdminBookingSortColumns}
				}
			}
			s.fail(w, r, err, "admin.html", data)
			return
		}

		if isHTMLRequest(r) {
			http.Redirect(w, r, session.AdminPrefix+"?"+url.Values{"done": {string(cmd)}}.Encode(), http.StatusSeeOther)
			return
		}
		body := map[string]any{
			"command":   string(result.Command),
			"refetched": refetchedNames(result.Refetched),
			"stale":     result.Stale,
		}
		if result.Refetched.Has(orchestrators.RefetchBookings) {
			body["bookings"] = bookingsJSON(result.Bookings)
		}
		if result.Refetched.Has(orchestrators.RefetchSports) {
			body["sports"] = sportsJSON(result.Sports)
		}
		if result.Refetched.Has(orchestrators.RefetchCourts) {
			body["courts"] = courtsJSON(result.Courts)
		}
		writeJSON(w, http.StatusOK, body)
	}
}

// confirmCommand asks the admin to resubmit a destructive command with confirm=yes.
func (s *Server) confirmCommand(w http.ResponseWriter, r *http.Request, cmd orchestrators.Command, values url.Values) {
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":            orchestrators.ErrConfirmationRequired.Error(),
			"confirm_required": true,
			"command":          string(cmd),
		})
		return
	}
	hidden := url.Values{}
	for k, v := range values {
		if k == "confirm" || k == "gorilla.csrf.Token" {
			continue
		}
		hidden[k] = v
	}
	target := values.Get("name")
	if cmd == orchestrators.CmdCancelBooking {
		target = "Booking #" + values.Get("booking_id")
	}
	s.render(w, r, http.StatusOK, "confirm_action.html", pageData{
		Title: "Please confirm",
		Data: confirmView{
			Action: r.URL.Path,
			Prompt: commandText[cmd].Prompt,
			Target: target,
			Hidden: hidden,
		},
	})
}

// handleAdminPerf handles GET /admin/perf
func (s *Server) handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if s.deps.Collector == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Collector.Snapshot(s.deps.Now().Add(-perfWindow), 10))
}

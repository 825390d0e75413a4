package web

import (
	"net/http"
	"net/url"
	"strings"

	"courtlink/internal/adapters/http/middleware"
	"courtlink/internal/application/orchestrators"
	"courtlink/internal/application/projections"
	"courtlink/internal/domain/profile"
	"courtlink/internal/domain/session"
)

type dashboardView struct {
	Sports []sportJSON
}

type courtsView struct {
	Sport  string
	Courts []projections.CourtView
}

type bookingsView struct {
	Active       []bookingJSON
	History      []bookingJSON
	EmptyMessage string
}

// userPage loads the principal and runs the profile check for a dashboard page.
func (s *Server) userPage(r *http.Request, title string) (middleware.Principal, pageData) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	return principal, pageData{Title: title, Prompt: s.profilePrompt(r, principal)}
}

// profilePrompt reconciles the backend profile with the cache and returns the
// completion prompt when the profile is incomplete.
func (s *Server) profilePrompt(r *http.Request, principal middleware.Principal) *profilePrompt {
	sess, _ := middleware.SessionFromContext(r.Context())
	status := orchestrators.ExecuteSyncProfile(r.Context(),
		orchestrators.SyncProfileInput{Path: r.URL.Path, Session: sess, Email: principal.Email},
		orchestrators.SyncProfileDeps{Profiles: s.deps.Backend, Cache: s.deps.ProfileCache},
	)
	if !status.Prompt {
		return nil
	}
	prompt := &profilePrompt{Return: r.URL.RequestURI()}
	if status.Profile.Name != profile.SentinelName {
		prompt.Name = status.Profile.Name
	}
	if status.Profile.UniversityID != profile.PlaceholderUniversityID {
		prompt.UFID = status.Profile.UniversityID
	}
	// The cache only pre-fills the form; it never closes the prompt.
	if prompt.Name == "" && sess.ID != "" {
		if cached, err := s.deps.ProfileCache.Get(r.Context(), sess.ID); err == nil && cached.Name != profile.SentinelName {
			prompt.Name = cached.Name
			if prompt.UFID == "" && cached.UniversityID != profile.PlaceholderUniversityID {
				prompt.UFID = cached.UniversityID
			}
		}
	}
	return prompt
}

// handleDashboard handles GET /dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	_, data := s.userPage(r, "Choose a sport")

	sports, err := projections.QueryListSports(r.Context(), projections.ListSportsDeps{Sports: s.deps.Backend})
	if err != nil {
		data.Data = dashboardView{Sports: []sportJSON{}}
		s.fail(w, r, err, "dashboard.html", data)
		return
	}
	view := dashboardView{Sports: sportsJSON(sports)}

	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, map[string]any{"sports": view.Sports, "profile_prompt": data.Prompt != nil})
		return
	}
	data.Data = view
	s.render(w, r, http.StatusOK, "dashboard.html", data)
}

// handleCourts handles GET /dashboard/courts?sport=
func (s *Server) handleCourts(w http.ResponseWriter, r *http.Request) {
	sport := strings.TrimSpace(r.URL.Query().Get("sport"))
	if sport == "" {
		if isHTMLRequest(r) {
			http.Redirect(w, r, session.DashboardPath, http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "sport is required"})
		return
	}
	_, data := s.userPage(r, sport+" courts")

	result, err := projections.QueryCourtAvailability(r.Context(),
		projections.CourtAvailabilityQuery{Sport: sport},
		projections.CourtAvailabilityDeps{Courts: s.deps.Backend},
	)
	if err != nil {
		data.Data = courtsView{Sport: sport}
		s.fail(w, r, err, "courts.html", data)
		return
	}

	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"sport":          result.Sport,
			"courts":         availabilitiesJSON(result.Courts),
			"profile_prompt": data.Prompt != nil,
		})
		return
	}
	data.Data = courtsView{Sport: result.Sport, Courts: result.Courts}
	s.render(w, r, http.StatusOK, "courts.html", data)
}

// handleBook handles POST /dashboard/courts/book
func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		badForm(w, r)
		return
	}
	principal, _ := middleware.PrincipalFromContext(r.Context())

	input := orchestrators.BookSlotInput{
		Sport:     strings.TrimSpace(values.Get("sport")),
		CourtID:   intValue(values, "court_id"),
		SlotIndex: intValue(values, "slot_index"),
		Email:     principal.Email,
	}
	deps := orchestrators.BookSlotDeps{
		Courts:   s.deps.Backend,
		Bookings: s.deps.Backend,
		Notifier: s.deps.Notifier,
	}

	result, err := orchestrators.ExecuteBookSlot(r.Context(), input, deps)
	data := pageData{Title: input.Sport + " courts"}
	if err != nil {
		if isHTMLRequest(r) {
			// Show what the backend currently reports; nothing was changed locally.
			current, qerr := projections.QueryCourtAvailability(r.Context(),
				projections.CourtAvailabilityQuery{Sport: input.Sport},
				projections.CourtAvailabilityDeps{Courts: s.deps.Backend},
			)
			if qerr == nil {
				data.Data = courtsView{Sport: current.Sport, Courts: current.Courts}
			} else {
				data.Data = courtsView{Sport: input.Sport}
			}
		}
		s.fail(w, r, err, "courts.html", data)
		return
	}

	view := projections.BuildCourtAvailability(input.Sport, result.Courts)
	message := result.Message
	if message == "" {
		message = "Booking confirmed"
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"message":   message,
			"court":     result.CourtName,
			"slot":      result.SlotLabel,
			"refreshed": result.Refreshed,
			"courts":    availabilitiesJSON(view.Courts),
		})
		return
	}
	data.Flash = message + ": " + result.CourtName + ", " + result.SlotLabel
	if !result.Refreshed {
		data.Error = "Availability could not be refreshed. Reload the page to see the latest slots."
	}
	data.Data = courtsView{Sport: view.Sport, Courts: view.Courts}
	s.render(w, r, http.StatusOK, "courts.html", data)
}

// handleBookings handles GET /dashboard/bookings
func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	principal, data := s.userPage(r, "My bookings")

	result, err := projections.QueryMyBookings(r.Context(),
		projections.MyBookingsQuery{Email: principal.Email},
		projections.MyBookingsDeps{Bookings: s.deps.Backend},
	)
	if err != nil {
		data.Data = bookingsView{}
		s.fail(w, r, err, "bookings.html", data)
		return
	}
	s.writeBookings(w, r, http.StatusOK, result, data)
}

// handleCancelBooking handles POST /dashboard/bookings/cancel
func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		badForm(w, r)
		return
	}
	principal, _ := middleware.PrincipalFromContext(r.Context())

	input := orchestrators.CancelBookingInput{
		BookingID: intValue(values, "booking_id"),
		Email:     principal.Email,
	}
	deps := orchestrators.CancelBookingDeps{
		Bookings: s.deps.Backend,
		Notifier: s.deps.Notifier,
	}

	result, err := orchestrators.ExecuteCancelBooking(r.Context(), input, deps)
	data := pageData{Title: "My bookings"}
	if err != nil {
		if isHTMLRequest(r) {
			current, qerr := projections.QueryMyBookings(r.Context(),
				projections.MyBookingsQuery{Email: principal.Email},
				projections.MyBookingsDeps{Bookings: s.deps.Backend},
			)
			if qerr == nil {
				data.Data = newBookingsView(current)
			}
		}
		s.fail(w, r, err, "bookings.html", data)
		return
	}
	data.Flash = "Booking cancelled"
	s.writeBookings(w, r, http.StatusOK, projections.MyBookingsResult{Active: result.Active, History: result.History}, data)
}

func newBookingsView(result projections.MyBookingsResult) bookingsView {
	return bookingsView{
		Active:       bookingsJSON(result.Active),
		History:      bookingsJSON(result.History),
		EmptyMessage: result.EmptyMessage(),
	}
}

func (s *Server) writeBookings(w http.ResponseWriter, r *http.Request, status int, result projections.MyBookingsResult, data pageData) {
	view := newBookingsView(result)
	if !isHTMLRequest(r) {
		body := map[string]any{
			"active":         view.Active,
			"history":        view.History,
			"profile_prompt": data.Prompt != nil,
		}
		if view.EmptyMessage != "" {
			body["message"] = view.EmptyMessage
		}
		if data.Flash != "" {
			body["flash"] = data.Flash
		}
		writeJSON(w, status, body)
		return
	}
	data.Data = view
	s.render(w, r, status, "bookings.html", data)
}

// handleCompleteProfile handles POST /profile
func (s *Server) handleCompleteProfile(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		badForm(w, r)
		return
	}
	principal, _ := middleware.PrincipalFromContext(r.Context())
	sess, _ := middleware.SessionFromContext(r.Context())
	back := safeReturn(values.Get("return"))

	input := orchestrators.CompleteProfileInput{
		Name:      values.Get("name"),
		UFID:      values.Get("ufid"),
		Email:     principal.Email,
		SessionID: sess.ID,
	}
	deps := orchestrators.CompleteProfileDeps{
		Profiles: s.deps.Backend,
		Cache:    s.deps.ProfileCache,
	}

	if _, err := orchestrators.ExecuteCompleteProfile(r.Context(), input, deps); err != nil {
		// The prompt stays open with the error; only success or sign-out closes it.
		f, ok := classify(err)
		if !ok {
			internalError(w, err)
			return
		}
		if !isHTMLRequest(r) {
			body := map[string]any{"error": f.Message}
			if len(f.Fields) > 0 {
				body["fields"] = f.Fields
			}
			writeJSON(w, f.Status, body)
			return
		}
		prompt := &profilePrompt{Name: input.Name, UFID: input.UFID, Return: back, Error: f.Message, Fields: f.Fields}
		s.render(w, r, f.Status, "profile.html", pageData{Title: "Complete your profile", Prompt: prompt})
		return
	}
	redirect(w, r, back, nil)
}

// safeReturn keeps post-profile redirects on this site's dashboard.
func safeReturn(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return session.DashboardPath
	}
	if u.Path != session.DashboardPath && !strings.HasPrefix(u.Path, session.DashboardPath+"/") {
		return session.DashboardPath
	}
	return u.RequestURI()
}

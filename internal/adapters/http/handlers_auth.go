package web

import (
	"net/http"
	"net/url"

	"courtlink/internal/adapters/http/middleware"
	"courtlink/internal/application/orchestrators"
	"courtlink/internal/domain/session"
)

// setSessionCookie writes the cookie for sess, expiring with it.
func (s *Server) setSessionCookie(w http.ResponseWriter, sess session.Session) {
	maxAge := 0
	if !sess.ExpiresAt.IsZero() {
		maxAge = max(int(sess.ExpiresAt.Sub(s.deps.Now()).Seconds()), 1)
	}
	middleware.SetSessionCookie(w, sess.ID, maxAge, s.deps.Options.SecureCookies)
}

// formPage renders a form page, or a small JSON descriptor for API clients.
func (s *Server) formPage(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, map[string]any{"page": data.Title})
		return
	}
	s.render(w, r, http.StatusOK, name, data)
}

func badForm(w http.ResponseWriter, r *http.Request) {
	if isHTMLRequest(r) {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
}

// handleLoginPage handles GET /login
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := pageData{Title: "Sign in", Form: url.Values{"email": {q.Get("email")}}}
	if q.Get("confirmed") == "1" {
		data.Flash = "Your account is confirmed. Sign in to continue."
	}
	s.formPage(w, r, "login.html", data)
}

// handleLogin handles POST /login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		badForm(w, r)
		return
	}
	current, _ := middleware.SessionFromContext(r.Context())

	input := orchestrators.LoginInput{
		Email:    values.Get("email"),
		Password: values.Get("password"),
		Current:  current,
	}
	deps := orchestrators.LoginDeps{
		Identity:   s.deps.Identity,
		Sessions:   s.deps.Sessions,
		Cache:      s.deps.ProfileCache,
		GenerateID: s.deps.GenerateID,
		Now:        s.deps.Now,
		TTL:        s.deps.Options.SessionTTL,
	}

	sess, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		s.fail(w, r, err, "login.html", pageData{Title: "Sign in", Form: url.Values{"email": {input.Email}}})
		return
	}
	s.setSessionCookie(w, sess)
	redirect(w, r, session.DashboardPath, map[string]any{"email": sess.Email})
}

// handleRegisterPage handles GET /register
func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.formPage(w, r, "register.html", pageData{Title: "Create account"})
}

// handleRegister handles POST /register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		badForm(w, r)
		return
	}
	input := orchestrators.RegisterInput{
		Name:            values.Get("name"),
		Email:           values.Get("email"),
		UFID:            values.Get("ufid"),
		Password:        values.Get("password"),
		ConfirmPassword: values.Get("confirm_password"),
	}
	deps := orchestrators.RegisterDeps{
		Identity: s.deps.Identity,
		Profiles: s.deps.Backend,
	}

	result, err := orchestrators.ExecuteRegister(r.Context(), input, deps)
	if err != nil {
		echo := url.Values{"name": {input.Name}, "email": {input.Email}, "ufid": {input.UFID}}
		s.fail(w, r, err, "register.html", pageData{Title: "Create account", Form: echo})
		return
	}
	if !result.NeedsConfirm {
		redirect(w, r, session.LoginPath+"?"+url.Values{"email": {result.Email}}.Encode(), nil)
		return
	}
	redirect(w, r, "/confirm?"+url.Values{"email": {result.Email}}.Encode(), map[string]any{"needs_confirm": true})
}

// handleConfirmPage handles GET /confirm
func (s *Server) handleConfirmPage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title: "Confirm your account",
		Form:  url.Values{"email": {r.URL.Query().Get("email")}},
		Flash: "We sent a confirmation code to your email.",
	}
	s.formPage(w, r, "confirm.html", data)
}

// handleConfirm handles POST /confirm
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		badForm(w, r)
		return
	}
	input := orchestrators.ConfirmSignUpInput{
		Email: values.Get("email"),
		Code:  values.Get("code"),
	}
	if err := orchestrators.ExecuteConfirmSignUp(r.Context(), input, orchestrators.ConfirmSignUpDeps{Identity: s.deps.Identity}); err != nil {
		s.fail(w, r, err, "confirm.html", pageData{Title: "Confirm your account", Form: url.Values{"email": {input.Email}}})
		return
	}
	redirect(w, r, session.LoginPath+"?"+url.Values{"confirmed": {"1"}, "email": {input.Email}}.Encode(), nil)
}

// handleLogout handles POST /logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.signOut(w, r, session.LoginPath)
}

// handleAdminLogout handles POST /admin/logout
func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	s.signOut(w, r, session.AdminLoginPath)
}

func (s *Server) signOut(w http.ResponseWriter, r *http.Request, next string) {
	current, _ := middleware.SessionFromContext(r.Context())
	deps := orchestrators.SignOutDeps{
		Identity: s.deps.Identity,
		Sessions: s.deps.Sessions,
		Cache:    s.deps.ProfileCache,
	}
	if err := orchestrators.ExecuteSignOut(r.Context(), current, deps); err != nil {
		internalError(w, err)
		return
	}
	middleware.ClearSessionCookie(w, s.deps.Options.SecureCookies)
	redirect(w, r, next, nil)
}

// handleAdminLoginPage handles GET /admin/login
func (s *Server) handleAdminLoginPage(w http.ResponseWriter, r *http.Request) {
	s.formPage(w, r, "admin_login.html", pageData{Title: "Admin sign in"})
}

// handleAdminLogin handles POST /admin/login
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		badForm(w, r)
		return
	}
	current, _ := middleware.SessionFromContext(r.Context())

	input := orchestrators.AdminLoginInput{
		Username: values.Get("username"),
		Password: values.Get("password"),
		Current:  current,
	}
	deps := orchestrators.AdminLoginDeps{
		Backend:    s.deps.Backend,
		Claims:     s.deps.Claims,
		Sessions:   s.deps.Sessions,
		Cache:      s.deps.ProfileCache,
		GenerateID: s.deps.GenerateID,
		Now:        s.deps.Now,
	}

	sess, err := orchestrators.ExecuteAdminLogin(r.Context(), input, deps)
	if err != nil {
		s.fail(w, r, err, "admin_login.html", pageData{Title: "Admin sign in", Form: url.Values{"username": {input.Username}}})
		return
	}
	s.setSessionCookie(w, sess)
	redirect(w, r, session.AdminPrefix, nil)
}

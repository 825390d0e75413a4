package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"

	"courtlink/internal/adapters/backend"
	"courtlink/internal/adapters/http/middleware"
	"courtlink/internal/adapters/identity"
	"courtlink/internal/application/listutil"
	"courtlink/internal/application/orchestrators"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutTemplate = "templates/layout.html"

const maxJSONBody = 64 << 10

// pageData is what every page template receives.
type pageData struct {
	Title     string
	Principal middleware.Principal
	CSRFField template.HTML
	Flash     string
	Error     string
	Fields    map[string]string // per-field validation messages
	Form      url.Values        // submitted values, echoed back on error
	Prompt    *profilePrompt
	Data      any
}

// profilePrompt is the modal completion form. It has no close control.
type profilePrompt struct {
	Name   string
	UFID   string
	Return string
	Error  string
	Fields map[string]string
}

type pageSet struct {
	byName map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"pageQuery": func(p listutil.Params, page int) template.URL {
		return template.URL(listQuery(p, p.Sort, p.Desc, page).Encode())
	},
	"sortQuery": func(p listutil.Params, col string) template.URL {
		desc := col == p.Sort && !p.Desc
		return template.URL(listQuery(p, col, desc, 1).Encode())
	},
}

func listQuery(p listutil.Params, sort string, desc bool, page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(p.PerPage))
	if sort != "" {
		q.Set("sort", sort)
		if desc {
			q.Set("dir", "desc")
		}
	}
	if p.Search != "" {
		q.Set("q", p.Search)
	}
	return q
}

// loadPages parses the layout once per page template.
func loadPages() (*pageSet, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	set := &pageSet{byName: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		if name == layoutTemplate {
			continue
		}
		tpl, err := template.New(path.Base(layoutTemplate)).Funcs(templateFuncs).ParseFS(templateFS, layoutTemplate, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		set.byName[path.Base(name)] = tpl
	}
	return set, nil
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// render executes a page into a buffer first so a template failure never
// produces half a page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	tpl, ok := s.pages.byName[name]
	if !ok {
		internalError(w, fmt.Errorf("unknown template %q", name))
		return
	}
	if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
		data.Principal = p
	}
	data.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// requestValues reads a form post or a flat JSON object into url.Values so
// handlers read both the same way.
func requestValues(r *http.Request) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		values := url.Values{}
		for k, v := range raw {
			switch tv := v.(type) {
			case nil:
			case string:
				values.Set(k, tv)
			case bool:
				values.Set(k, strconv.FormatBool(tv))
			default:
				values.Set(k, fmt.Sprint(tv))
			}
		}
		return values, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return r.PostForm, nil
}

func intValue(values url.Values, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(values.Get(key)))
	if err != nil {
		return -1
	}
	return n
}

// failure is an expected error turned into something a user can read.
type failure struct {
	Status  int
	Message string
	Fields  map[string]string
}

const unavailableMessage = "The reservation service is unavailable. Please try again."

var knownErrors = []struct {
	err    error
	status int
}{
	{orchestrators.ErrSessionMismatch, http.StatusConflict},
	{orchestrators.ErrConfirmationRequired, http.StatusConflict},
	{orchestrators.ErrSlotUnavailable, http.StatusConflict},
	{orchestrators.ErrCourtNotFound, http.StatusNotFound},
	{orchestrators.ErrInvalidAdminCredentials, http.StatusUnauthorized},
	{orchestrators.ErrNotSignedIn, http.StatusUnauthorized},
	{identity.ErrInvalidCredentials, http.StatusUnauthorized},
	{identity.ErrChallengeRequired, http.StatusUnauthorized},
	{identity.ErrNotAuthenticated, http.StatusUnauthorized},
	{identity.ErrUserNotConfirmed, http.StatusForbidden},
	{identity.ErrUserExists, http.StatusConflict},
	{identity.ErrInvalidCode, http.StatusBadRequest},
	{identity.ErrPasswordPolicy, http.StatusBadRequest},
}

// classify maps err onto a user-visible failure. ok is false for internal errors.
func classify(err error) (f failure, ok bool) {
	var verr *orchestrators.ValidationError
	if errors.As(err, &verr) {
		return failure{Status: http.StatusBadRequest, Message: "Please correct the highlighted fields.", Fields: verr.Fields}, true
	}
	for _, k := range knownErrors {
		if errors.Is(err, k.err) {
			return failure{Status: k.status, Message: k.err.Error()}, true
		}
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		return failure{Status: status, Message: backend.UserMessage(err, http.StatusText(apiErr.Status))}, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return failure{Status: http.StatusBadGateway, Message: unavailableMessage}, true
	}
	return failure{}, false
}

// fail answers an error as JSON or by re-rendering name with the message.
// Internal errors always get a generic 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, name string, data pageData) {
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
	data.Error = f.Message
	data.Fields = f.Fields
	s.render(w, r, f.Status, name, data)
}

// redirect sends browsers to target with 303 and JSON clients a body naming it.
func redirect(w http.ResponseWriter, r *http.Request, target string, body map[string]any) {
	if isHTMLRequest(r) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	if body == nil {
		body = map[string]any{}
	}
	body["redirect"] = target
	writeJSON(w, http.StatusOK, body)
}

package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"congrega/internal/adapters/http/middleware"
	"congrega/internal/application/forms"
	"congrega/internal/domain/ministry"
	"congrega/internal/domain/reinforcement"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// layoutFiles are parsed into every page.
var layoutFiles = []string{"templates/layout.html", "templates/partials.html"}

var funcMap = template.FuncMap{
	"brl":        reinforcement.FormatBRL,
	"date":       formatDate,
	"join":       strings.Join,
	"servesMany": ministry.ServesMultipleCongregations,
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// parsePages parses each page template together with the layout.
func parsePages() (map[string]*template.Template, error) {
	base, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, layoutFiles...)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		file := path.Base(name)
		if file == "layout.html" || file == "partials.html" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		tpl, err := clone.ParseFS(templateFS, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[file] = tpl
	}
	return pages, nil
}

type navItem struct {
	Path  string
	Label string
}

var navItems = []navItem{
	{"/", "Dashboard"},
	{"/congregacoes", "Congregações"},
	{"/ministerio", "Ministério"},
	{"/musical", "Musical"},
	{"/agendamentos", "Agendamentos"},
	{"/reforcos-coletas", "Reforços de Coletas"},
	{"/relatorios", "Relatórios"},
	{"/listas", "Listas"},
	{"/ebi", "EBI"},
	{"/darpe", "DARPE"},
}

// pageData is what every page template receives.
type pageData struct {
	Title        string
	Active       string
	Nav          []navItem
	Account      *middleware.Session
	AuthRequired bool
	CSRFField    template.HTML
	Flash        *middleware.Flash
	Page         any
	Form         formView
	Options      formOptions
	// Bare hides the navigation shell (login, 404).
	Bare bool
}

// formView is the state of the modal form on a page.
type formView struct {
	Open   bool
	ID     string
	Input  any
	Errors forms.FieldErrors
	Notice *forms.Notice
	// Fields lists the visible fields; nil shows every field.
	Fields []string
}

// Shows reports whether field is visible in the form.
func (f formView) Shows(field string) bool {
	if f.Fields == nil {
		return true
	}
	for _, v := range f.Fields {
		if v == field {
			return true
		}
	}
	return false
}

// Error returns the message of field, or "".
func (f formView) Error(field string) string {
	return f.Errors[field]
}

// render executes page name inside the layout and writes it with status.
func (s *server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	tpl, ok := s.pages[name]
	if !ok {
		internalError(w, fmt.Errorf("template %s not found", name))
		return
	}
	data.Nav = navItems
	data.Options = options
	data.AuthRequired = s.AuthRequired
	data.CSRFField = csrf.TemplateField(r)
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		data.Account = &sess
	}
	if f, ok := s.flash.Pop(w, r); ok {
		data.Flash = &f
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("api_event", "event", "encode_failed", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleNotFound renders the 404 page for any path outside the route table.
func (s *server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSONError(w, http.StatusNotFound, "rota não encontrada")
		return
	}
	s.render(w, r, http.StatusNotFound, "not_found.html", pageData{Title: "Página não encontrada", Bare: true, Page: r.URL.Path})
}

// handleStatic renders a page without data.
func (s *server) handleStatic(name, title, active string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, name, pageData{Title: title, Active: active})
	}
}

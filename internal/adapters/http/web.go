// Package web serves the dashboard pages, their forms and the JSON API.
package web

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"html/template"
	"net/http"
	"time"

	"congrega/internal/adapters/archive"
	"congrega/internal/adapters/email"
	"congrega/internal/adapters/http/middleware"
	accountStore "congrega/internal/adapters/storage/account"
	reportStore "congrega/internal/adapters/storage/report"
	"congrega/internal/application/dataaccess"
	"congrega/internal/application/querycache"
	"congrega/internal/domain/account"
)

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds everything the HTTP layer needs.
// Sender, Metrics and Now are optional.
type Deps struct {
	Registry         *dataaccess.Registry
	Caches           *querycache.Set
	Accounts         accountStore.Store
	Reports          reportStore.Store
	Archive          archive.Archive
	Sender           email.Sender
	ReportFrom       string
	ReportRecipients []string
	Metrics          MetricsHandler
	DB               Pinger
	AuthRequired     bool
	CSRFKey          []byte
	TrustedOrigins   []string
	SlowRequestMs    int
	Now              func() time.Time
}

// MetricsHandler is the metrics surface the HTTP layer uses.
type MetricsHandler interface {
	middleware.RequestObserver
	ReportGenerated(kind string)
	Handler() http.Handler
}

// LoginAttemptsPerMinute limits POST /login per client IP.
var LoginAttemptsPerMinute = 10

type server struct {
	Deps
	sessions *middleware.SessionStore
	flash    *middleware.Flasher
	pages    map[string]*template.Template
}

// NewMux wires HTTP handlers for the app.
func NewMux(d Deps) (http.Handler, error) {
	if d.Registry == nil || d.Accounts == nil {
		return nil, errors.New("web: Registry and Accounts are required")
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	key, err := csrfKey(d.CSRFKey)
	if err != nil {
		return nil, err
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	s := &server{
		Deps:     d,
		sessions: middleware.NewSessionStore(),
		flash:    middleware.NewFlasher(key),
		pages:    pages,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	var observer middleware.RequestObserver
	if d.Metrics != nil {
		observer = d.Metrics
	}
	return middleware.Chain(middleware.RoutePattern(mux),
		middleware.Auth(s.sessions),
		middleware.CSRF(key, d.TrustedOrigins),
		middleware.SecurityHeaders,
		middleware.Timing(observer, d.SlowRequestMs),
	), nil
}

func (s *server) registerRoutes(mux *http.ServeMux) {
	loginLimiter := middleware.NewRateLimiter(LoginAttemptsPerMinute, time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	mux.Handle("GET /static/", http.FileServerFS(staticFS))

	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.Handle("POST /login", middleware.RateLimit(loginLimiter)(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("POST /logout", s.handleLogout)
	signedIn := middleware.RequireSession(middleware.HasSession)
	mux.Handle("GET /conta/senha", signedIn(http.HandlerFunc(s.handlePasswordPage)))
	mux.Handle("POST /conta/senha", signedIn(http.HandlerFunc(s.handleChangePassword)))

	mux.Handle("GET /{$}", s.protect(s.handleDashboard))
	s.congregations().register(mux, s)
	s.ministry().register(mux, s)
	s.musicians().register(mux, s)
	s.events().register(mux, s)
	s.reinforcements().register(mux, s)

	mux.Handle("GET /relatorios", s.protect(s.handleReports))
	mux.Handle("POST /relatorios", s.protect(s.handleGenerateReport, account.RoleAdmin, account.RoleEditor))
	mux.Handle("GET /relatorios/{id}/arquivo", s.protect(s.handleReportDownload))
	mux.Handle("GET /listas", s.protect(s.handleLists))
	mux.Handle("GET /ebi", s.protect(s.handleEBI))
	mux.Handle("GET /darpe", s.protect(s.handleStatic("darpe.html", "DARPE", "/darpe")))

	mux.HandleFunc("/", s.handleNotFound)
}

// protect applies the session guard when auth is required, and the role
// guard when roles are given.
func (s *server) protect(h http.HandlerFunc, roles ...string) http.Handler {
	var out http.Handler = h
	if !s.AuthRequired {
		return out
	}
	if len(roles) > 0 {
		out = middleware.RequireRole(roles...)(out)
	}
	return middleware.RequireSession(middleware.HasSession)(out)
}

// csrfKey returns a 32 byte key: raw when it already has that length,
// hashed otherwise, random when empty.
func csrfKey(raw []byte) ([]byte, error) {
	switch {
	case len(raw) == 32:
		return raw, nil
	case len(raw) > 0:
		sum := sha256.Sum256(raw)
		return sum[:], nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// handleHealthz handles GET /healthz
func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

// ObserveRequest records the observation.
// PRE: none
// POST: observation appended
func (o *recordingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{method, route, status})
}

func newTestMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/musicians/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /missing-record", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	return RoutePattern(mux)
}

// TestTimingMiddleware_LabelsByPattern verifies requests are reported under the matched pattern.
func TestTimingMiddleware_LabelsByPattern(t *testing.T) {
	obs := &recordingObserver{}
	handler := Timing(obs, 0)(newTestMux())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/musicians/abc", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/musicians/def", nil))

	if len(obs.seen) != 2 {
		t.Fatalf("observations = %d, want 2", len(obs.seen))
	}
	for _, o := range obs.seen {
		if o.route != "GET /api/musicians/{id}" {
			t.Errorf("route = %q, want the pattern", o.route)
		}
	}
}

// TestTimingMiddleware_SkipsStatic verifies static assets are excluded from timing.
func TestTimingMiddleware_SkipsStatic(t *testing.T) {
	obs := &recordingObserver{}
	handler := Timing(obs, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/static/style.css", nil))

	if len(obs.seen) != 0 {
		t.Errorf("observations = %d, want 0 (static excluded)", len(obs.seen))
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTimingMiddleware_CapturesStatusCode verifies the status code is captured.
func TestTimingMiddleware_CapturesStatusCode(t *testing.T) {
	obs := &recordingObserver{}
	handler := Timing(obs, 0)(newTestMux())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/missing-record", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nowhere", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	if len(obs.seen) != 2 {
		t.Fatalf("observations = %d, want 2", len(obs.seen))
	}
	if obs.seen[0].status != http.StatusNotFound {
		t.Errorf("observed status = %d, want 404", obs.seen[0].status)
	}
	if obs.seen[1].route != unmatchedRoute {
		t.Errorf("route = %q, want %q", obs.seen[1].route, unmatchedRoute)
	}
}

// TestTimingMiddleware_NilObserver verifies middleware works without an observer.
func TestTimingMiddleware_NilObserver(t *testing.T) {
	handler := Timing(nil, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/test", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

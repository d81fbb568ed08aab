package querycache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AnonymousScope is used when requests carry no session.
const AnonymousScope = "anonymous"

type scoped struct {
	cache    *Cache
	lastUsed time.Time
}

// Set holds one Cache per scope (a session token).
// Invalidations are applied to every scope so a write is visible to all sessions.
type Set struct {
	mu       sync.Mutex
	scopes   map[string]*scoped
	ttl      time.Duration
	observer Observer
	now      func() time.Time
}

// NewSet creates an empty Set whose caches use ttl and observer.
func NewSet(ttl time.Duration, observer Observer) *Set {
	return &Set{
		scopes:   make(map[string]*scoped),
		ttl:      ttl,
		observer: observer,
		now:      time.Now,
	}
}

// For returns the cache of scope, creating it on first use.
func (s *Set) For(scope string) *Cache {
	if scope == "" {
		scope = AnonymousScope
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scopes[scope]
	if !ok {
		sc = &scoped{cache: New(s.ttl, s.observer)}
		s.scopes[scope] = sc
	}
	sc.lastUsed = s.now()
	return sc.cache
}

// Drop discards the cache of scope, e.g. on logout.
func (s *Set) Drop(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes, scope)
}

// InvalidateLists invalidates entity list keys in every scope.
func (s *Set) InvalidateLists(entity string) {
	for _, c := range s.snapshot() {
		c.InvalidateLists(entity)
	}
}

// InvalidateRecord invalidates one record key in every scope.
func (s *Set) InvalidateRecord(entity, id string) {
	for _, c := range s.snapshot() {
		c.InvalidateRecord(entity, id)
	}
}

// InvalidateEntity invalidates every key of entity in every scope.
func (s *Set) InvalidateEntity(entity string) {
	for _, c := range s.snapshot() {
		c.InvalidateEntity(entity)
	}
}

// Len reports the number of live scopes.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scopes)
}

func (s *Set) snapshot() []*Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Cache, 0, len(s.scopes))
	for _, sc := range s.scopes {
		out = append(out, sc.cache)
	}
	return out
}

// Sweep drops scopes unused for longer than idle and returns how many were dropped.
func (s *Set) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idle)
	n := 0
	for scope, sc := range s.scopes {
		if sc.lastUsed.Before(cutoff) {
			delete(s.scopes, scope)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Set) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(idle); n > 0 {
				slog.Debug("cache_event", "event", "scopes_swept", "count", n)
			}
		}
	}
}

type scopeKey struct{}

// WithScope returns a context whose cache reads and writes use scope.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the scope stored by WithScope, or AnonymousScope.
func ScopeFrom(ctx context.Context) string {
	if s, ok := ctx.Value(scopeKey{}).(string); ok && s != "" {
		return s
	}
	return AnonymousScope
}

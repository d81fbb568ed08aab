package querycache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSet_ForIsStablePerScope(t *testing.T) {
	s := NewSet(0, nil)

	a := s.For("token-a")
	assert.Same(t, a, s.For("token-a"))
	assert.NotSame(t, a, s.For("token-b"))
	assert.Same(t, s.For(""), s.For(AnonymousScope))
	assert.Equal(t, 3, s.Len())

	s.Drop("token-a")
	assert.Equal(t, 2, s.Len())
	assert.NotSame(t, a, s.For("token-a"))
}

func TestSet_InvalidationReachesEveryScope(t *testing.T) {
	s := NewSet(0, nil)
	ctx := context.Background()
	var a, b int32

	Get(ctx, s.For("a"), ListKey("events", ""), counter(&a, nil))
	Get(ctx, s.For("b"), ListKey("events", ""), counter(&b, nil))
	Get(ctx, s.For("b"), RecordKey("events", "e1"), counter(&b, nil))

	s.InvalidateLists("events")
	s.InvalidateRecord("events", "e1")

	Get(ctx, s.For("a"), ListKey("events", ""), counter(&a, nil))
	Get(ctx, s.For("b"), ListKey("events", ""), counter(&b, nil))
	Get(ctx, s.For("b"), RecordKey("events", "e1"), counter(&b, nil))

	assert.EqualValues(t, 2, a)
	assert.EqualValues(t, 4, b)
}

func TestSet_Sweep(t *testing.T) {
	s := NewSet(0, nil)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.For("old")
	now = now.Add(2 * time.Hour)
	s.For("fresh")

	assert.Equal(t, 1, s.Sweep(time.Hour))
	assert.Equal(t, 1, s.Len())
}

func TestSet_RunSweeperStopsOnCancel(t *testing.T) {
	s := NewSet(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestScopeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, AnonymousScope, ScopeFrom(ctx))
	assert.Equal(t, "tok", ScopeFrom(WithScope(ctx, "tok")))
	assert.Equal(t, AnonymousScope, ScopeFrom(WithScope(ctx, "")))
}

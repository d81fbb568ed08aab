// Package querycache is a read-through cache for store queries with
// invalidate-on-write semantics.
//
// Each key belongs to an entity and is either a list key (one per filter) or a
// record key (one per id). Writes invalidate all list keys of an entity and,
// for updates and deletes, the record key. A fetch that started before an
// invalidation still answers its callers but is never stored.
package querycache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Observer receives cache hit/miss and invalidation events, e.g. metrics.
type Observer interface {
	CacheLookup(entity string, hit bool)
	CacheInvalidated(entity string)
}

type kind uint8

const (
	kindList kind = iota
	kindRecord
)

// Key identifies one cached query result.
type Key struct {
	Entity string
	kind   kind
	Part   string
}

// ListKey is the key of a list query; filter is a canonical encoding of its parameters.
func ListKey(entity, filter string) Key {
	return Key{Entity: entity, kind: kindList, Part: filter}
}

// RecordKey is the key of a single-record query.
func RecordKey(entity, id string) Key {
	return Key{Entity: entity, kind: kindRecord, Part: id}
}

// String renders the key for logging and singleflight grouping.
func (k Key) String() string {
	prefix := "list"
	if k.kind == kindRecord {
		prefix = "id"
	}
	return k.Entity + "|" + prefix + "|" + k.Part
}

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	entries   map[Key]entry
	listGen   map[string]uint64
	recordGen map[Key]uint64
	entityGen map[string]uint64
	group     singleflight.Group
	ttl       time.Duration
	now       func() time.Time
	observer  Observer
}

// New creates a cache. A ttl of zero keeps entries until invalidated.
func New(ttl time.Duration, observer Observer) *Cache {
	return &Cache{
		entries:   make(map[Key]entry),
		listGen:   make(map[string]uint64),
		recordGen: make(map[Key]uint64),
		entityGen: make(map[string]uint64),
		ttl:       ttl,
		now:       time.Now,
		observer:  observer,
	}
}

// generation returns the invalidation counter guarding k. Caller holds mu.
func (c *Cache) generation(k Key) uint64 {
	base := c.entityGen[k.Entity]
	if k.kind == kindList {
		return base + c.listGen[k.Entity]
	}
	return base + c.recordGen[k]
}

// lookup returns a fresh entry or the current generation on a miss.
func (c *Cache) lookup(k Key) (any, bool, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if ok && (c.ttl == 0 || c.now().Sub(e.storedAt) < c.ttl) {
		return e.value, true, 0
	}
	if ok {
		delete(c.entries, k)
	}
	return nil, false, c.generation(k)
}

// store keeps v only if no invalidation happened since gen was read.
func (c *Cache) store(k Key, gen uint64, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation(k) != gen {
		return false
	}
	c.entries[k] = entry{value: v, storedAt: c.now()}
	return true
}

func (c *Cache) observe(entity string, hit bool) {
	if c.observer != nil {
		c.observer.CacheLookup(entity, hit)
	}
}

// Get returns the cached value for k or runs fetch once for all concurrent
// callers of the same key and generation. The shared fetch does not inherit
// the cancellation of the caller that started it; each caller stops waiting
// when its own ctx is done.
func Get[T any](ctx context.Context, c *Cache, k Key, fetch func(context.Context) (T, error)) (T, error) {
	cached, ok, gen := c.lookup(k)
	if ok {
		c.observe(k.Entity, true)
		return cached.(T), nil
	}
	c.observe(k.Entity, false)

	flightKey := k.String() + "#" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(flightKey, func() (any, error) {
		val, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(k, gen, val)
		return val, nil
	})
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// InvalidateLists drops every list key of entity and fences in-flight list fetches.
func (c *Cache) InvalidateLists(entity string) {
	c.mu.Lock()
	c.listGen[entity]++
	for k := range c.entries {
		if k.kind == kindList && k.Entity == entity {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
	if c.observer != nil {
		c.observer.CacheInvalidated(entity)
	}
}

// InvalidateRecord drops the record key of entity/id and fences its in-flight fetch.
func (c *Cache) InvalidateRecord(entity, id string) {
	k := RecordKey(entity, id)
	c.mu.Lock()
	c.recordGen[k]++
	delete(c.entries, k)
	c.mu.Unlock()
}

// InvalidateEntity drops every key of entity, lists and records alike.
func (c *Cache) InvalidateEntity(entity string) {
	c.mu.Lock()
	c.entityGen[entity]++
	for k := range c.entries {
		if k.Entity == entity {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
	if c.observer != nil {
		c.observer.CacheInvalidated(entity)
	}
}

// Len reports the number of stored entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

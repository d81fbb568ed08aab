// Package dataaccess wraps each entity store with the query cache: reads go
// through the caller's cache scope, writes invalidate the entity's list keys
// (and the record key on update and delete).
package dataaccess

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"congrega/internal/adapters/storage"
	congregationStore "congrega/internal/adapters/storage/congregation"
	eventStore "congrega/internal/adapters/storage/event"
	ministryStore "congrega/internal/adapters/storage/ministry"
	musicianStore "congrega/internal/adapters/storage/musician"
	reinforcementStore "congrega/internal/adapters/storage/reinforcement"
	"congrega/internal/application/querycache"
)

// ErrNotFound is returned (wrapped) by Get, Update and Delete for unknown ids.
var ErrNotFound = storage.ErrNotFound

// ErrConflict is returned (wrapped) by Create and Update when the store
// rejects the write because of another record.
var ErrConflict = storage.ErrConflict

// Entity names used as cache namespaces.
const (
	EntityCongregations   = "congregations"
	EntityMinistryMembers = "ministry_members"
	EntityMusicians       = "musicians"
	EntityEvents          = "events"
	EntityReinforcements  = "collection_reinforcements"
)

// Stores groups the entity stores the registry serves.
type Stores struct {
	Congregations  congregationStore.Store
	Ministry       ministryStore.Store
	Musicians      musicianStore.Store
	Events         eventStore.Store
	Reinforcements reinforcementStore.Store
}

// Registry hands out per-entity data-access hooks sharing one cache set.
type Registry struct {
	stores Stores
	caches *querycache.Set
	now    func() time.Time
	newID  func() string
}

// NewRegistry builds a registry over stores and caches.
func NewRegistry(stores Stores, caches *querycache.Set) *Registry {
	return &Registry{
		stores: stores,
		caches: caches,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// entityStore is the shape every entity store shares.
type entityStore[T any, F any] interface {
	GetByID(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, value T) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter F) ([]T, error)
}

// binding tells the generic hook how to stamp and check one entity type.
type binding[T any] struct {
	entity   string
	stamp    func(v *T, id string, createdAt, updatedAt time.Time)
	created  func(v T) time.Time
	validate func(v *T) error
	// siblings is set when saving one record may rewrite others of the entity.
	siblings bool
}

// hook is the generic list/get/create/update/delete surface.
type hook[T any, F any] struct {
	reg   *Registry
	store entityStore[T, F]
	bind  binding[T]
}

func (h hook[T, F]) cache(ctx context.Context) *querycache.Cache {
	return h.reg.caches.For(querycache.ScopeFrom(ctx))
}

// List returns the records matching filter, cached per filter value.
// The returned slice is a copy and may be modified by the caller.
func (h hook[T, F]) List(ctx context.Context, filter F) ([]T, error) {
	key := querycache.ListKey(h.bind.entity, fmt.Sprintf("%+v", filter))
	list, err := querycache.Get(ctx, h.cache(ctx), key, func(ctx context.Context) ([]T, error) {
		return h.store.List(ctx, filter)
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", h.bind.entity, err)
	}
	return slices.Clone(list), nil
}

// Get returns one record by id.
func (h hook[T, F]) Get(ctx context.Context, id string) (T, error) {
	key := querycache.RecordKey(h.bind.entity, id)
	v, err := querycache.Get(ctx, h.cache(ctx), key, func(ctx context.Context) (T, error) {
		return h.store.GetByID(ctx, id)
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("get %s: %w", h.bind.entity, err)
	}
	return v, nil
}

// Create assigns a new id and timestamps, persists v and invalidates list keys.
// PRE: v passed form validation
// POST: v is stored under a fresh id; every cached list of the entity is dropped
func (h hook[T, F]) Create(ctx context.Context, v T) (T, error) {
	now := h.reg.now().UTC()
	h.bind.stamp(&v, h.reg.newID(), now, now)
	if err := h.bind.validate(&v); err != nil {
		var zero T
		return zero, fmt.Errorf("create %s: %w", h.bind.entity, err)
	}
	if err := h.store.Save(ctx, v); err != nil {
		var zero T
		return zero, fmt.Errorf("create %s: %w", h.bind.entity, err)
	}
	h.invalidateAfterSave("")
	return v, nil
}

// Update replaces the record id with v, keeping id and CreatedAt.
// PRE: v passed form validation
// POST: record id holds v; lists and the record key are invalidated
func (h hook[T, F]) Update(ctx context.Context, id string, v T) (T, error) {
	existing, err := h.store.GetByID(ctx, id)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("update %s: %w", h.bind.entity, err)
	}
	h.bind.stamp(&v, id, h.bind.created(existing), h.reg.now().UTC())
	if err := h.bind.validate(&v); err != nil {
		var zero T
		return zero, fmt.Errorf("update %s: %w", h.bind.entity, err)
	}
	if err := h.store.Save(ctx, v); err != nil {
		var zero T
		return zero, fmt.Errorf("update %s: %w", h.bind.entity, err)
	}
	h.invalidateAfterSave(id)
	return v, nil
}

func (h hook[T, F]) invalidateAfterSave(id string) {
	switch {
	case h.bind.siblings:
		h.reg.caches.InvalidateEntity(h.bind.entity)
	case id != "":
		h.reg.caches.InvalidateLists(h.bind.entity)
		h.reg.caches.InvalidateRecord(h.bind.entity, id)
	default:
		h.reg.caches.InvalidateLists(h.bind.entity)
	}
}

// Delete removes the record and invalidates lists and the record key.
// Deleting an unknown id is not an error.
func (h hook[T, F]) Delete(ctx context.Context, id string) error {
	if err := h.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", h.bind.entity, err)
	}
	h.reg.caches.InvalidateLists(h.bind.entity)
	h.reg.caches.InvalidateRecord(h.bind.entity, id)
	return nil
}

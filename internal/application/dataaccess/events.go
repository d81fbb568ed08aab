package dataaccess

import (
	"time"

	eventStore "congrega/internal/adapters/storage/event"
	"congrega/internal/domain/event"
)

// Events is the data-access hook for events, newest date first.
type Events = hook[event.Event, eventStore.ListFilter]

// Events returns the event hook.
func (r *Registry) Events() Events {
	return Events{
		reg:   r,
		store: r.stores.Events,
		bind: binding[event.Event]{
			entity: EntityEvents,
			stamp: func(e *event.Event, id string, createdAt, updatedAt time.Time) {
				e.ID, e.CreatedAt, e.UpdatedAt = id, createdAt, updatedAt
			},
			created:  func(e event.Event) time.Time { return e.CreatedAt },
			validate: (*event.Event).Validate,
		},
	}
}

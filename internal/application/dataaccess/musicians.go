package dataaccess

import (
	"time"

	musicianStore "congrega/internal/adapters/storage/musician"
	"congrega/internal/domain/musician"
)

// Musicians is the data-access hook for musicians, ordered by name.
type Musicians = hook[musician.Musician, musicianStore.ListFilter]

// Musicians returns the musician hook.
func (r *Registry) Musicians() Musicians {
	return Musicians{
		reg:   r,
		store: r.stores.Musicians,
		bind: binding[musician.Musician]{
			entity: EntityMusicians,
			stamp: func(m *musician.Musician, id string, createdAt, updatedAt time.Time) {
				m.ID, m.CreatedAt, m.UpdatedAt = id, createdAt, updatedAt
			},
			created:  func(m musician.Musician) time.Time { return m.CreatedAt },
			validate: (*musician.Musician).Validate,
		},
	}
}

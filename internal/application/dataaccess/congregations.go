package dataaccess

import (
	"time"

	congregationStore "congrega/internal/adapters/storage/congregation"
	"congrega/internal/domain/congregation"
)

// Congregations is the data-access hook for congregations, ordered by name.
type Congregations = hook[congregation.Congregation, congregationStore.ListFilter]

// Congregations returns the congregation hook.
func (r *Registry) Congregations() Congregations {
	return Congregations{
		reg:   r,
		store: r.stores.Congregations,
		bind: binding[congregation.Congregation]{
			entity: EntityCongregations,
			stamp: func(c *congregation.Congregation, id string, createdAt, updatedAt time.Time) {
				c.ID, c.CreatedAt, c.UpdatedAt = id, createdAt, updatedAt
			},
			created:  func(c congregation.Congregation) time.Time { return c.CreatedAt },
			validate: (*congregation.Congregation).Validate,
		},
	}
}

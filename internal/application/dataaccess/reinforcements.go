package dataaccess

import (
	"time"

	reinforcementStore "congrega/internal/adapters/storage/reinforcement"
	"congrega/internal/domain/reinforcement"
)

// Reinforcements is the data-access hook for collection reinforcements,
// newest date first. Saving an active reinforcement demotes the
// congregation's scheduled one and fails with ErrConflict while another is
// in progress.
type Reinforcements = hook[reinforcement.Reinforcement, reinforcementStore.ListFilter]

// Reinforcements returns the reinforcement hook.
func (r *Registry) Reinforcements() Reinforcements {
	return Reinforcements{
		reg:   r,
		store: r.stores.Reinforcements,
		bind: binding[reinforcement.Reinforcement]{
			entity: EntityReinforcements,
			stamp: func(v *reinforcement.Reinforcement, id string, createdAt, updatedAt time.Time) {
				v.ID, v.CreatedAt, v.UpdatedAt = id, createdAt, updatedAt
				if v.Status == "" {
					v.Status = reinforcement.StatusScheduled
				}
			},
			created:  func(v reinforcement.Reinforcement) time.Time { return v.CreatedAt },
			validate: (*reinforcement.Reinforcement).Validate,
			siblings: true,
		},
	}
}

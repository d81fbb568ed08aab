package dataaccess

import (
	"time"

	ministryStore "congrega/internal/adapters/storage/ministry"
	"congrega/internal/domain/ministry"
)

// MinistryMembers is the data-access hook for ministry members, ordered by name.
// The list filter's CongregationID matches the main congregation.
type MinistryMembers = hook[ministry.Member, ministryStore.ListFilter]

// MinistryMembers returns the ministry member hook.
func (r *Registry) MinistryMembers() MinistryMembers {
	return MinistryMembers{
		reg:   r,
		store: r.stores.Ministry,
		bind: binding[ministry.Member]{
			entity: EntityMinistryMembers,
			stamp: func(m *ministry.Member, id string, createdAt, updatedAt time.Time) {
				m.ID, m.CreatedAt, m.UpdatedAt = id, createdAt, updatedAt
				if !ministry.ServesMultipleCongregations(m.Role) {
					m.ServedCongregationIDs = nil
				}
			},
			created:  func(m ministry.Member) time.Time { return m.CreatedAt },
			validate: (*ministry.Member).Validate,
		},
	}
}

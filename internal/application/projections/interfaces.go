package projections

import (
	"context"

	congregationStore "congrega/internal/adapters/storage/congregation"
	eventStore "congrega/internal/adapters/storage/event"
	ministryStore "congrega/internal/adapters/storage/ministry"
	musicianStore "congrega/internal/adapters/storage/musician"
	reinforcementStore "congrega/internal/adapters/storage/reinforcement"
	"congrega/internal/domain/congregation"
	"congrega/internal/domain/event"
	"congrega/internal/domain/ministry"
	"congrega/internal/domain/musician"
	"congrega/internal/domain/reinforcement"
	"congrega/internal/domain/report"
)

// CongregationStore interface for congregation queries.
type CongregationStore interface {
	List(ctx context.Context, filter congregationStore.ListFilter) ([]congregation.Congregation, error)
}

// MemberStore interface for ministry member queries.
type MemberStore interface {
	List(ctx context.Context, filter ministryStore.ListFilter) ([]ministry.Member, error)
}

// MusicianStore interface for musician queries.
type MusicianStore interface {
	List(ctx context.Context, filter musicianStore.ListFilter) ([]musician.Musician, error)
}

// EventStore interface for event queries.
type EventStore interface {
	List(ctx context.Context, filter eventStore.ListFilter) ([]event.Event, error)
}

// ReinforcementStore interface for collection reinforcement queries.
type ReinforcementStore interface {
	List(ctx context.Context, filter reinforcementStore.ListFilter) ([]reinforcement.Reinforcement, error)
}

// ReportStore interface for generated report queries.
type ReportStore interface {
	List(ctx context.Context, limit int) ([]report.Generated, error)
}

// congregationNames maps congregation ids to names for table cells.
func congregationNames(list []congregation.Congregation) map[string]string {
	names := make(map[string]string, len(list))
	for _, c := range list {
		names[c.ID] = c.Name
	}
	return names
}

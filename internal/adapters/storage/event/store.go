package event

import (
	"context"

	domain "congrega/internal/domain/event"
)

// Store persists Event state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	Save(ctx context.Context, value domain.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
}

// ListFilter carries filtering parameters for List operations.
// Events are returned newest date first.
type ListFilter struct {
	CongregationID string
	Type           string
	From           string // inclusive YYYY-MM-DD lower bound
}

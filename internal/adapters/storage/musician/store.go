package musician

import (
	"context"

	domain "congrega/internal/domain/musician"
)

// Store persists Musician state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Musician, error)
	Save(ctx context.Context, value domain.Musician) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Musician, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	CongregationID string
	Status         string
}

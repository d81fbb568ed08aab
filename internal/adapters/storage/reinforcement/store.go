package reinforcement

import (
	"context"

	domain "congrega/internal/domain/reinforcement"
)

// Store persists collection Reinforcement state.
// At most one active (agendado or em_andamento) row exists per congregation.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Reinforcement, error)
	Save(ctx context.Context, value domain.Reinforcement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Reinforcement, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	CongregationName string
	Status           string
}

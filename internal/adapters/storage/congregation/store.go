package congregation

import (
	"context"

	domain "congrega/internal/domain/congregation"
)

// Store persists Congregation state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Congregation, error)
	Save(ctx context.Context, value domain.Congregation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Congregation, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Status string
	Limit  int
}

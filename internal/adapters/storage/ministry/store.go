package ministry

import (
	"context"

	domain "congrega/internal/domain/ministry"
)

// Store persists ministry Member state, including served congregations.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
}

// ListFilter carries filtering parameters for List operations.
// CongregationID matches the main congregation.
type ListFilter struct {
	CongregationID string
	Role           string
}

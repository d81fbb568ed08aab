package report

import (
	"context"

	domain "congrega/internal/domain/report"
)

// Store records generated report archives.
type Store interface {
	Save(ctx context.Context, value domain.Generated) error
	GetByID(ctx context.Context, id string) (domain.Generated, error)
	List(ctx context.Context, limit int) ([]domain.Generated, error)
}

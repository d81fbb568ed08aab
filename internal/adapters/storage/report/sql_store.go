package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"congrega/internal/adapters/storage"
	domain "congrega/internal/domain/report"
)

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new generated-report store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Save inserts a generated report record. Records are immutable.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Generated) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generated_reports (id, name, kind, archive_key, size_bytes, generated_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entity.ID,
		entity.Name,
		entity.Kind,
		entity.ArchiveKey,
		entity.SizeBytes,
		storage.NullString(entity.GeneratedBy),
		storage.FormatTime(entity.CreatedAt),
	)
	return err
}

const selectColumns = `SELECT id, name, kind, archive_key, size_bytes, generated_by, created_at FROM generated_reports`

// GetByID retrieves a generated report record.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Generated, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	g, err := scanGenerated(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Generated{}, fmt.Errorf("report %s: %w", id, storage.ErrNotFound)
	}
	return g, err
}

// List returns the most recent reports first.
// PRE: limit > 0
func (s *SQLStore) List(ctx context.Context, limit int) ([]domain.Generated, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Generated
	for rows.Next() {
		g, err := scanGenerated(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, g)
	}
	return results, rows.Err()
}

func scanGenerated(scan func(dest ...any) error) (domain.Generated, error) {
	var g domain.Generated
	var by sql.NullString
	var createdAt string
	if err := scan(&g.ID, &g.Name, &g.Kind, &g.ArchiveKey, &g.SizeBytes, &by, &createdAt); err != nil {
		return domain.Generated{}, err
	}
	g.GeneratedBy = by.String
	g.CreatedAt = storage.ParseTime(createdAt)
	return g, nil
}

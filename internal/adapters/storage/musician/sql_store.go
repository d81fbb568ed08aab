package musician

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"congrega/internal/adapters/storage"
	domain "congrega/internal/domain/musician"
)

const selectColumns = `SELECT id, name, email, phone, instrument, congregation_id, status,
	start_date, notes, created_at, updated_at FROM musicians`

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new musician store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Musician by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Musician, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanMusician(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Musician{}, fmt.Errorf("musician %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists a Musician (insert or full replace by id).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Musician) error {
	fields := []string{"id", "name", "email", "phone", "instrument", "congregation_id", "status",
		"start_date", "notes", "created_at", "updated_at"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"name=excluded.name",
		"email=excluded.email",
		"phone=excluded.phone",
		"instrument=excluded.instrument",
		"congregation_id=excluded.congregation_id",
		"status=excluded.status",
		"start_date=excluded.start_date",
		"notes=excluded.notes",
		"updated_at=excluded.updated_at",
	}

	query := fmt.Sprintf(
		"INSERT INTO musicians (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		storage.NullString(entity.Email),
		storage.NullString(entity.Phone),
		entity.Instrument,
		entity.CongregationID,
		entity.Status,
		storage.NullDate(entity.StartDate),
		storage.NullString(entity.Notes),
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.UpdatedAt),
	)
	return err
}

// Delete removes a Musician.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM musicians WHERE id = ?", id)
	return err
}

// List retrieves musicians ordered by name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Musician, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.CongregationID != "" {
		where += " AND congregation_id = ?"
		args = append(args, filter.CongregationID)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+where+" ORDER BY name ASC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Musician
	for rows.Next() {
		entity, err := scanMusician(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanMusician extracts a Musician from a row scanner function.
func scanMusician(scan func(dest ...any) error) (domain.Musician, error) {
	var entity domain.Musician
	var email, phone, startDate, notes sql.NullString
	var createdAt, updatedAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&email,
		&phone,
		&entity.Instrument,
		&entity.CongregationID,
		&entity.Status,
		&startDate,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Musician{}, err
	}
	entity.Email = email.String
	entity.Phone = phone.String
	entity.StartDate = storage.ParseDate(startDate)
	entity.Notes = notes.String
	entity.CreatedAt = storage.ParseTime(createdAt)
	entity.UpdatedAt = storage.ParseTime(updatedAt)
	return entity, nil
}

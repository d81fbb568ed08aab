package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"congrega/internal/adapters/storage"
	domain "congrega/internal/domain/event"
)

const selectColumns = `SELECT id, title, type, date, time, congregation_id, description,
	expected_attendees, is_recurring, created_at, updated_at FROM events`

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new event store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves an Event by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists an Event (insert or full replace by id).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Event) error {
	fields := []string{"id", "title", "type", "date", "time", "congregation_id", "description",
		"expected_attendees", "is_recurring", "created_at", "updated_at"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"title=excluded.title",
		"type=excluded.type",
		"date=excluded.date",
		"time=excluded.time",
		"congregation_id=excluded.congregation_id",
		"description=excluded.description",
		"expected_attendees=excluded.expected_attendees",
		"is_recurring=excluded.is_recurring",
		"updated_at=excluded.updated_at",
	}

	query := fmt.Sprintf(
		"INSERT INTO events (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Title,
		entity.Type,
		storage.FormatDate(entity.Date),
		entity.Time,
		entity.CongregationID,
		storage.NullString(entity.Description),
		storage.NullInt(entity.ExpectedAttendees),
		storage.BoolInt(entity.IsRecurring),
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.UpdatedAt),
	)
	return err
}

// Delete removes an Event.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	return err
}

// List retrieves events ordered by date descending, then time descending.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.CongregationID != "" {
		where += " AND congregation_id = ?"
		args = append(args, filter.CongregationID)
	}
	if filter.Type != "" {
		where += " AND type = ?"
		args = append(args, filter.Type)
	}
	if filter.From != "" {
		where += " AND date >= ?"
		args = append(args, filter.From)
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+where+" ORDER BY date DESC, time DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Event
	for rows.Next() {
		entity, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanEvent extracts an Event from a row scanner function.
func scanEvent(scan func(dest ...any) error) (domain.Event, error) {
	var entity domain.Event
	var date string
	var description sql.NullString
	var attendees sql.NullInt64
	var recurring int
	var createdAt, updatedAt string
	err := scan(
		&entity.ID,
		&entity.Title,
		&entity.Type,
		&date,
		&entity.Time,
		&entity.CongregationID,
		&description,
		&attendees,
		&recurring,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	entity.Date = storage.ParseDate(sql.NullString{String: date, Valid: true})
	entity.Description = description.String
	entity.ExpectedAttendees = int(attendees.Int64)
	entity.IsRecurring = recurring != 0
	entity.CreatedAt = storage.ParseTime(createdAt)
	entity.UpdatedAt = storage.ParseTime(updatedAt)
	return entity, nil
}

package congregation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"congrega/internal/adapters/storage"
	domain "congrega/internal/domain/congregation"
)

const selectColumns = `SELECT id, name, address, city, state, phone, responsible, capacity, status,
	sunday_morning_service, sunday_evening_service, wednesday_service,
	youth_meeting_day, youth_meeting_time, minors_meeting_day, minors_meeting_time,
	created_at, updated_at FROM congregations`

// SQLStore implements Store over SQLite or PostgreSQL.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new congregation store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Congregation by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Congregation, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanCongregation(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Congregation{}, fmt.Errorf("congregation %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists a Congregation (insert or full replace by id).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Congregation) error {
	fields := []string{
		"id", "name", "address", "city", "state", "phone", "responsible", "capacity", "status",
		"sunday_morning_service", "sunday_evening_service", "wednesday_service",
		"youth_meeting_day", "youth_meeting_time", "minors_meeting_day", "minors_meeting_time",
		"created_at", "updated_at",
	}
	placeholders := make([]string, len(fields))
	var updates []string
	for i, f := range fields {
		placeholders[i] = "?"
		if f != "id" && f != "created_at" {
			updates = append(updates, f+"=excluded."+f)
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO congregations (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	sch := entity.Schedule
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Address,
		entity.City,
		entity.State,
		storage.NullString(entity.Phone),
		entity.Responsible,
		storage.NullInt(entity.Capacity),
		entity.Status,
		storage.NullString(sch.SundayMorningService),
		storage.NullString(sch.SundayEveningService),
		storage.NullString(sch.WednesdayService),
		storage.NullString(sch.YouthMeetingDay),
		storage.NullString(sch.YouthMeetingTime),
		storage.NullString(sch.MinorsMeetingDay),
		storage.NullString(sch.MinorsMeetingTime),
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.UpdatedAt),
	)
	return err
}

// Delete removes a Congregation.
// PRE: id is non-empty
// POST: Entity with given id is removed; deleting a missing id is not an error
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM congregations WHERE id = ?", id)
	return err
}

// List retrieves congregations ordered by name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Congregation, error) {
	var b strings.Builder
	var args []any
	b.WriteString(selectColumns)
	if filter.Status != "" {
		b.WriteString(" WHERE status = ?")
		args = append(args, filter.Status)
	}
	b.WriteString(" ORDER BY name ASC")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Congregation
	for rows.Next() {
		entity, err := scanCongregation(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanCongregation extracts a Congregation from a row scanner function.
func scanCongregation(scan func(dest ...any) error) (domain.Congregation, error) {
	var entity domain.Congregation
	var phone, smorning, sevening, wed, yday, ytime, mday, mtime sql.NullString
	var capacity sql.NullInt64
	var createdAt, updatedAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Address,
		&entity.City,
		&entity.State,
		&phone,
		&entity.Responsible,
		&capacity,
		&entity.Status,
		&smorning, &sevening, &wed,
		&yday, &ytime, &mday, &mtime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Congregation{}, err
	}
	entity.Phone = phone.String
	entity.Capacity = int(capacity.Int64)
	entity.Schedule = domain.Schedule{
		SundayMorningService: smorning.String,
		SundayEveningService: sevening.String,
		WednesdayService:     wed.String,
		YouthMeetingDay:      yday.String,
		YouthMeetingTime:     ytime.String,
		MinorsMeetingDay:     mday.String,
		MinorsMeetingTime:    mtime.String,
	}
	entity.CreatedAt = storage.ParseTime(createdAt)
	entity.UpdatedAt = storage.ParseTime(updatedAt)
	return entity, nil
}

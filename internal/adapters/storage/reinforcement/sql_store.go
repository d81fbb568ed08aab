package reinforcement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"congrega/internal/adapters/storage"
	domain "congrega/internal/domain/reinforcement"
)

const selectColumns = `SELECT id, congregation_name, event_type, date, time, objective, goal,
	collected, status, notes, created_at, updated_at FROM collection_reinforcements`

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new reinforcement store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Reinforcement by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Reinforcement, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanReinforcement(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reinforcement{}, fmt.Errorf("reinforcement %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists a Reinforcement inside one transaction.
// An in-progress campaign is never displaced: saving another active
// reinforcement for the same congregation fails with storage.ErrConflict.
// A scheduled one is demoted to concluido instead.
// PRE: entity has been validated
// POST: at most one active row per congregation; no row is removed
func (s *SQLStore) Save(ctx context.Context, entity domain.Reinforcement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if entity.IsActive() {
		if err := demoteActive(ctx, tx, entity); err != nil {
			return err
		}
	}

	fields := []string{"id", "congregation_name", "event_type", "date", "time", "objective", "goal",
		"collected", "status", "notes", "created_at", "updated_at"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"congregation_name=excluded.congregation_name",
		"event_type=excluded.event_type",
		"date=excluded.date",
		"time=excluded.time",
		"objective=excluded.objective",
		"goal=excluded.goal",
		"collected=excluded.collected",
		"status=excluded.status",
		"notes=excluded.notes",
		"updated_at=excluded.updated_at",
	}
	query := fmt.Sprintf(
		"INSERT INTO collection_reinforcements (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.CongregationName,
		entity.EventType,
		storage.FormatDate(entity.Date),
		entity.Time,
		entity.Objective,
		entity.Goal,
		entity.Collected,
		entity.Status,
		storage.NullString(entity.Notes),
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.UpdatedAt),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// demoteActive makes room for entity as the congregation's active campaign.
func demoteActive(ctx context.Context, tx storage.Tx, entity domain.Reinforcement) error {
	var inProgress int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM collection_reinforcements WHERE congregation_name = ? AND id <> ? AND status = ?",
		entity.CongregationName, entity.ID, domain.StatusInProgress).Scan(&inProgress)
	if err != nil {
		return fmt.Errorf("check active reinforcement: %w", err)
	}
	if inProgress > 0 {
		slog.Warn("reinforcement_event", "event", "active_rejected",
			"congregation", entity.CongregationName, "id", entity.ID)
		return fmt.Errorf("%w: já existe um reforço em andamento para %s", storage.ErrConflict, entity.CongregationName)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE collection_reinforcements SET status = ?, updated_at = ? WHERE congregation_name = ? AND id <> ? AND status = ?",
		domain.StatusCompleted, storage.FormatTime(entity.UpdatedAt),
		entity.CongregationName, entity.ID, domain.StatusScheduled)
	if err != nil {
		return fmt.Errorf("demote scheduled reinforcement: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("reinforcement_event", "event", "scheduled_demoted",
			"congregation", entity.CongregationName, "demoted", n, "id", entity.ID)
	}
	return nil
}

// Delete removes a Reinforcement.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM collection_reinforcements WHERE id = ?", id)
	return err
}

// List retrieves reinforcements ordered by date descending.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Reinforcement, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.CongregationName != "" {
		where += " AND congregation_name = ?"
		args = append(args, filter.CongregationName)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+where+" ORDER BY date DESC, created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Reinforcement
	for rows.Next() {
		entity, err := scanReinforcement(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanReinforcement extracts a Reinforcement from a row scanner function.
func scanReinforcement(scan func(dest ...any) error) (domain.Reinforcement, error) {
	var entity domain.Reinforcement
	var date string
	var notes sql.NullString
	var createdAt, updatedAt string
	err := scan(
		&entity.ID,
		&entity.CongregationName,
		&entity.EventType,
		&date,
		&entity.Time,
		&entity.Objective,
		&entity.Goal,
		&entity.Collected,
		&entity.Status,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Reinforcement{}, err
	}
	entity.Date = storage.ParseDate(sql.NullString{String: date, Valid: true})
	entity.Notes = notes.String
	entity.CreatedAt = storage.ParseTime(createdAt)
	entity.UpdatedAt = storage.ParseTime(updatedAt)
	return entity, nil
}

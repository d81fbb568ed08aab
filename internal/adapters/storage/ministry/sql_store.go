package ministry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"congrega/internal/adapters/storage"
	domain "congrega/internal/domain/ministry"
)

const selectColumns = `SELECT id, name, role, main_congregation_id, ordination_date, ordained_by,
	phone, email, notes, created_at, updated_at FROM ministry_members`

// SQLStore implements Store. Served congregations live in
// ministry_member_congregations and are rewritten on every Save.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new ministry member store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Member and its served congregations.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanMember(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("ministry member %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Member{}, err
	}
	served, err := s.servedBy(ctx, []string{id})
	if err != nil {
		return domain.Member{}, err
	}
	entity.ServedCongregationIDs = served[id]
	return entity, nil
}

// Save upserts the member row and replaces its served congregations in one transaction.
// PRE: entity has been validated
// POST: Member row and join rows reflect entity exactly
func (s *SQLStore) Save(ctx context.Context, entity domain.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := []string{"id", "name", "role", "main_congregation_id", "ordination_date", "ordained_by",
		"phone", "email", "notes", "created_at", "updated_at"}
	placeholders := make([]string, len(fields))
	var updates []string
	for i, f := range fields {
		placeholders[i] = "?"
		if f != "id" && f != "created_at" {
			updates = append(updates, f+"=excluded."+f)
		}
	}
	query := fmt.Sprintf(
		"INSERT INTO ministry_members (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Role,
		entity.MainCongregationID,
		storage.FormatDate(entity.OrdinationDate),
		entity.OrdainedBy,
		storage.NullString(entity.Phone),
		storage.NullString(entity.Email),
		storage.NullString(entity.Notes),
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM ministry_member_congregations WHERE member_id = ?", entity.ID); err != nil {
		return err
	}
	seen := make(map[string]bool, len(entity.ServedCongregationIDs))
	pos := 0
	for _, cid := range entity.ServedCongregationIDs {
		if cid == "" || seen[cid] {
			continue
		}
		seen[cid] = true
		_, err := tx.ExecContext(ctx,
			"INSERT INTO ministry_member_congregations (member_id, congregation_id, position) VALUES (?, ?, ?)",
			entity.ID, cid, pos)
		if err != nil {
			return fmt.Errorf("served congregation %s: %w", cid, err)
		}
		pos++
	}

	return tx.Commit()
}

// Delete removes a Member together with its served-congregation rows.
// PRE: id is non-empty
// POST: No row references id
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM ministry_member_congregations WHERE member_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM ministry_members WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves members ordered by name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.CongregationID != "" {
		where += " AND main_congregation_id = ?"
		args = append(args, filter.CongregationID)
	}
	if filter.Role != "" {
		where += " AND role = ?"
		args = append(args, filter.Role)
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+where+" ORDER BY name ASC", args...)
	if err != nil {
		return nil, err
	}
	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, err
		}
		results = append(results, entity)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return results, nil
	}

	ids := make([]string, len(results))
	for i, m := range results {
		ids[i] = m.ID
	}
	served, err := s.servedBy(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].ServedCongregationIDs = served[results[i].ID]
	}
	return results, nil
}

// servedBy loads served congregation ids for the given members, keyed by member id.
func (s *SQLStore) servedBy(ctx context.Context, memberIDs []string) (map[string][]string, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(memberIDs)), ", ")
	args := make([]any, len(memberIDs))
	for i, id := range memberIDs {
		args[i] = id
	}
	query := "SELECT member_id, congregation_id FROM ministry_member_congregations WHERE member_id IN (" +
		placeholders + ") ORDER BY member_id, position"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var memberID, congregationID string
		if err := rows.Scan(&memberID, &congregationID); err != nil {
			return nil, err
		}
		out[memberID] = append(out[memberID], congregationID)
	}
	return out, rows.Err()
}

// scanMember extracts a Member from a row scanner function.
func scanMember(scan func(dest ...any) error) (domain.Member, error) {
	var entity domain.Member
	var ordination string
	var phone, email, notes sql.NullString
	var createdAt, updatedAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Role,
		&entity.MainCongregationID,
		&ordination,
		&entity.OrdainedBy,
		&phone,
		&email,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Member{}, err
	}
	entity.OrdinationDate = storage.ParseDate(sql.NullString{String: ordination, Valid: true})
	entity.Phone = phone.String
	entity.Email = email.String
	entity.Notes = notes.String
	entity.CreatedAt = storage.ParseTime(createdAt)
	entity.UpdatedAt = storage.ParseTime(updatedAt)
	return entity, nil
}

package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"congrega/internal/application/forms"
)

// RecordDeleter is the delete half of a data-access hook.
type RecordDeleter interface {
	Delete(ctx context.Context, id string) error
}

// DeleteRecordInput carries input for DeleteRecord.
type DeleteRecordInput struct {
	ID string
	// Label names the record in the toast, e.g. "Congregação".
	Label string
}

// DeleteRecordDeps holds dependencies for DeleteRecord.
type DeleteRecordDeps struct {
	Records RecordDeleter
}

// ErrMissingID is returned when a delete is posted without an id.
var ErrMissingID = errors.New("id is required")

// ExecuteDeleteRecord removes one record and returns the toast to show.
// PRE: ID is non-empty
// POST: the record is gone and cached lists of its entity are invalidated
func ExecuteDeleteRecord(ctx context.Context, input DeleteRecordInput, deps DeleteRecordDeps) (forms.Notice, error) {
	if input.ID == "" {
		return forms.Notice{}, ErrMissingID
	}
	if err := deps.Records.Delete(ctx, input.ID); err != nil {
		slog.Warn("form_event", "event", "delete_failed", "label", input.Label, "id", input.ID, "error", err)
		return forms.Notice{Title: "Erro ao remover", Description: err.Error(), Error: true}, err
	}
	slog.Info("form_event", "event", "record_deleted", "label", input.Label, "id", input.ID)
	return forms.Notice{Title: input.Label + " removido(a)", Description: "O registro foi excluído."}, nil
}

package orchestrators

import (
	"context"
	"log/slog"

	"congrega/internal/application/forms"
)

// recordWriter is the write half of a data-access hook.
type recordWriter[T any] interface {
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id string, v T) (T, error)
}

// submitTexts holds the toast texts of one form.
type submitTexts[T any] struct {
	entity  string
	created func(T) (title, description string)
	updated func(T) (title, description string)
	failed  string
}

// submit runs the form lifecycle once: validate, then create (id == "") or
// update in place. Invalid input never reaches the writer.
func submit[T any](ctx context.Context, id string, input any, build func() T, w recordWriter[T], texts submitTexts[T]) forms.Outcome[T] {
	if errs := forms.Validate(input); errs != nil {
		slog.Debug("form_event", "event", "submit_invalid", "entity", texts.entity, "fields", len(errs))
		return forms.Invalid[T](errs)
	}

	var (
		saved T
		err   error
	)
	if id == "" {
		saved, err = w.Create(ctx, build())
	} else {
		saved, err = w.Update(ctx, id, build())
	}
	if err != nil {
		slog.Warn("form_event", "event", "submit_failed", "entity", texts.entity, "id", id, "error", err)
		return forms.Failed[T](texts.failed, err)
	}

	title, description := texts.created(saved)
	action := "created"
	if id != "" {
		title, description = texts.updated(saved)
		action = "updated"
	}
	slog.Info("form_event", "event", "record_"+action, "entity", texts.entity)
	return forms.Succeeded(saved, title, description)
}

// SubmitInput carries a decoded form and the id being edited ("" to create).
type SubmitInput[F any] struct {
	ID   string
	Form F
}

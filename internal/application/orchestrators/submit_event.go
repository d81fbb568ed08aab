package orchestrators

import (
	"context"

	"congrega/internal/application/forms"
	"congrega/internal/domain/event"
)

// SubmitEventDeps holds dependencies for SubmitEvent.
type SubmitEventDeps struct {
	Events recordWriter[event.Event]
}

// ExecuteSubmitEvent validates and saves the event form.
func ExecuteSubmitEvent(ctx context.Context, input SubmitInput[forms.EventInput], deps SubmitEventDeps) forms.Outcome[event.Event] {
	return submit(ctx, input.ID, input.Form, input.Form.Event, deps.Events, submitTexts[event.Event]{
		entity: "event",
		created: func(e event.Event) (string, string) {
			return "Evento agendado!", e.Title + " foi criado para " + e.Date.Format("02/01/2006") + "."
		},
		updated: func(e event.Event) (string, string) {
			return "Evento atualizado!", e.Title + " foi atualizado."
		},
		failed: "Erro ao agendar evento",
	})
}

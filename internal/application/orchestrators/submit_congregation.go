package orchestrators

import (
	"context"

	"congrega/internal/application/forms"
	"congrega/internal/domain/congregation"
)

// SubmitCongregationDeps holds dependencies for SubmitCongregation.
type SubmitCongregationDeps struct {
	Congregations recordWriter[congregation.Congregation]
}

// ExecuteSubmitCongregation validates and saves the congregation form.
// PRE: input.Form was decoded from the posted values
// POST: Success stores exactly one record; Invalid and Failed store nothing
func ExecuteSubmitCongregation(ctx context.Context, input SubmitInput[forms.CongregationInput], deps SubmitCongregationDeps) forms.Outcome[congregation.Congregation] {
	return submit(ctx, input.ID, input.Form, input.Form.Congregation, deps.Congregations, submitTexts[congregation.Congregation]{
		entity: "congregation",
		created: func(c congregation.Congregation) (string, string) {
			return "Congregação cadastrada!", c.Name + " foi adicionada com sucesso."
		},
		updated: func(c congregation.Congregation) (string, string) {
			return "Congregação atualizada!", c.Name + " foi atualizada com sucesso."
		},
		failed: "Erro ao salvar congregação",
	})
}

package orchestrators

import (
	"context"

	"congrega/internal/application/forms"
	"congrega/internal/domain/reinforcement"
)

// SubmitReinforcementDeps holds dependencies for SubmitReinforcement.
type SubmitReinforcementDeps struct {
	Reinforcements recordWriter[reinforcement.Reinforcement]
}

// ExecuteSubmitReinforcement validates and saves the collection reinforcement form.
// POST: on Success an active reinforcement is the only active one of its congregation
func ExecuteSubmitReinforcement(ctx context.Context, input SubmitInput[forms.ReinforcementInput], deps SubmitReinforcementDeps) forms.Outcome[reinforcement.Reinforcement] {
	return submit(ctx, input.ID, input.Form, input.Form.Reinforcement, deps.Reinforcements, submitTexts[reinforcement.Reinforcement]{
		entity: "reinforcement",
		created: func(r reinforcement.Reinforcement) (string, string) {
			return "Reforço de coleta agendado!", "Agendamento para " + r.CongregationName + " criado com sucesso."
		},
		updated: func(r reinforcement.Reinforcement) (string, string) {
			return "Reforço de coleta atualizado!", "Agendamento para " + r.CongregationName + " atualizado."
		},
		failed: "Erro ao salvar reforço de coleta",
	})
}

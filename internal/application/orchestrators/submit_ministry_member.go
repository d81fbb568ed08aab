package orchestrators

import (
	"context"

	"congrega/internal/application/forms"
	"congrega/internal/domain/ministry"
)

// SubmitMinistryMemberDeps holds dependencies for SubmitMinistryMember.
type SubmitMinistryMemberDeps struct {
	Members recordWriter[ministry.Member]
}

// ExecuteSubmitMinistryMember validates and saves the ministry member form.
// Served congregations are kept only for elders and deacons.
func ExecuteSubmitMinistryMember(ctx context.Context, input SubmitInput[forms.MinistryMemberInput], deps SubmitMinistryMemberDeps) forms.Outcome[ministry.Member] {
	return submit(ctx, input.ID, input.Form, input.Form.Member, deps.Members, submitTexts[ministry.Member]{
		entity: "ministry_member",
		created: func(m ministry.Member) (string, string) {
			return "Membro cadastrado!", m.RoleLabel() + " " + m.Name + " foi adicionado com sucesso."
		},
		updated: func(m ministry.Member) (string, string) {
			return "Membro atualizado!", m.RoleLabel() + " " + m.Name + " foi atualizado com sucesso."
		},
		failed: "Erro ao salvar membro",
	})
}

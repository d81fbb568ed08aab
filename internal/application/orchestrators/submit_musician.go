package orchestrators

import (
	"context"

	"congrega/internal/application/forms"
	"congrega/internal/domain/musician"
)

// SubmitMusicianDeps holds dependencies for SubmitMusician.
type SubmitMusicianDeps struct {
	Musicians recordWriter[musician.Musician]
}

// ExecuteSubmitMusician validates and saves the musician form.
func ExecuteSubmitMusician(ctx context.Context, input SubmitInput[forms.MusicianInput], deps SubmitMusicianDeps) forms.Outcome[musician.Musician] {
	return submit(ctx, input.ID, input.Form, input.Form.Musician, deps.Musicians, submitTexts[musician.Musician]{
		entity: "musician",
		created: func(m musician.Musician) (string, string) {
			return "Músico cadastrado!", m.Name + " foi adicionado com sucesso."
		},
		updated: func(m musician.Musician) (string, string) {
			return "Músico atualizado!", m.Name + " foi atualizado com sucesso."
		},
		failed: "Erro ao cadastrar músico",
	})
}

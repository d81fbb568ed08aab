package web

import (
	"context"
	"net/http"

	congregationStore "congrega/internal/adapters/storage/congregation"
	eventStore "congrega/internal/adapters/storage/event"
	ministryStore "congrega/internal/adapters/storage/ministry"
	musicianStore "congrega/internal/adapters/storage/musician"
	reinforcementStore "congrega/internal/adapters/storage/reinforcement"
	"congrega/internal/application/forms"
	"congrega/internal/application/listutil"
	"congrega/internal/application/orchestrators"
	"congrega/internal/application/projections"
	"congrega/internal/domain/congregation"
	"congrega/internal/domain/event"
	"congrega/internal/domain/ministry"
	"congrega/internal/domain/musician"
	"congrega/internal/domain/reinforcement"
)

func (s *server) congregations() resource[congregation.Congregation, forms.CongregationInput] {
	hook := s.Registry.Congregations()
	return resource[congregation.Congregation, forms.CongregationInput]{
		path:  "/congregacoes",
		api:   "/api/congregations",
		title: "Congregações",
		label: "Congregação",
		page:  "congregations.html",
		hook:  hook,
		list: func(ctx context.Context) ([]congregation.Congregation, error) {
			return hook.List(ctx, congregationStore.ListFilter{})
		},
		view: func(r *http.Request) (any, error) {
			return projections.QueryGetCongregations(r.Context(), projections.GetCongregationsQuery{
				Status: r.URL.Query().Get("status"),
			}, projections.GetCongregationsDeps{CongregationStore: hook})
		},
		decode: forms.DecodeCongregation,
		blank:  forms.NewCongregationInput,
		from:   forms.CongregationInputFrom,
		submit: func(ctx context.Context, id string, form forms.CongregationInput) forms.Outcome[congregation.Congregation] {
			return orchestrators.ExecuteSubmitCongregation(ctx,
				orchestrators.SubmitInput[forms.CongregationInput]{ID: id, Form: form},
				orchestrators.SubmitCongregationDeps{Congregations: hook})
		},
	}
}

func (s *server) ministry() resource[ministry.Member, forms.MinistryMemberInput] {
	hook := s.Registry.MinistryMembers()
	return resource[ministry.Member, forms.MinistryMemberInput]{
		path:  "/ministerio",
		api:   "/api/ministry-members",
		title: "Ministério",
		label: "Membro do ministério",
		page:  "ministry.html",
		hook:  hook,
		list: func(ctx context.Context) ([]ministry.Member, error) {
			return hook.List(ctx, ministryStore.ListFilter{})
		},
		view: func(r *http.Request) (any, error) {
			q := r.URL.Query()
			return projections.QueryGetMinistry(r.Context(), projections.GetMinistryQuery{
				Tab:            q.Get("aba"),
				CongregationID: q.Get("congregacao"),
			}, projections.GetMinistryDeps{
				CongregationStore: s.Registry.Congregations(),
				MemberStore:       hook,
			})
		},
		decode: forms.DecodeMinistryMember,
		blank:  forms.NewMinistryMemberInput,
		from:   forms.MinistryMemberInputFrom,
		fields: func(form forms.MinistryMemberInput) []string {
			return forms.VisibleFields(form.Role)
		},
		submit: func(ctx context.Context, id string, form forms.MinistryMemberInput) forms.Outcome[ministry.Member] {
			return orchestrators.ExecuteSubmitMinistryMember(ctx,
				orchestrators.SubmitInput[forms.MinistryMemberInput]{ID: id, Form: form},
				orchestrators.SubmitMinistryMemberDeps{Members: hook})
		},
	}
}

func (s *server) musicians() resource[musician.Musician, forms.MusicianInput] {
	hook := s.Registry.Musicians()
	return resource[musician.Musician, forms.MusicianInput]{
		path:  "/musical",
		api:   "/api/musicians",
		title: "Musical",
		label: "Músico",
		page:  "musicians.html",
		hook:  hook,
		list: func(ctx context.Context) ([]musician.Musician, error) {
			return hook.List(ctx, musicianStore.ListFilter{})
		},
		view: func(r *http.Request) (any, error) {
			q := r.URL.Query()
			return projections.QueryGetMusicians(r.Context(), projections.GetMusiciansQuery{
				Search: q.Get("q"),
				Status: q.Get("status"),
				Now:    s.Now(),
				Page:   listutil.ParsePageParams(q),
			}, projections.GetMusiciansDeps{
				CongregationStore: s.Registry.Congregations(),
				MusicianStore:     hook,
				EventStore:        s.Registry.Events(),
			})
		},
		decode: forms.DecodeMusician,
		blank:  forms.NewMusicianInput,
		from:   forms.MusicianInputFrom,
		submit: func(ctx context.Context, id string, form forms.MusicianInput) forms.Outcome[musician.Musician] {
			return orchestrators.ExecuteSubmitMusician(ctx,
				orchestrators.SubmitInput[forms.MusicianInput]{ID: id, Form: form},
				orchestrators.SubmitMusicianDeps{Musicians: hook})
		},
	}
}

func (s *server) events() resource[event.Event, forms.EventInput] {
	hook := s.Registry.Events()
	return resource[event.Event, forms.EventInput]{
		path:  "/agendamentos",
		api:   "/api/events",
		title: "Agendamentos",
		label: "Agendamento",
		page:  "events.html",
		hook:  hook,
		list: func(ctx context.Context) ([]event.Event, error) {
			return hook.List(ctx, eventStore.ListFilter{})
		},
		view: func(r *http.Request) (any, error) {
			return s.queryEvents(r, r.URL.Query().Get("tipo"))
		},
		decode: forms.DecodeEvent,
		blank:  forms.NewEventInput,
		from:   forms.EventInputFrom,
		submit: func(ctx context.Context, id string, form forms.EventInput) forms.Outcome[event.Event] {
			return orchestrators.ExecuteSubmitEvent(ctx,
				orchestrators.SubmitInput[forms.EventInput]{ID: id, Form: form},
				orchestrators.SubmitEventDeps{Events: hook})
		},
	}
}

func (s *server) queryEvents(r *http.Request, eventType string) (projections.GetEventsResult, error) {
	return projections.QueryGetEvents(r.Context(), projections.GetEventsQuery{
		CongregationID: r.URL.Query().Get("congregacao"),
		Type:           eventType,
		Now:            s.Now(),
	}, projections.GetEventsDeps{
		CongregationStore: s.Registry.Congregations(),
		EventStore:        s.Registry.Events(),
	})
}

func (s *server) reinforcements() resource[reinforcement.Reinforcement, forms.ReinforcementInput] {
	hook := s.Registry.Reinforcements()
	return resource[reinforcement.Reinforcement, forms.ReinforcementInput]{
		path:  "/reforcos-coletas",
		api:   "/api/reinforcements",
		title: "Reforços de Coletas",
		label: "Reforço de coleta",
		page:  "reinforcements.html",
		hook:  hook,
		list: func(ctx context.Context) ([]reinforcement.Reinforcement, error) {
			return hook.List(ctx, reinforcementStore.ListFilter{})
		},
		view: func(r *http.Request) (any, error) {
			return projections.QueryGetReinforcements(r.Context(), projections.GetReinforcementsQuery{
				Tab: r.URL.Query().Get("aba"),
			}, projections.GetReinforcementsDeps{ReinforcementStore: hook})
		},
		decode: forms.DecodeReinforcement,
		blank:  forms.NewReinforcementInput,
		from:   forms.ReinforcementInputFrom,
		submit: func(ctx context.Context, id string, form forms.ReinforcementInput) forms.Outcome[reinforcement.Reinforcement] {
			return orchestrators.ExecuteSubmitReinforcement(ctx,
				orchestrators.SubmitInput[forms.ReinforcementInput]{ID: id, Form: form},
				orchestrators.SubmitReinforcementDeps{Reinforcements: hook})
		},
	}
}

// handleEBI handles GET /ebi: the classes (events of type ebi).
func (s *server) handleEBI(w http.ResponseWriter, r *http.Request) {
	result, err := s.queryEvents(r, event.TypeClass)
	if err != nil {
		internalError(w, err)
		return
	}
	s.render(w, r, http.StatusOK, "ebi.html", pageData{Title: "EBI", Active: "/ebi", Page: result})
}

// handleDashboard handles GET /
func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		Now: s.Now(),
	}, projections.GetDashboardDeps{
		CongregationStore:  s.Registry.Congregations(),
		MemberStore:        s.Registry.MinistryMembers(),
		MusicianStore:      s.Registry.Musicians(),
		EventStore:         s.Registry.Events(),
		ReinforcementStore: s.Registry.Reinforcements(),
	})
	if err != nil {
		internalError(w, err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard.html", pageData{Title: "Dashboard", Active: "/", Page: result})
}

// roster is one duty roster or volunteer list shown on /listas.
type roster struct {
	Name   string
	Kind   string
	People int
}

// rosters is the fixed catalogue of lists kept by the administration.
var rosters = []roster{
	{"Escala de Porteiros", "Escala", 24},
	{"Lista de Batismo", "Cerimônia", 15},
	{"Escala de Organistas", "Escala", 8},
	{"Voluntários - Santa Ceia", "Voluntários", 32},
	{"Escala de Limpeza", "Escala", 16},
	{"Lista de Atendimento", "Atendimento", 12},
}

type listsPage struct {
	Rosters []roster
	Kinds   int
	People  int
}

// handleLists handles GET /listas: duty rosters and volunteer lists.
func (s *server) handleLists(w http.ResponseWriter, r *http.Request) {
	page := listsPage{Rosters: rosters}
	kinds := map[string]bool{}
	for _, l := range rosters {
		page.People += l.People
		kinds[l.Kind] = true
	}
	page.Kinds = len(kinds)
	s.render(w, r, http.StatusOK, "listas.html", pageData{Title: "Listas", Active: "/listas", Page: page})
}

package web

import (
	"congrega/internal/domain/congregation"
	"congrega/internal/domain/event"
	"congrega/internal/domain/ministry"
	"congrega/internal/domain/musician"
	"congrega/internal/domain/reinforcement"
	"congrega/internal/domain/report"
)

type option struct {
	Value string
	Label string
}

// formOptions holds the fixed choices of every select on the dashboard.
type formOptions struct {
	CongregationStatuses    []option
	MinistryRoles           []option
	MusicianStatuses        []option
	Instruments             []option
	EventTypes              []option
	ReinforcementEventTypes []option
	ReinforcementStatuses   []option
	ReportKinds             []option
	States                  []option
	Weekdays                []option
}

var options = formOptions{
	CongregationStatuses:    labelled(congregation.ValidStatuses, congregation.StatusLabels),
	MinistryRoles:           labelled(ministry.ValidRoles, ministry.RoleLabels),
	MusicianStatuses:        labelled(musician.ValidStatuses, musician.StatusLabels),
	Instruments:             plain(musician.Instruments),
	EventTypes:              labelled(event.ValidTypes, event.TypeLabels),
	ReinforcementEventTypes: labelled([]string{reinforcement.EventOfficialService, reinforcement.EventYouthMeeting}, reinforcement.EventTypeLabels),
	ReinforcementStatuses:   labelled(reinforcement.ValidStatuses, reinforcement.StatusLabels),
	ReportKinds:             labelled([]string{report.KindMonthly, report.KindQuarterly, report.KindSnapshot}, report.KindLabels),
	States: plain([]string{
		"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG", "PA",
		"PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
	}),
	Weekdays: plain([]string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}),
}

func labelled(values []string, labels map[string]string) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{Value: v, Label: labels[v]}
	}
	return out
}

func plain(values []string) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{Value: v, Label: v}
	}
	return out
}

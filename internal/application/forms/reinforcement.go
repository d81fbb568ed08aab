package forms

import (
	"net/url"
	"strings"
	"time"

	"congrega/internal/domain/reinforcement"
)

// ReinforcementInput is the posted collection reinforcement form.
// Amounts are typed as shown to users, e.g. "1.500,00".
type ReinforcementInput struct {
	CongregationName string `form:"congregation_name" validate:"required,max=100"`
	EventType        string `form:"event_type" validate:"required,oneof=culto_oficial rjm"`
	Date             string `form:"date" validate:"required,datetime=2006-01-02"`
	Time             string `form:"time" validate:"required,hhmm"`
	Objective        string `form:"objective" validate:"required,min=3,max=200"`
	Goal             string `form:"goal" validate:"required,amount"`
	Collected        string `form:"collected" validate:"omitempty,amount0"`
	Status           string `form:"status" validate:"omitempty,oneof=agendado em_andamento concluido"`
	Notes            string `form:"notes" validate:"max=500"`
}

// DecodeReinforcement reads a ReinforcementInput from posted values.
func DecodeReinforcement(v url.Values) ReinforcementInput {
	return ReinforcementInput{
		CongregationName: value(v, "congregation_name"),
		EventType:        value(v, "event_type"),
		Date:             value(v, "date"),
		Time:             value(v, "time"),
		Objective:        value(v, "objective"),
		Goal:             value(v, "goal"),
		Collected:        value(v, "collected"),
		Status:           value(v, "status"),
		Notes:            value(v, "notes"),
	}
}

// NewReinforcementInput returns the defaults of an empty create form.
func NewReinforcementInput() ReinforcementInput {
	return ReinforcementInput{Status: reinforcement.StatusScheduled}
}

// ReinforcementInputFrom pre-populates the edit form from r.
func ReinforcementInputFrom(r reinforcement.Reinforcement) ReinforcementInput {
	in := ReinforcementInput{
		CongregationName: r.CongregationName,
		EventType:        r.EventType,
		Time:             r.Time,
		Objective:        r.Objective,
		Goal:             plainAmount(r.Goal),
		Collected:        plainAmount(r.Collected),
		Status:           r.Status,
		Notes:            r.Notes,
	}
	if !r.Date.IsZero() {
		in.Date = r.Date.Format(time.DateOnly)
	}
	return in
}

// Reinforcement converts a validated input into the domain record.
// Collected defaults to zero and Status to agendado.
// PRE: Validate(in) returned nil
func (in ReinforcementInput) Reinforcement() reinforcement.Reinforcement {
	date, _ := time.Parse(time.DateOnly, in.Date)
	goal, _ := reinforcement.ParseAmount(in.Goal)
	var collected int64
	if in.Collected != "" {
		collected, _ = reinforcement.ParseAmount(in.Collected)
	}
	status := in.Status
	if status == "" {
		status = reinforcement.StatusScheduled
	}
	return reinforcement.Reinforcement{
		CongregationName: in.CongregationName,
		EventType:        in.EventType,
		Date:             date,
		Time:             in.Time,
		Objective:        in.Objective,
		Goal:             goal,
		Collected:        collected,
		Status:           status,
		Notes:            in.Notes,
	}
}

// plainAmount renders cents as "1500,00", which ParseAmount reads back.
func plainAmount(cents int64) string {
	s := reinforcement.FormatBRL(cents)
	s = strings.TrimPrefix(s, "R$ ")
	return strings.ReplaceAll(s, ".", "")
}

package forms

import (
	"net/url"
	"strconv"
	"time"

	"congrega/internal/domain/event"
)

// EventInput is the posted event form.
type EventInput struct {
	Title             string `form:"title" validate:"required,min=3,max=100"`
	Type              string `form:"type" validate:"required,oneof=culto ensaio reuniao cerimonia ebi outro"`
	Date              string `form:"date" validate:"required,datetime=2006-01-02"`
	Time              string `form:"time" validate:"required,hhmm"`
	CongregationID    string `form:"congregation_id" validate:"required"`
	Description       string `form:"description" validate:"max=500"`
	ExpectedAttendees string `form:"expected_attendees" validate:"omitempty,number,intgte=1"`
	IsRecurring       bool   `form:"is_recurring"`
}

// DecodeEvent reads an EventInput from posted values.
func DecodeEvent(v url.Values) EventInput {
	return EventInput{
		Title:             value(v, "title"),
		Type:              value(v, "type"),
		Date:              value(v, "date"),
		Time:              value(v, "time"),
		CongregationID:    value(v, "congregation_id"),
		Description:       value(v, "description"),
		ExpectedAttendees: value(v, "expected_attendees"),
		IsRecurring:       checked(v, "is_recurring"),
	}
}

// NewEventInput returns the defaults of an empty create form.
func NewEventInput() EventInput {
	return EventInput{Type: event.TypeService}
}

// EventInputFrom pre-populates the edit form from e.
func EventInputFrom(e event.Event) EventInput {
	in := EventInput{
		Title:          e.Title,
		Type:           e.Type,
		Time:           e.Time,
		CongregationID: e.CongregationID,
		Description:    e.Description,
		IsRecurring:    e.IsRecurring,
	}
	if !e.Date.IsZero() {
		in.Date = e.Date.Format(event.DateLayout)
	}
	if e.ExpectedAttendees > 0 {
		in.ExpectedAttendees = strconv.Itoa(e.ExpectedAttendees)
	}
	return in
}

// Event converts a validated input into the domain record.
// PRE: Validate(in) returned nil
func (in EventInput) Event() event.Event {
	date, _ := time.Parse(event.DateLayout, in.Date)
	attendees, _ := strconv.Atoi(in.ExpectedAttendees)
	return event.Event{
		Title:             in.Title,
		Type:              in.Type,
		Date:              date,
		Time:              in.Time,
		CongregationID:    in.CongregationID,
		Description:       in.Description,
		ExpectedAttendees: attendees,
		IsRecurring:       in.IsRecurring,
	}
}

package event

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Type constants
const (
	TypeService  = "culto"
	TypeRehearse = "ensaio"
	TypeMeeting  = "reuniao"
	TypeCeremony = "cerimonia"
	TypeClass    = "ebi"
	TypeOther    = "outro"
)

// DateLayout is the storage and form layout of event dates.
const DateLayout = "2006-01-02"

// ValidTypes lists event types in display order.
var ValidTypes = []string{TypeService, TypeRehearse, TypeMeeting, TypeCeremony, TypeClass, TypeOther}

// TypeLabels maps a type to its display label.
var TypeLabels = map[string]string{
	TypeService:  "Culto",
	TypeRehearse: "Ensaio",
	TypeMeeting:  "Reunião",
	TypeCeremony: "Cerimônia",
	TypeClass:    "EBI",
	TypeOther:    "Outro",
}

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Domain errors
var (
	ErrEmptyTitle          = errors.New("event title cannot be empty")
	ErrInvalidType         = errors.New("event type is not recognised")
	ErrMissingDate         = errors.New("event date is required")
	ErrInvalidTime         = errors.New("event time must be HH:MM")
	ErrMissingCongregation = errors.New("congregation is required")
	ErrInvalidAttendees    = errors.New("expected attendees must be positive")
)

// Event is a scheduled service, rehearsal, meeting or ceremony.
type Event struct {
	ID                string
	Title             string
	Type              string
	Date              time.Time
	Time              string // HH:MM
	CongregationID    string
	Description       string
	ExpectedAttendees int // 0 means unknown
	IsRecurring       bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the Event invariants.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if _, ok := TypeLabels[e.Type]; !ok {
		return ErrInvalidType
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	if !IsValidTime(e.Time) {
		return ErrInvalidTime
	}
	if e.CongregationID == "" {
		return ErrMissingCongregation
	}
	if e.ExpectedAttendees < 0 {
		return ErrInvalidAttendees
	}
	return nil
}

// TypeLabel returns the display label of the event type.
func (e *Event) TypeLabel() string {
	if l, ok := TypeLabels[e.Type]; ok {
		return l
	}
	return e.Type
}

// IsUpcoming reports whether the event happens on or after the given day.
func (e *Event) IsUpcoming(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !e.Date.Before(today)
}

// IsValidTime reports whether s is a 24h HH:MM time of day.
func IsValidTime(s string) bool {
	return timeOfDay.MatchString(s)
}

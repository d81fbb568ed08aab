package forms

import (
	"net/url"
	"time"

	"congrega/internal/domain/musician"
)

// MusicianInput is the posted musician form.
type MusicianInput struct {
	Name           string `form:"name" validate:"required,min=3,max=100"`
	Email          string `form:"email" validate:"omitempty,email"`
	Phone          string `form:"phone" validate:"omitempty,min=10,max=15"`
	Instrument     string `form:"instrument" validate:"required,instrument"`
	CongregationID string `form:"congregation_id" validate:"required"`
	Status         string `form:"status" validate:"required,oneof=ativo em_formacao inativo"`
	StartDate      string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          string `form:"notes" validate:"max=500"`
}

// DecodeMusician reads a MusicianInput from posted values.
func DecodeMusician(v url.Values) MusicianInput {
	return MusicianInput{
		Name:           value(v, "name"),
		Email:          value(v, "email"),
		Phone:          value(v, "phone"),
		Instrument:     value(v, "instrument"),
		CongregationID: value(v, "congregation_id"),
		Status:         value(v, "status"),
		StartDate:      value(v, "start_date"),
		Notes:          value(v, "notes"),
	}
}

// NewMusicianInput returns the defaults of an empty create form.
func NewMusicianInput() MusicianInput {
	return MusicianInput{Status: musician.StatusActive}
}

// MusicianInputFrom pre-populates the edit form from m.
func MusicianInputFrom(m musician.Musician) MusicianInput {
	in := MusicianInput{
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		Instrument:     m.Instrument,
		CongregationID: m.CongregationID,
		Status:         m.Status,
		Notes:          m.Notes,
	}
	if !m.StartDate.IsZero() {
		in.StartDate = m.StartDate.Format(time.DateOnly)
	}
	return in
}

// Musician converts a validated input into the domain record.
// PRE: Validate(in) returned nil
func (in MusicianInput) Musician() musician.Musician {
	start, _ := time.Parse(time.DateOnly, in.StartDate)
	return musician.Musician{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Instrument:     in.Instrument,
		CongregationID: in.CongregationID,
		Status:         in.Status,
		StartDate:      start,
		Notes:          in.Notes,
	}
}

package forms

import (
	"net/url"
	"slices"
	"time"

	"congrega/internal/domain/ministry"
)

// Ministry member form field names.
const (
	FieldName                = "name"
	FieldRole                = "role"
	FieldOrdinationDate      = "ordination_date"
	FieldOrdainedBy          = "ordained_by"
	FieldMainCongregation    = "main_congregation_id"
	FieldServedCongregations = "served_congregations"
	FieldPhone               = "phone"
	FieldEmail               = "email"
	FieldNotes               = "notes"
)

var ministryFields = []string{
	FieldName, FieldRole, FieldOrdinationDate, FieldOrdainedBy,
	FieldMainCongregation, FieldServedCongregations,
	FieldPhone, FieldEmail, FieldNotes,
}

// VisibleFields returns the ministry member form fields shown for role, in
// display order. Served congregations are only shown for elders and deacons.
func VisibleFields(role string) []string {
	out := make([]string, 0, len(ministryFields))
	for _, f := range ministryFields {
		if f == FieldServedCongregations && !ministry.ServesMultipleCongregations(role) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// MinistryMemberInput is the posted ministry member form.
type MinistryMemberInput struct {
	Name                  string   `form:"name" validate:"required,min=3,max=100"`
	Role                  string   `form:"role" validate:"required,oneof=anciao cooperador diacono diaconisa"`
	OrdinationDate        string   `form:"ordination_date" validate:"required,datetime=2006-01-02"`
	OrdainedBy            string   `form:"ordained_by" validate:"omitempty,min=3,max=100"`
	MainCongregationID    string   `form:"main_congregation_id" validate:"required"`
	ServedCongregationIDs []string `form:"served_congregations" validate:"max=50,dive,required"`
	Phone                 string   `form:"phone" validate:"omitempty,min=10,max=15"`
	Email                 string   `form:"email" validate:"omitempty,email"`
	Notes                 string   `form:"notes" validate:"max=500"`
}

// DecodeMinistryMember reads a MinistryMemberInput from posted values.
// Values of fields hidden for the posted role are dropped.
func DecodeMinistryMember(v url.Values) MinistryMemberInput {
	in := MinistryMemberInput{
		Name:               value(v, FieldName),
		Role:               value(v, FieldRole),
		OrdinationDate:     value(v, FieldOrdinationDate),
		OrdainedBy:         value(v, FieldOrdainedBy),
		MainCongregationID: value(v, FieldMainCongregation),
		Phone:              value(v, FieldPhone),
		Email:              value(v, FieldEmail),
		Notes:              value(v, FieldNotes),
	}
	if slices.Contains(VisibleFields(in.Role), FieldServedCongregations) {
		in.ServedCongregationIDs = dedupe(values(v, FieldServedCongregations))
	}
	return in
}

// NewMinistryMemberInput returns the defaults of an empty create form.
func NewMinistryMemberInput() MinistryMemberInput {
	return MinistryMemberInput{Role: ministry.RoleElder}
}

// MinistryMemberInputFrom pre-populates the edit form from m.
func MinistryMemberInputFrom(m ministry.Member) MinistryMemberInput {
	in := MinistryMemberInput{
		Name:                  m.Name,
		Role:                  m.Role,
		OrdainedBy:            m.OrdainedBy,
		MainCongregationID:    m.MainCongregationID,
		ServedCongregationIDs: slices.Clone(m.ServedCongregationIDs),
		Phone:                 m.Phone,
		Email:                 m.Email,
		Notes:                 m.Notes,
	}
	if !m.OrdinationDate.IsZero() {
		in.OrdinationDate = m.OrdinationDate.Format(time.DateOnly)
	}
	return in
}

// Serves reports whether id is among the selected served congregations.
func (in MinistryMemberInput) Serves(id string) bool {
	return slices.Contains(in.ServedCongregationIDs, id)
}

// Member converts a validated input into the domain record.
// PRE: Validate(in) returned nil
func (in MinistryMemberInput) Member() ministry.Member {
	date, _ := time.Parse(time.DateOnly, in.OrdinationDate)
	m := ministry.Member{
		Name:               in.Name,
		Role:               in.Role,
		MainCongregationID: in.MainCongregationID,
		OrdinationDate:     date,
		OrdainedBy:         in.OrdainedBy,
		Phone:              in.Phone,
		Email:              in.Email,
		Notes:              in.Notes,
	}
	if m.OrdainedBy == "" {
		m.OrdainedBy = ministry.DefaultOrdainer
	}
	if ministry.ServesMultipleCongregations(in.Role) {
		m.ServedCongregationIDs = slices.Clone(in.ServedCongregationIDs)
	}
	return m
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

package ministry

import (
	"errors"
	"strings"
	"time"
)

// Role constants (ordination titles).
const (
	RoleElder      = "anciao"
	RoleCooperator = "cooperador"
	RoleDeacon     = "diacono"
	RoleDeaconess  = "diaconisa"
)

// DefaultOrdainer is recorded when the ordaining authority is not known yet.
const DefaultOrdainer = "A definir"

const maxServedEntries = 50

// ValidRoles lists roles in display order.
var ValidRoles = []string{RoleElder, RoleCooperator, RoleDeacon, RoleDeaconess}

// RoleLabels maps a role to its display label.
var RoleLabels = map[string]string{
	RoleElder:      "Ancião",
	RoleCooperator: "Cooperador",
	RoleDeacon:     "Diácono",
	RoleDeaconess:  "Diaconisa",
}

// Domain errors
var (
	ErrEmptyName           = errors.New("member name cannot be empty")
	ErrInvalidRole         = errors.New("role must be one of: anciao, cooperador, diacono, diaconisa")
	ErrMissingCongregation = errors.New("main congregation is required")
	ErrMissingOrdination   = errors.New("ordination date is required")
	ErrServedNotAllowed    = errors.New("served congregations are only kept for elders and deacons")
	ErrTooManyServed       = errors.New("too many served congregations")
)

// Member is a person holding one of the ordained or cooperating roles.
type Member struct {
	ID                    string
	Name                  string
	Role                  string
	MainCongregationID    string
	ServedCongregationIDs []string
	OrdinationDate        time.Time
	OrdainedBy            string
	Phone                 string
	Email                 string
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Validate checks the Member invariants.
// PRE: Member struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: ServedCongregationIDs is empty unless the role serves several congregations
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if !IsValidRole(m.Role) {
		return ErrInvalidRole
	}
	if m.MainCongregationID == "" {
		return ErrMissingCongregation
	}
	if m.OrdinationDate.IsZero() {
		return ErrMissingOrdination
	}
	if len(m.ServedCongregationIDs) > 0 && !ServesMultipleCongregations(m.Role) {
		return ErrServedNotAllowed
	}
	if len(m.ServedCongregationIDs) > maxServedEntries {
		return ErrTooManyServed
	}
	return nil
}

// RoleLabel returns the display label of the member's role.
func (m *Member) RoleLabel() string {
	if l, ok := RoleLabels[m.Role]; ok {
		return l
	}
	return m.Role
}

// ServesMultipleCongregations reports whether a role may list served congregations.
func ServesMultipleCongregations(role string) bool {
	return role == RoleElder || role == RoleDeacon
}

// IsValidRole reports whether r is a known role.
func IsValidRole(r string) bool {
	_, ok := RoleLabels[r]
	return ok
}

package congregation

import (
	"errors"
	"strings"
	"time"
)

// Field bounds shared by the form layer and domain validation.
const (
	MaxNameLength        = 100
	MaxAddressLength     = 200
	MaxCityLength        = 100
	MaxResponsibleLength = 100
	MinCapacity          = 1
	MaxCapacity          = 10000
)

// Status constants
const (
	StatusActive            = "ativa"
	StatusUnderConstruction = "em_construcao"
	StatusInactive          = "inativa"
)

// ValidStatuses lists statuses in display order.
var ValidStatuses = []string{StatusActive, StatusUnderConstruction, StatusInactive}

// StatusLabels maps a status to its display label.
var StatusLabels = map[string]string{
	StatusActive:            "Ativa",
	StatusUnderConstruction: "Em construção",
	StatusInactive:          "Inativa",
}

// Domain errors
var (
	ErrEmptyName       = errors.New("congregation name cannot be empty")
	ErrInvalidState    = errors.New("state must be a two-letter code")
	ErrInvalidStatus   = errors.New("status must be 'ativa', 'em_construcao' or 'inativa'")
	ErrInvalidCapacity = errors.New("capacity must be between 1 and 10000")
)

// Schedule holds the optional weekly service and meeting times.
// Every field is independent; an empty string means "not held".
type Schedule struct {
	SundayMorningService string
	SundayEveningService string
	WednesdayService     string
	YouthMeetingDay      string
	YouthMeetingTime     string
	MinorsMeetingDay     string
	MinorsMeetingTime    string
}

// IsEmpty reports whether no schedule field is set.
func (s Schedule) IsEmpty() bool {
	return s == Schedule{}
}

// Congregation is a physical meeting place under the umbrella body.
type Congregation struct {
	ID          string
	Name        string
	Address     string
	City        string
	State       string
	Phone       string
	Responsible string
	Capacity    int // 0 means unknown
	Status      string
	Schedule    Schedule
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the Congregation invariants.
// PRE: Congregation struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Congregation) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.State) != 2 {
		return ErrInvalidState
	}
	if !IsValidStatus(c.Status) {
		return ErrInvalidStatus
	}
	if c.Capacity != 0 && (c.Capacity < MinCapacity || c.Capacity > MaxCapacity) {
		return ErrInvalidCapacity
	}
	return nil
}

// IsActive returns true if the congregation is currently holding services.
func (c *Congregation) IsActive() bool {
	return c.Status == StatusActive
}

// Location renders "City/ST" for tables.
func (c *Congregation) Location() string {
	if c.City == "" {
		return c.State
	}
	return c.City + "/" + c.State
}

// IsValidStatus reports whether s is a known status.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

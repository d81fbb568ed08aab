package musician

import (
	"errors"
	"strings"
	"time"
)

// Status constants
const (
	StatusActive     = "ativo"
	StatusInTraining = "em_formacao"
	StatusInactive   = "inativo"
)

// ValidStatuses lists statuses in display order.
var ValidStatuses = []string{StatusActive, StatusInTraining, StatusInactive}

// StatusLabels maps a status to its display label.
var StatusLabels = map[string]string{
	StatusActive:     "Ativo",
	StatusInTraining: "Em formação",
	StatusInactive:   "Inativo",
}

// Instruments is the fixed list offered by the musician form.
// Storage accepts any non-empty instrument name.
var Instruments = []string{
	"Órgão", "Violino", "Viola", "Violoncelo", "Contrabaixo",
	"Flauta", "Clarinete", "Saxofone", "Trompete", "Trombone",
	"Trompa", "Tuba", "Acordeão", "Violão", "Bateria",
}

// Domain errors
var (
	ErrEmptyName           = errors.New("musician name cannot be empty")
	ErrEmptyInstrument     = errors.New("instrument cannot be empty")
	ErrMissingCongregation = errors.New("congregation is required")
	ErrInvalidStatus       = errors.New("status must be 'ativo', 'em_formacao' or 'inativo'")
)

// Musician plays in the services of one congregation.
type Musician struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Instrument     string
	CongregationID string
	Status         string
	StartDate      time.Time // zero when unknown
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the Musician invariants.
// PRE: Musician struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Musician) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(m.Instrument) == "" {
		return ErrEmptyInstrument
	}
	if m.CongregationID == "" {
		return ErrMissingCongregation
	}
	if _, ok := StatusLabels[m.Status]; !ok {
		return ErrInvalidStatus
	}
	return nil
}

// IsActive returns true if the musician currently plays.
func (m *Musician) IsActive() bool {
	return m.Status == StatusActive
}

// IsKnownInstrument reports whether name is one of the listed instruments.
func IsKnownInstrument(name string) bool {
	for _, i := range Instruments {
		if i == name {
			return true
		}
	}
	return false
}

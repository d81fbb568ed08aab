package reinforcement

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event type constants
const (
	EventOfficialService = "culto_oficial"
	EventYouthMeeting    = "rjm"
)

// Status constants
const (
	StatusScheduled  = "agendado"
	StatusInProgress = "em_andamento"
	StatusCompleted  = "concluido"
)

// EventTypeLabels maps an event type to its display label.
var EventTypeLabels = map[string]string{
	EventOfficialService: "Culto Oficial",
	EventYouthMeeting:    "RJM (Reunião de Jovens e Menores)",
}

// StatusLabels maps a status to its display label.
var StatusLabels = map[string]string{
	StatusScheduled:  "Agendado",
	StatusInProgress: "Em Andamento",
	StatusCompleted:  "Concluído",
}

// ValidStatuses lists statuses in display order.
var ValidStatuses = []string{StatusInProgress, StatusScheduled, StatusCompleted}

// Domain errors
var (
	ErrEmptyCongregation = errors.New("congregation is required")
	ErrInvalidEventType  = errors.New("event type must be 'culto_oficial' or 'rjm'")
	ErrMissingDate       = errors.New("date is required")
	ErrEmptyObjective    = errors.New("objective cannot be empty")
	ErrInvalidGoal       = errors.New("goal must be positive")
	ErrNegativeCollected = errors.New("collected amount cannot be negative")
	ErrInvalidStatus     = errors.New("status must be 'agendado', 'em_andamento' or 'concluido'")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// Reinforcement is a time-boxed fundraising campaign tied to one service.
// Amounts are kept in cents.
type Reinforcement struct {
	ID               string
	CongregationName string
	EventType        string
	Date             time.Time
	Time             string
	Objective        string
	Goal             int64
	Collected        int64
	Status           string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks the Reinforcement invariants.
// PRE: Reinforcement struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Reinforcement) Validate() error {
	if strings.TrimSpace(r.CongregationName) == "" {
		return ErrEmptyCongregation
	}
	if _, ok := EventTypeLabels[r.EventType]; !ok {
		return ErrInvalidEventType
	}
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	if strings.TrimSpace(r.Objective) == "" {
		return ErrEmptyObjective
	}
	if r.Goal <= 0 {
		return ErrInvalidGoal
	}
	if r.Collected < 0 {
		return ErrNegativeCollected
	}
	if _, ok := StatusLabels[r.Status]; !ok {
		return ErrInvalidStatus
	}
	return nil
}

// IsActive reports whether the campaign still counts as the congregation's open one.
func (r *Reinforcement) IsActive() bool {
	return r.Status == StatusScheduled || r.Status == StatusInProgress
}

// Percent returns collected/goal as a whole percentage, unclamped.
func (r *Reinforcement) Percent() int {
	if r.Goal <= 0 {
		return 0
	}
	return int(r.Collected * 100 / r.Goal)
}

// ProgressWidth is Percent clamped to 100 for progress bars.
func (r *Reinforcement) ProgressWidth() int {
	p := r.Percent()
	if p > 100 {
		return 100
	}
	return p
}

// Current keeps a single reinforcement per congregation.
// An in-progress campaign takes precedence regardless of date; otherwise the
// most recent by date wins. Output follows the first appearance of each
// congregation in the input.
func Current(list []Reinforcement) []Reinforcement {
	chosen := make(map[string]int, len(list))
	var order []string
	for i, r := range list {
		idx, seen := chosen[r.CongregationName]
		if !seen {
			chosen[r.CongregationName] = i
			order = append(order, r.CongregationName)
			continue
		}
		if supersedes(r, list[idx]) {
			chosen[r.CongregationName] = i
		}
	}
	out := make([]Reinforcement, 0, len(order))
	for _, name := range order {
		out = append(out, list[chosen[name]])
	}
	return out
}

// supersedes reports whether candidate should replace the current pick.
func supersedes(candidate, current Reinforcement) bool {
	candidateLive := candidate.Status == StatusInProgress
	currentLive := current.Status == StatusInProgress
	if candidateLive != currentLive {
		return candidateLive
	}
	return candidate.Date.After(current.Date)
}

// FormatBRL renders cents as "R$ 1.234,56".
func FormatBRL(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), cents%100)
}

// maxWholeAmount bounds parsed amounts (in reais) well below int64 cents overflow.
const maxWholeAmount = 1_000_000_000_000

// ParseAmount parses "1500", "1500.5", "1.500,50" or "1500,50" into cents.
// Only digits are accepted around the decimal separator.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 || !digits(whole) || !digits(frac) {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w >= maxWholeAmount {
		return 0, ErrInvalidAmount
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return w*100 + f, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package report

import (
	"errors"
	"strings"
	"time"
)

// Kind constants
const (
	KindMonthly   = "mensal"
	KindQuarterly = "trimestral"
	KindSnapshot  = "geral"
)

// KindLabels maps a kind to its display label.
var KindLabels = map[string]string{
	KindMonthly:   "Mensal",
	KindQuarterly: "Trimestral",
	KindSnapshot:  "Geral",
}

// Domain errors
var (
	ErrEmptyName   = errors.New("report name cannot be empty")
	ErrInvalidKind = errors.New("report kind is not recognised")
	ErrEmptyKey    = errors.New("report archive key cannot be empty")
)

// Generated is a report that was built and archived.
type Generated struct {
	ID          string
	Name        string
	Kind        string
	ArchiveKey  string
	SizeBytes   int64
	GeneratedBy string
	CreatedAt   time.Time
}

// Validate checks the Generated invariants.
func (g *Generated) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if _, ok := KindLabels[g.Kind]; !ok {
		return ErrInvalidKind
	}
	if g.ArchiveKey == "" {
		return ErrEmptyKey
	}
	return nil
}

// KindLabel returns the display label of the report kind.
func (g *Generated) KindLabel() string {
	if l, ok := KindLabels[g.Kind]; ok {
		return l
	}
	return g.Kind
}

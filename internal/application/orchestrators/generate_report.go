package orchestrators

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"congrega/internal/adapters/email"
	congregationStore "congrega/internal/adapters/storage/congregation"
	eventStore "congrega/internal/adapters/storage/event"
	ministryStore "congrega/internal/adapters/storage/ministry"
	musicianStore "congrega/internal/adapters/storage/musician"
	reinforcementStore "congrega/internal/adapters/storage/reinforcement"
	"congrega/internal/domain/congregation"
	"congrega/internal/domain/event"
	"congrega/internal/domain/ministry"
	"congrega/internal/domain/musician"
	"congrega/internal/domain/reinforcement"
	"congrega/internal/domain/report"
)

type congregationLister interface {
	List(ctx context.Context, f congregationStore.ListFilter) ([]congregation.Congregation, error)
}

type memberLister interface {
	List(ctx context.Context, f ministryStore.ListFilter) ([]ministry.Member, error)
}

type musicianLister interface {
	List(ctx context.Context, f musicianStore.ListFilter) ([]musician.Musician, error)
}

type eventLister interface {
	List(ctx context.Context, f eventStore.ListFilter) ([]event.Event, error)
}

type reinforcementLister interface {
	List(ctx context.Context, f reinforcementStore.ListFilter) ([]reinforcement.Reinforcement, error)
}

// ReportArchive stores the generated file.
type ReportArchive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// ReportStoreForGenerate records generated reports.
type ReportStoreForGenerate interface {
	Save(ctx context.Context, g report.Generated) error
}

// ReportObserver counts generated reports, e.g. metrics.
type ReportObserver interface {
	ReportGenerated(kind string)
}

// GenerateReportInput carries input for GenerateReport.
type GenerateReportInput struct {
	Kind        string
	RequestedBy string
	SendEmail   bool
}

// GenerateReportDeps holds dependencies for GenerateReport.
// Sender and Metrics are optional.
type GenerateReportDeps struct {
	Congregations  congregationLister
	Members        memberLister
	Musicians      musicianLister
	Events         eventLister
	Reinforcements reinforcementLister
	Archive        ReportArchive
	Reports        ReportStoreForGenerate
	Sender         email.Sender
	From           string
	Recipients     []string
	Metrics        ReportObserver
	Now            func() time.Time
}

// ReportSnapshot is the data a report is built from.
type ReportSnapshot struct {
	Congregations  []congregation.Congregation
	Members        []ministry.Member
	Musicians      []musician.Musician
	Events         []event.Event
	Reinforcements []reinforcement.Reinforcement
}

// ErrNoRecipients is returned when a report email is requested without recipients.
var ErrNoRecipients = errors.New("no report recipients configured")

// ExecuteGenerateReport builds a CSV report, archives it and records it.
// PRE: Kind is a known report kind
// POST: the archive holds the file and generated_reports lists it; if
// SendEmail, the file was handed to the sender
func ExecuteGenerateReport(ctx context.Context, input GenerateReportInput, deps GenerateReportDeps) (report.Generated, error) {
	if _, ok := report.KindLabels[input.Kind]; !ok {
		return report.Generated{}, report.ErrInvalidKind
	}
	if input.SendEmail && (deps.Sender == nil || len(deps.Recipients) == 0) {
		return report.Generated{}, ErrNoRecipients
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	at := now().UTC()

	snap, err := loadSnapshot(ctx, deps)
	if err != nil {
		return report.Generated{}, fmt.Errorf("load report data: %w", err)
	}
	snap = snap.forPeriod(input.Kind, at)
	body, err := BuildReportCSV(snap)
	if err != nil {
		return report.Generated{}, fmt.Errorf("build report: %w", err)
	}

	id := uuid.New().String()
	g := report.Generated{
		ID:          id,
		Name:        fmt.Sprintf("Relatório %s %s", report.KindLabels[input.Kind], at.Format("02/01/2006 15:04")),
		Kind:        input.Kind,
		ArchiveKey:  fmt.Sprintf("relatorios/%s/%s-%s-%s.csv", at.Format("2006/01"), input.Kind, at.Format("20060102-150405"), id[:8]),
		SizeBytes:   int64(len(body)),
		GeneratedBy: input.RequestedBy,
		CreatedAt:   at,
	}
	if err := g.Validate(); err != nil {
		return report.Generated{}, err
	}
	if err := deps.Archive.Put(ctx, g.ArchiveKey, body, "text/csv; charset=utf-8"); err != nil {
		return report.Generated{}, fmt.Errorf("archive report: %w", err)
	}
	if err := deps.Reports.Save(ctx, g); err != nil {
		return report.Generated{}, fmt.Errorf("record report: %w", err)
	}
	slog.Info("report_event", "event", "report_generated", "kind", g.Kind, "key", g.ArchiveKey, "bytes", g.SizeBytes)

	if input.SendEmail {
		if err := sendReport(ctx, g, snap, body, deps); err != nil {
			return g, fmt.Errorf("email report: %w", err)
		}
	}
	if deps.Metrics != nil {
		deps.Metrics.ReportGenerated(g.Kind)
	}
	return g, nil
}

func loadSnapshot(ctx context.Context, deps GenerateReportDeps) (ReportSnapshot, error) {
	var (
		s   ReportSnapshot
		err error
	)
	if s.Congregations, err = deps.Congregations.List(ctx, congregationStore.ListFilter{}); err != nil {
		return s, err
	}
	if s.Members, err = deps.Members.List(ctx, ministryStore.ListFilter{}); err != nil {
		return s, err
	}
	if s.Musicians, err = deps.Musicians.List(ctx, musicianStore.ListFilter{}); err != nil {
		return s, err
	}
	if s.Events, err = deps.Events.List(ctx, eventStore.ListFilter{}); err != nil {
		return s, err
	}
	if s.Reinforcements, err = deps.Reinforcements.List(ctx, reinforcementStore.ListFilter{}); err != nil {
		return s, err
	}
	return s, nil
}

// forPeriod keeps the events and reinforcements dated inside the report period.
// Monthly covers the calendar month of at; quarterly the month of at and the two before.
func (s ReportSnapshot) forPeriod(kind string, at time.Time) ReportSnapshot {
	var from time.Time
	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	switch kind {
	case report.KindMonthly:
		from = monthStart
	case report.KindQuarterly:
		from = monthStart.AddDate(0, -2, 0)
	default:
		return s
	}
	to := monthStart.AddDate(0, 1, 0)
	inPeriod := func(d time.Time) bool { return !d.Before(from) && d.Before(to) }

	events := make([]event.Event, 0, len(s.Events))
	for _, e := range s.Events {
		if inPeriod(e.Date) {
			events = append(events, e)
		}
	}
	reinforcements := make([]reinforcement.Reinforcement, 0, len(s.Reinforcements))
	for _, r := range s.Reinforcements {
		if inPeriod(r.Date) {
			reinforcements = append(reinforcements, r)
		}
	}
	s.Events = events
	s.Reinforcements = reinforcements
	return s
}

// BuildReportCSV renders the snapshot as one CSV file with a section per entity.
func BuildReportCSV(s ReportSnapshot) ([]byte, error) {
	names := make(map[string]string, len(s.Congregations))
	activeCongregations := 0
	for _, c := range s.Congregations {
		names[c.ID] = c.Name
		if c.IsActive() {
			activeCongregations++
		}
	}
	activeMusicians := 0
	for _, m := range s.Musicians {
		if m.IsActive() {
			activeMusicians++
		}
	}
	current := reinforcement.Current(s.Reinforcements)
	var goal, collected int64
	for _, r := range current {
		goal += r.Goal
		collected += r.Collected
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{
		{"Resumo"},
		{"Indicador", "Valor"},
		{"Congregações", strconv.Itoa(len(s.Congregations))},
		{"Congregações ativas", strconv.Itoa(activeCongregations)},
		{"Ministério", strconv.Itoa(len(s.Members))},
		{"Músicos", strconv.Itoa(len(s.Musicians))},
		{"Músicos ativos", strconv.Itoa(activeMusicians)},
		{"Eventos", strconv.Itoa(len(s.Events))},
		{"Reforços de coleta atuais", strconv.Itoa(len(current))},
		{"Meta total", reinforcement.FormatBRL(goal)},
		{"Arrecadado total", reinforcement.FormatBRL(collected)},
		{},
		{"Congregações"},
		{"Nome", "Cidade", "Estado", "Responsável", "Capacidade", "Status"},
	}
	for _, c := range s.Congregations {
		capacity := ""
		if c.Capacity > 0 {
			capacity = strconv.Itoa(c.Capacity)
		}
		rows = append(rows, []string{c.Name, c.City, c.State, c.Responsible, capacity, congregation.StatusLabels[c.Status]})
	}
	rows = append(rows, []string{}, []string{"Ministério"}, []string{"Nome", "Cargo", "Congregação principal", "Apresentação/Ordenação"})
	for _, m := range s.Members {
		rows = append(rows, []string{m.Name, m.RoleLabel(), names[m.MainCongregationID], m.OrdinationDate.Format("02/01/2006")})
	}
	rows = append(rows, []string{}, []string{"Músicos"}, []string{"Nome", "Instrumento", "Congregação", "Status"})
	for _, m := range s.Musicians {
		rows = append(rows, []string{m.Name, m.Instrument, names[m.CongregationID], musician.StatusLabels[m.Status]})
	}
	rows = append(rows, []string{}, []string{"Eventos"}, []string{"Data", "Horário", "Título", "Tipo", "Congregação"})
	for _, e := range s.Events {
		rows = append(rows, []string{e.Date.Format("02/01/2006"), e.Time, e.Title, e.TypeLabel(), names[e.CongregationID]})
	}
	rows = append(rows, []string{}, []string{"Reforços de coleta"},
		[]string{"Congregação", "Tipo", "Data", "Objetivo", "Meta", "Arrecadado", "Percentual", "Status"})
	for _, r := range current {
		rows = append(rows, []string{
			r.CongregationName,
			reinforcement.EventTypeLabels[r.EventType],
			r.Date.Format("02/01/2006"),
			r.Objective,
			reinforcement.FormatBRL(r.Goal),
			reinforcement.FormatBRL(r.Collected),
			strconv.Itoa(r.Percent()) + "%",
			reinforcement.StatusLabels[r.Status],
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sendReport(ctx context.Context, g report.Generated, s ReportSnapshot, body []byte, deps GenerateReportDeps) error {
	md := fmt.Sprintf("# %s\n\nSegue em anexo o relatório gerado em %s.\n\n"+
		"- Congregações: **%d**\n- Ministério: **%d**\n- Músicos: **%d**\n- Eventos no período: **%d**\n",
		g.Name, g.CreatedAt.Format("02/01/2006 15:04"),
		len(s.Congregations), len(s.Members), len(s.Musicians), len(s.Events))
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(md), &html); err != nil {
		return err
	}
	res, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      deps.Recipients,
		From:    deps.From,
		Subject: g.Name,
		HTML:    html.String(),
		Attachments: []email.Attachment{{
			Filename: g.Kind + "-" + g.CreatedAt.Format("20060102") + ".csv",
			Content:  body,
		}},
	})
	if err != nil {
		return err
	}
	slog.Info("report_event", "event", "report_emailed", "kind", g.Kind, "recipients", len(deps.Recipients), "message_id", res.MessageID)
	return nil
}

package projections

import (
	"context"
	"fmt"
	"time"

	eventStore "congrega/internal/adapters/storage/event"
	reinforcementStore "congrega/internal/adapters/storage/reinforcement"
	"congrega/internal/domain/reinforcement"
	"congrega/internal/domain/report"
)

// DefaultReportListLimit caps the generated report list.
const DefaultReportListLimit = 50

// reportMonths is the number of months in the monthly breakdown.
const reportMonths = 6

var monthLabels = [...]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// GetReportsQuery carries query parameters.
type GetReportsQuery struct {
	Now   time.Time
	Limit int
}

// ReportRow is one generated report of the list.
type ReportRow struct {
	report.Generated
	KindLabel    string
	CreatedLabel string
	SizeLabel    string
}

// MonthRow is one month of the breakdown.
type MonthRow struct {
	Label          string
	Events         int
	Collected      int64
	CollectedLabel string
}

// GetReportsResult carries the query result.
type GetReportsResult struct {
	Reports            []ReportRow
	Generated          int
	Months             []MonthRow // oldest first, ending with the current month
	Growth             string     // events this month against the previous one
	CollectedThisMonth string
}

// GetReportsDeps holds dependencies for GetReports.
type GetReportsDeps struct {
	ReportStore        ReportStore
	EventStore         EventStore
	ReinforcementStore ReinforcementStore
}

// QueryGetReports aggregates the reports page.
// PRE: none
// POST: Months holds the last six calendar months; Reports is newest first
func QueryGetReports(ctx context.Context, query GetReportsQuery, deps GetReportsDeps) (GetReportsResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultReportListLimit
	}

	generated, err := deps.ReportStore.List(ctx, limit)
	if err != nil {
		return GetReportsResult{}, err
	}
	events, err := deps.EventStore.List(ctx, eventStore.ListFilter{})
	if err != nil {
		return GetReportsResult{}, err
	}
	reinforcements, err := deps.ReinforcementStore.List(ctx, reinforcementStore.ListFilter{})
	if err != nil {
		return GetReportsResult{}, err
	}

	res := GetReportsResult{Generated: len(generated)}
	for _, g := range generated {
		res.Reports = append(res.Reports, ReportRow{
			Generated:    g,
			KindLabel:    g.KindLabel(),
			CreatedLabel: g.CreatedAt.Format("02/01/2006 15:04"),
			SizeLabel:    sizeLabel(g.SizeBytes),
		})
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1-reportMonths, 0)
	months := make([]MonthRow, reportMonths)
	for i := range months {
		months[i].Label = monthLabels[first.AddDate(0, i, 0).Month()-1]
	}
	index := func(d time.Time) int {
		i := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if i < 0 || i >= reportMonths {
			return -1
		}
		return i
	}
	for _, e := range events {
		if i := index(e.Date); i >= 0 {
			months[i].Events++
		}
	}
	for _, r := range reinforcements {
		if i := index(r.Date); i >= 0 {
			months[i].Collected += r.Collected
		}
	}
	for i := range months {
		months[i].CollectedLabel = reinforcement.FormatBRL(months[i].Collected)
	}
	res.Months = months

	current, previous := months[reportMonths-1], months[reportMonths-2]
	res.CollectedThisMonth = current.CollectedLabel
	res.Growth = growth(previous.Events, current.Events)
	return res, nil
}

// growth renders the change from before to after as a signed percentage.
func growth(before, after int) string {
	if before == 0 {
		if after == 0 {
			return "0%"
		}
		return "+100%"
	}
	return fmt.Sprintf("%+d%%", (after-before)*100/before)
}

func sizeLabel(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

package projections

import (
	"context"
	"html/template"

	reinforcementStore "congrega/internal/adapters/storage/reinforcement"
	"congrega/internal/domain/reinforcement"
)

// TabAllReinforcements selects every reinforcement regardless of status.
const TabAllReinforcements = "todos"

// GetReinforcementsQuery carries query parameters.
type GetReinforcementsQuery struct {
	Tab string // TabAllReinforcements or a reinforcement status
}

// ReinforcementRow is one card of the reinforcements page.
type ReinforcementRow struct {
	reinforcement.Reinforcement
	EventTypeLabel string
	StatusLabel    string
	DateLabel      string
	GoalLabel      string
	CollectedLabel string
	Percent        int
	ProgressWidth  int
	NotesHTML      template.HTML
}

// GetReinforcementsResult carries the query result.
type GetReinforcementsResult struct {
	Current        []ReinforcementRow // one per congregation
	Rows           []ReinforcementRow // selected tab
	Tabs           []StatusCount
	Tab            string
	Total          int
	InProgress     int
	GoalTotal      string
	CollectedTotal string
	Percent        int
}

// GetReinforcementsDeps holds dependencies for GetReinforcements.
type GetReinforcementsDeps struct {
	ReinforcementStore ReinforcementStore
}

// QueryGetReinforcements lists collection reinforcements with totals and status tabs.
// PRE: none
// POST: Current holds one reinforcement per congregation; totals and tab counts cover every record
// INVARIANT: an in-progress reinforcement is current regardless of date, otherwise the most recent is
func QueryGetReinforcements(ctx context.Context, query GetReinforcementsQuery, deps GetReinforcementsDeps) (GetReinforcementsResult, error) {
	all, err := deps.ReinforcementStore.List(ctx, reinforcementStore.ListFilter{})
	if err != nil {
		return GetReinforcementsResult{}, err
	}

	tab := query.Tab
	if _, ok := reinforcement.StatusLabels[tab]; !ok {
		tab = TabAllReinforcements
	}

	res := GetReinforcementsResult{Tab: tab, Total: len(all)}
	byStatus := make(map[string]int, len(reinforcement.ValidStatuses))
	var goal, collected int64
	for _, r := range all {
		byStatus[r.Status]++
		goal += r.Goal
		collected += r.Collected
		if tab == TabAllReinforcements || r.Status == tab {
			res.Rows = append(res.Rows, reinforcementRow(r))
		}
	}
	for _, r := range reinforcement.Current(all) {
		res.Current = append(res.Current, reinforcementRow(r))
	}

	res.Tabs = append([]StatusCount{{Key: TabAllReinforcements, Label: "Todos", Count: len(all)}},
		countsFor(reinforcement.ValidStatuses, reinforcement.StatusLabels, byStatus)...)
	res.InProgress = byStatus[reinforcement.StatusInProgress]
	res.GoalTotal = reinforcement.FormatBRL(goal)
	res.CollectedTotal = reinforcement.FormatBRL(collected)
	totals := reinforcement.Reinforcement{Goal: goal, Collected: collected}
	res.Percent = totals.Percent()
	return res, nil
}

func reinforcementRow(r reinforcement.Reinforcement) ReinforcementRow {
	return ReinforcementRow{
		Reinforcement:  r,
		EventTypeLabel: reinforcement.EventTypeLabels[r.EventType],
		StatusLabel:    reinforcement.StatusLabels[r.Status],
		DateLabel:      r.Date.Format("02/01/2006"),
		GoalLabel:      reinforcement.FormatBRL(r.Goal),
		CollectedLabel: reinforcement.FormatBRL(r.Collected),
		Percent:        r.Percent(),
		ProgressWidth:  r.ProgressWidth(),
		NotesHTML:      RenderMarkdown(r.Notes),
	}
}

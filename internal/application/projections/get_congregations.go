package projections

import (
	"context"

	congregationStore "congrega/internal/adapters/storage/congregation"
	"congrega/internal/domain/congregation"
)

// GetCongregationsQuery carries query parameters.
type GetCongregationsQuery struct {
	Status string // optional status filter
}

// CongregationRow is one table row of the congregations page.
type CongregationRow struct {
	congregation.Congregation
	Location    string
	StatusLabel string
}

// StatusCount is one entry of a per-status or per-type breakdown.
type StatusCount struct {
	Key   string
	Label string
	Count int
}

// GetCongregationsResult carries the query result.
type GetCongregationsResult struct {
	Rows   []CongregationRow
	Total  int
	Counts []StatusCount
}

// GetCongregationsDeps holds dependencies for GetCongregations.
type GetCongregationsDeps struct {
	CongregationStore CongregationStore
}

// QueryGetCongregations lists congregations with per-status counts.
// PRE: none
// POST: Counts cover every congregation; Rows are filtered by Status when set, ordered by name
func QueryGetCongregations(ctx context.Context, query GetCongregationsQuery, deps GetCongregationsDeps) (GetCongregationsResult, error) {
	all, err := deps.CongregationStore.List(ctx, congregationStore.ListFilter{})
	if err != nil {
		return GetCongregationsResult{}, err
	}

	byStatus := make(map[string]int, len(congregation.ValidStatuses))
	rows := make([]CongregationRow, 0, len(all))
	for _, c := range all {
		byStatus[c.Status]++
		if query.Status != "" && c.Status != query.Status {
			continue
		}
		rows = append(rows, CongregationRow{
			Congregation: c,
			Location:     c.Location(),
			StatusLabel:  congregation.StatusLabels[c.Status],
		})
	}

	return GetCongregationsResult{
		Rows:   rows,
		Total:  len(all),
		Counts: countsFor(congregation.ValidStatuses, congregation.StatusLabels, byStatus),
	}, nil
}

// countsFor orders a breakdown by keys, keeping zero entries.
func countsFor(keys []string, labels map[string]string, counts map[string]int) []StatusCount {
	out := make([]StatusCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, StatusCount{Key: k, Label: labels[k], Count: counts[k]})
	}
	return out
}

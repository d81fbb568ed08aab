package projections

import (
	"cmp"
	"context"
	"slices"
	"time"

	congregationStore "congrega/internal/adapters/storage/congregation"
	eventStore "congrega/internal/adapters/storage/event"
	ministryStore "congrega/internal/adapters/storage/ministry"
	musicianStore "congrega/internal/adapters/storage/musician"
	reinforcementStore "congrega/internal/adapters/storage/reinforcement"
	"congrega/internal/domain/event"
	"congrega/internal/domain/reinforcement"
)

// DefaultUpcomingLimit is the number of upcoming events shown on the dashboard.
const DefaultUpcomingLimit = 5

// GetDashboardQuery carries query parameters.
type GetDashboardQuery struct {
	Now           time.Time
	UpcomingLimit int
}

// GetDashboardResult carries the query result.
type GetDashboardResult struct {
	Congregations         int
	ActiveCongregations   int
	Members               int
	Musicians             int
	ActiveMusicians       int
	Events                int
	EventsThisMonth       int
	UpcomingEvents        []EventRow
	CurrentReinforcements []ReinforcementRow
}

// GetDashboardDeps holds dependencies for GetDashboard.
type GetDashboardDeps struct {
	CongregationStore  CongregationStore
	MemberStore        MemberStore
	MusicianStore      MusicianStore
	EventStore         EventStore
	ReinforcementStore ReinforcementStore
}

// QueryGetDashboard aggregates the dashboard counters.
// PRE: none
// POST: UpcomingEvents are dated today or later, soonest first, at most UpcomingLimit
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	limit := query.UpcomingLimit
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	congregations, err := deps.CongregationStore.List(ctx, congregationStore.ListFilter{})
	if err != nil {
		return GetDashboardResult{}, err
	}
	members, err := deps.MemberStore.List(ctx, ministryStore.ListFilter{})
	if err != nil {
		return GetDashboardResult{}, err
	}
	musicians, err := deps.MusicianStore.List(ctx, musicianStore.ListFilter{})
	if err != nil {
		return GetDashboardResult{}, err
	}
	events, err := deps.EventStore.List(ctx, eventStore.ListFilter{})
	if err != nil {
		return GetDashboardResult{}, err
	}
	reinforcements, err := deps.ReinforcementStore.List(ctx, reinforcementStore.ListFilter{})
	if err != nil {
		return GetDashboardResult{}, err
	}

	res := GetDashboardResult{
		Congregations:   len(congregations),
		Members:         len(members),
		Musicians:       len(musicians),
		Events:          len(events),
		EventsThisMonth: countInMonth(events, now),
	}
	for _, c := range congregations {
		if c.IsActive() {
			res.ActiveCongregations++
		}
	}
	for _, m := range musicians {
		if m.IsActive() {
			res.ActiveMusicians++
		}
	}

	names := congregationNames(congregations)
	upcoming := make([]event.Event, 0, limit)
	for _, e := range events {
		if e.IsUpcoming(now) {
			upcoming = append(upcoming, e)
		}
	}
	// Stores return newest first.
	slices.SortStableFunc(upcoming, func(a, b event.Event) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Time, b.Time)
	})
	for _, e := range upcoming[:min(limit, len(upcoming))] {
		res.UpcomingEvents = append(res.UpcomingEvents, eventRow(e, names, now))
	}

	for _, r := range reinforcement.Current(reinforcements) {
		if r.IsActive() {
			res.CurrentReinforcements = append(res.CurrentReinforcements, reinforcementRow(r))
		}
	}
	return res, nil
}

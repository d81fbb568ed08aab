package projections

import (
	"context"
	"html/template"
	"time"

	congregationStore "congrega/internal/adapters/storage/congregation"
	eventStore "congrega/internal/adapters/storage/event"
	"congrega/internal/domain/congregation"
	"congrega/internal/domain/event"
)

// GetEventsQuery carries query parameters.
type GetEventsQuery struct {
	CongregationID string // optional
	Type           string // optional
	Now            time.Time
}

// EventRow is one row of the events list.
type EventRow struct {
	event.Event
	CongregationName string
	TypeLabel        string
	DateLabel        string
	Upcoming         bool
	DescriptionHTML  template.HTML
}

// GetEventsResult carries the query result.
type GetEventsResult struct {
	Rows           []EventRow
	Total          int
	TypeCounts     []StatusCount
	Upcoming       int
	ThisMonth      int
	CongregationID string
	Congregations  []congregation.Congregation // filter and form options
}

// GetEventsDeps holds dependencies for GetEvents.
type GetEventsDeps struct {
	CongregationStore CongregationStore
	EventStore        EventStore
}

// QueryGetEvents lists events by date, newest first, with per-type counts.
// PRE: none
// POST: counts cover the events of the selected congregation (all when empty);
// Rows are additionally filtered by Type
func QueryGetEvents(ctx context.Context, query GetEventsQuery, deps GetEventsDeps) (GetEventsResult, error) {
	congregations, err := deps.CongregationStore.List(ctx, congregationStore.ListFilter{})
	if err != nil {
		return GetEventsResult{}, err
	}
	events, err := deps.EventStore.List(ctx, eventStore.ListFilter{CongregationID: query.CongregationID})
	if err != nil {
		return GetEventsResult{}, err
	}
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	names := congregationNames(congregations)
	byType := make(map[string]int, len(event.ValidTypes))
	res := GetEventsResult{
		Total:          len(events),
		ThisMonth:      countInMonth(events, now),
		CongregationID: query.CongregationID,
		Congregations:  congregations,
	}
	res.Rows = make([]EventRow, 0, len(events))
	for _, e := range events {
		byType[e.Type]++
		row := eventRow(e, names, now)
		if row.Upcoming {
			res.Upcoming++
		}
		if query.Type != "" && e.Type != query.Type {
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	res.TypeCounts = countsFor(event.ValidTypes, event.TypeLabels, byType)
	return res, nil
}

func eventRow(e event.Event, names map[string]string, now time.Time) EventRow {
	return EventRow{
		Event:            e,
		CongregationName: names[e.CongregationID],
		TypeLabel:        e.TypeLabel(),
		DateLabel:        e.Date.Format("02/01/2006"),
		Upcoming:         e.IsUpcoming(now),
		DescriptionHTML:  RenderMarkdown(e.Description),
	}
}

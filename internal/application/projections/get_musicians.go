package projections

import (
	"cmp"
	"context"
	"html/template"
	"slices"
	"time"

	congregationStore "congrega/internal/adapters/storage/congregation"
	eventStore "congrega/internal/adapters/storage/event"
	musicianStore "congrega/internal/adapters/storage/musician"
	"congrega/internal/application/listutil"
	"congrega/internal/domain/congregation"
	"congrega/internal/domain/event"
	"congrega/internal/domain/musician"
)

// GetMusiciansQuery carries query parameters.
type GetMusiciansQuery struct {
	Search string
	Status string
	Now    time.Time

	// Page selects the rows returned; the zero value returns all of them.
	Page listutil.PageParams
}

// MusicianRow is one table row of the musical page.
type MusicianRow struct {
	musician.Musician
	CongregationName string
	StatusLabel      string
	StartLabel       string
	NotesHTML        template.HTML
}

// InstrumentCount is one entry of the instrument breakdown.
type InstrumentCount struct {
	Instrument string
	Count      int
}

// GetMusiciansResult carries the query result.
type GetMusiciansResult struct {
	Rows                []MusicianRow
	Pagination          listutil.PageInfo
	Total               int
	StatusCounts        []StatusCount
	Active              int
	InTraining          int
	RehearsalsThisMonth int
	Instruments         []InstrumentCount
	Search              string
	Status              string
	Congregations       []congregation.Congregation // options of the musician form
}

// GetMusiciansDeps holds dependencies for GetMusicians.
type GetMusiciansDeps struct {
	CongregationStore CongregationStore
	MusicianStore     MusicianStore
	EventStore        EventStore
}

// QueryGetMusicians lists musicians with status counts, instrument breakdown and search.
// PRE: none
// POST: counts and breakdown cover every musician; Rows hold the requested page of those matching Search and Status
// INVARIANT: search is a case and accent insensitive substring match over name, instrument and congregation name
func QueryGetMusicians(ctx context.Context, query GetMusiciansQuery, deps GetMusiciansDeps) (GetMusiciansResult, error) {
	congregations, err := deps.CongregationStore.List(ctx, congregationStore.ListFilter{})
	if err != nil {
		return GetMusiciansResult{}, err
	}
	musicians, err := deps.MusicianStore.List(ctx, musicianStore.ListFilter{})
	if err != nil {
		return GetMusiciansResult{}, err
	}
	events, err := deps.EventStore.List(ctx, eventStore.ListFilter{Type: event.TypeRehearse})
	if err != nil {
		return GetMusiciansResult{}, err
	}

	names := congregationNames(congregations)
	byStatus := make(map[string]int, len(musician.ValidStatuses))
	byInstrument := make(map[string]int)
	rows := make([]MusicianRow, 0, len(musicians))
	for _, m := range musicians {
		byStatus[m.Status]++
		byInstrument[m.Instrument]++
		congregationName := names[m.CongregationID]
		if query.Status != "" && m.Status != query.Status {
			continue
		}
		if !Matches(query.Search, m.Name, m.Instrument, congregationName) {
			continue
		}
		row := MusicianRow{
			Musician:         m,
			CongregationName: congregationName,
			StatusLabel:      musician.StatusLabels[m.Status],
			NotesHTML:        RenderMarkdown(m.Notes),
		}
		if !m.StartDate.IsZero() {
			row.StartLabel = m.StartDate.Format("02/01/2006")
		}
		rows = append(rows, row)
	}

	rows, page := listutil.Paginate(rows, query.Page)
	return GetMusiciansResult{
		Rows:                rows,
		Pagination:          page,
		Total:               len(musicians),
		StatusCounts:        countsFor(musician.ValidStatuses, musician.StatusLabels, byStatus),
		Active:              byStatus[musician.StatusActive],
		InTraining:          byStatus[musician.StatusInTraining],
		RehearsalsThisMonth: countInMonth(events, query.Now),
		Instruments:         instrumentBreakdown(byInstrument),
		Search:              query.Search,
		Status:              query.Status,
		Congregations:       congregations,
	}, nil
}

// instrumentBreakdown orders instruments by count, then name.
func instrumentBreakdown(counts map[string]int) []InstrumentCount {
	out := make([]InstrumentCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, InstrumentCount{Instrument: name, Count: n})
	}
	slices.SortFunc(out, func(a, b InstrumentCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Instrument, b.Instrument)
	})
	return out
}

// countInMonth counts the events dated in the calendar month of now.
func countInMonth(events []event.Event, now time.Time) int {
	if now.IsZero() {
		now = time.Now()
	}
	n := 0
	for _, e := range events {
		if e.Date.Year() == now.Year() && e.Date.Month() == now.Month() {
			n++
		}
	}
	return n
}

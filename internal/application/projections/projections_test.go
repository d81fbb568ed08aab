package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"congrega/internal/application/listutil"
	"congrega/internal/domain/congregation"
	"congrega/internal/domain/event"
	"congrega/internal/domain/ministry"
	"congrega/internal/domain/musician"
	"congrega/internal/domain/reinforcement"
	"congrega/internal/domain/report"
)

var now = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMatches(t *testing.T) {
	tests := []struct {
		query  string
		fields []string
		want   bool
	}{
		{"joão", []string{"João Silva"}, true},
		{"JOÃO", []string{"João Silva"}, true},
		{"joao", []string{"João Silva"}, true},
		{"  silva ", []string{"João Silva"}, true},
		{"orgao", []string{"Maria", "Órgão"}, true},
		{"maria", []string{"João Silva", "Violino"}, false},
		{"", []string{"anything"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.query, tt.fields...))
		})
	}
}

func TestRenderMarkdown(t *testing.T) {
	assert.Empty(t, RenderMarkdown("   "))

	got := string(RenderMarkdown("**Atenção** ao horário<script>alert(1)</script>"))
	assert.Contains(t, got, "<strong>Atenção</strong>")
	assert.NotContains(t, got, "<script>")
}

func musicalDeps() GetMusiciansDeps {
	return GetMusiciansDeps{
		CongregationStore: &mockCongregationStore{list: seededCongregations()},
		MusicianStore: &mockMusicianStore{list: []musician.Musician{
			{ID: "m1", Name: "João Silva", Instrument: "Órgão", CongregationID: "c1", Status: musician.StatusActive},
			{ID: "m2", Name: "Maria Santos", Instrument: "Violino", CongregationID: "c2", Status: musician.StatusActive},
			{ID: "m3", Name: "Pedro Costa", Instrument: "Clarinete", CongregationID: "c1", Status: musician.StatusActive},
			{ID: "m4", Name: "Ana Oliveira", Instrument: "Violino", CongregationID: "c3", Status: musician.StatusActive},
			{ID: "m5", Name: "Lucas Ferreira", Instrument: "Saxofone", CongregationID: "c2", Status: musician.StatusInTraining},
		}},
		EventStore: &mockEventStore{list: []event.Event{
			{ID: "e1", Type: event.TypeRehearse, Date: day(2026, 6, 20)},
			{ID: "e2", Type: event.TypeRehearse, Date: day(2026, 6, 1)},
			{ID: "e3", Type: event.TypeRehearse, Date: day(2026, 5, 30)},
			{ID: "e4", Type: event.TypeService, Date: day(2026, 6, 2)},
		}},
	}
}

func TestQueryGetMusicians_SearchIsCaseInsensitive(t *testing.T) {
	res, err := QueryGetMusicians(context.Background(), GetMusiciansQuery{Search: "joão", Now: now}, musicalDeps())
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "João Silva", res.Rows[0].Name)
	assert.Equal(t, "Sede Central", res.Rows[0].CongregationName)
	assert.Equal(t, 5, res.Total)
}

func TestQueryGetMusicians_SearchByCongregationName(t *testing.T) {
	res, err := QueryGetMusicians(context.Background(), GetMusiciansQuery{Search: "SEDE", Now: now}, musicalDeps())
	require.NoError(t, err)
	var names []string
	for _, r := range res.Rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"João Silva", "Pedro Costa"}, names)
}

func TestQueryGetMusicians_Aggregates(t *testing.T) {
	res, err := QueryGetMusicians(context.Background(), GetMusiciansQuery{Now: now}, musicalDeps())
	require.NoError(t, err)
	assert.Len(t, res.Rows, 5)
	assert.Equal(t, 4, res.Active)
	assert.Equal(t, 1, res.InTraining)
	assert.Equal(t, 2, res.RehearsalsThisMonth)
	require.NotEmpty(t, res.Instruments)
	assert.Equal(t, InstrumentCount{Instrument: "Violino", Count: 2}, res.Instruments[0])
	assert.Equal(t, "Clarinete", res.Instruments[1].Instrument)
	assert.Equal(t, StatusCount{Key: musician.StatusInactive, Label: musician.StatusLabels[musician.StatusInactive]}, res.StatusCounts[2])
}

func TestQueryGetCongregations_StatusFilter(t *testing.T) {
	deps := GetCongregationsDeps{CongregationStore: &mockCongregationStore{list: seededCongregations()}}
	res, err := QueryGetCongregations(context.Background(), GetCongregationsQuery{Status: congregation.StatusActive}, deps)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, "Belo Horizonte/MG", res.Rows[0].Location)
	assert.Equal(t, 2, res.Counts[0].Count)
	assert.Equal(t, 1, res.Counts[1].Count)
	assert.Equal(t, 0, res.Counts[2].Count)
}

func TestQueryGetCongregations_StoreError(t *testing.T) {
	boom := errors.New("connection refused")
	deps := GetCongregationsDeps{CongregationStore: &mockCongregationStore{err: boom}}
	_, err := QueryGetCongregations(context.Background(), GetCongregationsQuery{}, deps)
	assert.ErrorIs(t, err, boom)
}

func TestQueryGetMinistry_TabsAndCongregationNames(t *testing.T) {
	deps := GetMinistryDeps{
		CongregationStore: &mockCongregationStore{list: seededCongregations()},
		MemberStore: &mockMemberStore{list: []ministry.Member{
			{ID: "a", Name: "Ancião A", Role: ministry.RoleElder, MainCongregationID: "c1", ServedCongregationIDs: []string{"c2", "gone"}, OrdinationDate: day(2020, 1, 1)},
			{ID: "b", Name: "Cooperador B", Role: ministry.RoleCooperator, MainCongregationID: "c1"},
			{ID: "c", Name: "Diácono C", Role: ministry.RoleDeacon, MainCongregationID: "c2"},
			{ID: "d", Name: "Diaconisa D", Role: ministry.RoleDeaconess, MainCongregationID: "c2"},
		}},
	}

	res, err := QueryGetMinistry(context.Background(), GetMinistryQuery{Tab: TabDeacons}, deps)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Congregação Norte", res.Rows[0].MainCongregationName)
	assert.Equal(t, []int{4, 1, 1, 2}, tabCounts(res.Tabs))
	assert.Equal(t, 1, res.RoleCounts[0].Count)

	res, err = QueryGetMinistry(context.Background(), GetMinistryQuery{Tab: "bogus"}, deps)
	require.NoError(t, err)
	assert.Equal(t, TabAll, res.Tab)
	require.Len(t, res.Rows, 4)
	assert.Equal(t, []string{"Congregação Norte"}, res.Rows[0].ServedNames)
	assert.Equal(t, "01/01/2020", res.Rows[0].OrdinationLabel)

	res, err = QueryGetMinistry(context.Background(), GetMinistryQuery{CongregationID: "c1"}, deps)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
}

func tabCounts(tabs []StatusCount) []int {
	out := make([]int, len(tabs))
	for i, t := range tabs {
		out[i] = t.Count
	}
	return out
}

func TestQueryGetEvents_FilterAndCounts(t *testing.T) {
	deps := GetEventsDeps{
		CongregationStore: &mockCongregationStore{list: seededCongregations()},
		EventStore: &mockEventStore{list: []event.Event{
			{ID: "e1", Title: "Culto", Type: event.TypeService, Date: day(2026, 7, 1), CongregationID: "c1"},
			{ID: "e2", Title: "Ensaio", Type: event.TypeRehearse, Date: day(2026, 6, 15), CongregationID: "c1"},
			{ID: "e3", Title: "Reunião", Type: event.TypeMeeting, Date: day(2026, 5, 10), CongregationID: "c2"},
		}},
	}

	res, err := QueryGetEvents(context.Background(), GetEventsQuery{CongregationID: "c1", Now: now}, deps)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Upcoming)
	assert.Equal(t, 1, res.ThisMonth)
	assert.Equal(t, "Sede Central", res.Rows[0].CongregationName)
	assert.Equal(t, "01/07/2026", res.Rows[0].DateLabel)

	res, err = QueryGetEvents(context.Background(), GetEventsQuery{Type: event.TypeMeeting, Now: now}, deps)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.False(t, res.Rows[0].Upcoming)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.TypeCounts[0].Count)
}

func TestQueryGetReinforcements_OneCurrentPerCongregation(t *testing.T) {
	deps := GetReinforcementsDeps{ReinforcementStore: &mockReinforcementStore{list: []reinforcement.Reinforcement{
		{ID: "a", CongregationName: "A", Date: day(2026, 6, 1), Goal: 100000, Collected: 25000, Status: reinforcement.StatusScheduled},
		{ID: "b-old", CongregationName: "B", Date: day(2026, 7, 1), Goal: 50000, Status: reinforcement.StatusScheduled},
		{ID: "b-live", CongregationName: "B", Date: day(2026, 5, 1), Goal: 50000, Collected: 50000, Status: reinforcement.StatusInProgress},
	}}}

	res, err := QueryGetReinforcements(context.Background(), GetReinforcementsQuery{}, deps)
	require.NoError(t, err)
	require.Len(t, res.Current, 2)
	assert.Equal(t, "a", res.Current[0].ID)
	assert.Equal(t, "b-live", res.Current[1].ID)
	assert.Equal(t, 100, res.Current[1].Percent)
	assert.Equal(t, 25, res.Current[0].Percent)

	assert.Equal(t, TabAllReinforcements, res.Tab)
	assert.Len(t, res.Rows, 3)
	assert.Equal(t, 1, res.InProgress)
	assert.Equal(t, reinforcement.FormatBRL(200000), res.GoalTotal)
	assert.Equal(t, reinforcement.FormatBRL(75000), res.CollectedTotal)
	assert.Equal(t, 37, res.Percent)

	res, err = QueryGetReinforcements(context.Background(), GetReinforcementsQuery{Tab: reinforcement.StatusScheduled}, deps)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, "Todos", res.Tabs[0].Label)
	assert.Equal(t, 3, res.Tabs[0].Count)
}

func TestQueryGetDashboard(t *testing.T) {
	deps := GetDashboardDeps{
		CongregationStore: &mockCongregationStore{list: seededCongregations()},
		MemberStore:       &mockMemberStore{list: []ministry.Member{{ID: "m", MainCongregationID: "c1"}}},
		MusicianStore:     &mockMusicianStore{list: []musician.Musician{{ID: "x", Status: musician.StatusActive}, {ID: "y", Status: musician.StatusInactive}}},
		EventStore: &mockEventStore{list: []event.Event{
			{ID: "late", Date: day(2026, 8, 1), CongregationID: "c2"},
			{ID: "evening", Date: day(2026, 6, 15), Time: "19:30", CongregationID: "c1"},
			{ID: "morning", Date: day(2026, 6, 15), Time: "09:00", CongregationID: "c1"},
			{ID: "past", Date: day(2026, 6, 1), CongregationID: "c1"},
		}},
		ReinforcementStore: &mockReinforcementStore{list: []reinforcement.Reinforcement{
			{ID: "r1", CongregationName: "A", Date: day(2026, 6, 1), Status: reinforcement.StatusCompleted},
			{ID: "r2", CongregationName: "B", Date: day(2026, 6, 1), Status: reinforcement.StatusScheduled},
		}},
	}

	res, err := QueryGetDashboard(context.Background(), GetDashboardQuery{Now: now, UpcomingLimit: 2}, deps)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Congregations)
	assert.Equal(t, 2, res.ActiveCongregations)
	assert.Equal(t, 1, res.Members)
	assert.Equal(t, 1, res.ActiveMusicians)
	assert.Equal(t, 4, res.Events)
	assert.Equal(t, 3, res.EventsThisMonth)

	require.Len(t, res.UpcomingEvents, 2)
	assert.Equal(t, "morning", res.UpcomingEvents[0].ID)
	assert.Equal(t, "evening", res.UpcomingEvents[1].ID)

	require.Len(t, res.CurrentReinforcements, 1)
	assert.Equal(t, "r2", res.CurrentReinforcements[0].ID)
}

func TestQueryGetReports(t *testing.T) {
	deps := GetReportsDeps{
		ReportStore: &mockReportStore{list: []report.Generated{
			{ID: "g1", Name: "Relatório Mensal", Kind: report.KindMonthly, SizeBytes: 2048, CreatedAt: now},
		}},
		EventStore: &mockEventStore{list: []event.Event{
			{ID: "e1", Date: day(2026, 6, 3)},
			{ID: "e2", Date: day(2026, 6, 9)},
			{ID: "e3", Date: day(2026, 6, 12)},
			{ID: "e4", Date: day(2026, 5, 3)},
			{ID: "e5", Date: day(2026, 5, 4)},
			{ID: "old", Date: day(2025, 12, 31)},
		}},
		ReinforcementStore: &mockReinforcementStore{list: []reinforcement.Reinforcement{
			{ID: "r", Date: day(2026, 6, 1), Collected: 123456},
		}},
	}

	res, err := QueryGetReports(context.Background(), GetReportsQuery{Now: now}, deps)
	require.NoError(t, err)
	require.Len(t, res.Months, 6)
	assert.Equal(t, "Jan", res.Months[0].Label)
	assert.Equal(t, "Jun", res.Months[5].Label)
	assert.Equal(t, 3, res.Months[5].Events)
	assert.Equal(t, 0, res.Months[0].Events)
	assert.Equal(t, "+50%", res.Growth)
	assert.Equal(t, reinforcement.FormatBRL(123456), res.CollectedThisMonth)

	require.Len(t, res.Reports, 1)
	assert.Equal(t, "2.0 KB", res.Reports[0].SizeLabel)
	assert.Equal(t, "15/06/2026 10:00", res.Reports[0].CreatedLabel)
	assert.Equal(t, "Mensal", res.Reports[0].KindLabel)
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, "0%", growth(0, 0))
	assert.Equal(t, "+100%", growth(0, 4))
	assert.Equal(t, "-50%", growth(4, 2))
	assert.Equal(t, "+0%", growth(3, 3))
}

func TestQueryGetMusicians_Paginates(t *testing.T) {
	res, err := QueryGetMusicians(context.Background(), GetMusiciansQuery{
		Now:  now,
		Page: listutil.PageParams{Page: 2, PerPage: 2},
	}, musicalDeps())
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, 2, res.Pagination.Page)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.Equal(t, 5, res.Pagination.Total)
	// Aggregates still cover every musician.
	assert.Equal(t, 4, res.Active)
}

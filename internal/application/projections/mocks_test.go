package projections

import (
	"context"

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

type mockCongregationStore struct {
	list []congregation.Congregation
	err  error
}

// List returns the seeded congregations.
// PRE: filter is valid
// POST: Returns the seeded list or the seeded error
func (m *mockCongregationStore) List(_ context.Context, _ congregationStore.ListFilter) ([]congregation.Congregation, error) {
	return m.list, m.err
}

type mockMemberStore struct {
	list []ministry.Member
}

// List returns the seeded members of the filtered main congregation.
// PRE: filter is valid
// POST: Returns the matching seeded members
func (m *mockMemberStore) List(_ context.Context, f ministryStore.ListFilter) ([]ministry.Member, error) {
	var out []ministry.Member
	for _, mem := range m.list {
		if f.CongregationID == "" || mem.MainCongregationID == f.CongregationID {
			out = append(out, mem)
		}
	}
	return out, nil
}

type mockMusicianStore struct {
	list []musician.Musician
}

// List returns the seeded musicians.
// PRE: filter is valid
// POST: Returns all seeded musicians
func (m *mockMusicianStore) List(_ context.Context, _ musicianStore.ListFilter) ([]musician.Musician, error) {
	return m.list, nil
}

type mockEventStore struct {
	list []event.Event
}

// List returns the seeded events matching the congregation and type filter.
// PRE: filter is valid
// POST: Returns matching events in seeded order
func (m *mockEventStore) List(_ context.Context, f eventStore.ListFilter) ([]event.Event, error) {
	var out []event.Event
	for _, e := range m.list {
		if f.CongregationID != "" && e.CongregationID != f.CongregationID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type mockReinforcementStore struct {
	list []reinforcement.Reinforcement
}

// List returns the seeded reinforcements.
// PRE: filter is valid
// POST: Returns all seeded reinforcements
func (m *mockReinforcementStore) List(_ context.Context, _ reinforcementStore.ListFilter) ([]reinforcement.Reinforcement, error) {
	return m.list, nil
}

type mockReportStore struct {
	list []report.Generated
}

// List returns at most limit seeded reports.
// PRE: limit > 0
// POST: Returns the first limit seeded reports
func (m *mockReportStore) List(_ context.Context, limit int) ([]report.Generated, error) {
	return m.list[:min(limit, len(m.list))], nil
}

func seededCongregations() []congregation.Congregation {
	return []congregation.Congregation{
		{ID: "c1", Name: "Sede Central", City: "Belo Horizonte", State: "MG", Status: congregation.StatusActive},
		{ID: "c2", Name: "Congregação Norte", City: "Contagem", State: "MG", Status: congregation.StatusActive},
		{ID: "c3", Name: "Congregação Sul", State: "MG", Status: congregation.StatusUnderConstruction},
	}
}

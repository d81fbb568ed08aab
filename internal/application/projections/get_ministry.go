package projections

import (
	"context"
	"html/template"

	congregationStore "congrega/internal/adapters/storage/congregation"
	ministryStore "congrega/internal/adapters/storage/ministry"
	"congrega/internal/domain/congregation"
	"congrega/internal/domain/ministry"
)

// Ministry page tabs.
const (
	TabAll         = "todos"
	TabElders      = "anciaos"
	TabCooperators = "cooperadores"
	TabDeacons     = "diaconos"
)

// MinistryTabs lists the ministry tabs in display order.
var MinistryTabs = []StatusCount{
	{Key: TabAll, Label: "Todos"},
	{Key: TabElders, Label: "Anciões"},
	{Key: TabCooperators, Label: "Cooperadores"},
	{Key: TabDeacons, Label: "Diáconos/as"},
}

// GetMinistryQuery carries query parameters.
type GetMinistryQuery struct {
	Tab            string
	CongregationID string // optional main congregation filter
}

// MemberRow is one table row of the ministry page.
type MemberRow struct {
	ministry.Member
	RoleLabel            string
	MainCongregationName string
	ServedNames          []string
	OrdinationLabel      string
	NotesHTML            template.HTML
}

// GetMinistryResult carries the query result.
type GetMinistryResult struct {
	Rows          []MemberRow
	Total         int
	RoleCounts    []StatusCount
	Tabs          []StatusCount
	Tab           string
	Congregations []congregation.Congregation // options of the member form
}

// GetMinistryDeps holds dependencies for GetMinistry.
type GetMinistryDeps struct {
	CongregationStore CongregationStore
	MemberStore       MemberStore
}

// QueryGetMinistry lists ministry members with role counts and congregation names.
// PRE: none
// POST: RoleCounts and Tabs count all listed members; Rows hold the selected tab only
// INVARIANT: deacons and deaconesses share one tab
func QueryGetMinistry(ctx context.Context, query GetMinistryQuery, deps GetMinistryDeps) (GetMinistryResult, error) {
	congregations, err := deps.CongregationStore.List(ctx, congregationStore.ListFilter{})
	if err != nil {
		return GetMinistryResult{}, err
	}
	members, err := deps.MemberStore.List(ctx, ministryStore.ListFilter{CongregationID: query.CongregationID})
	if err != nil {
		return GetMinistryResult{}, err
	}

	tab := query.Tab
	if tabOf(tab) == nil {
		tab = TabAll
	}
	names := congregationNames(congregations)
	byRole := make(map[string]int, len(ministry.ValidRoles))
	byTab := make(map[string]int, len(MinistryTabs))
	rows := make([]MemberRow, 0, len(members))
	for _, m := range members {
		byRole[m.Role]++
		byTab[TabAll]++
		memberTab := tabForRole(m.Role)
		byTab[memberTab]++
		if tab != TabAll && tab != memberTab {
			continue
		}
		rows = append(rows, memberRow(m, names))
	}

	tabs := make([]StatusCount, len(MinistryTabs))
	for i, t := range MinistryTabs {
		t.Count = byTab[t.Key]
		tabs[i] = t
	}

	return GetMinistryResult{
		Rows:          rows,
		Total:         len(members),
		RoleCounts:    countsFor(ministry.ValidRoles, ministry.RoleLabels, byRole),
		Tabs:          tabs,
		Tab:           tab,
		Congregations: congregations,
	}, nil
}

func memberRow(m ministry.Member, names map[string]string) MemberRow {
	row := MemberRow{
		Member:               m,
		RoleLabel:            m.RoleLabel(),
		MainCongregationName: names[m.MainCongregationID],
		NotesHTML:            RenderMarkdown(m.Notes),
	}
	if !m.OrdinationDate.IsZero() {
		row.OrdinationLabel = m.OrdinationDate.Format("02/01/2006")
	}
	for _, id := range m.ServedCongregationIDs {
		if name, ok := names[id]; ok {
			row.ServedNames = append(row.ServedNames, name)
		}
	}
	return row
}

func tabForRole(role string) string {
	switch role {
	case ministry.RoleElder:
		return TabElders
	case ministry.RoleCooperator:
		return TabCooperators
	case ministry.RoleDeacon, ministry.RoleDeaconess:
		return TabDeacons
	}
	return ""
}

func tabOf(key string) *StatusCount {
	for i := range MinistryTabs {
		if MinistryTabs[i].Key == key {
			return &MinistryTabs[i]
		}
	}
	return nil
}

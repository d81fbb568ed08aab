package listutil

import (
	"net/url"
	"slices"
	"testing"
)

// TestParsePageParams covers defaults, valid values and clamping.
func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  PageParams
	}{
		{name: "defaults", query: url.Values{}, want: PageParams{Page: 1, PerPage: DefaultPerPage}},
		{name: "valid", query: url.Values{"pagina": {"3"}, "por_pagina": {"50"}}, want: PageParams{Page: 3, PerPage: 50}},
		{name: "per page not offered", query: url.Values{"por_pagina": {"33"}}, want: PageParams{Page: 1, PerPage: DefaultPerPage}},
		{name: "negative page", query: url.Values{"pagina": {"-1"}}, want: PageParams{Page: 1, PerPage: DefaultPerPage}},
		{name: "garbage", query: url.Values{"pagina": {"x"}, "por_pagina": {"y"}}, want: PageParams{Page: 1, PerPage: DefaultPerPage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePageParams(tt.query); got != tt.want {
				t.Errorf("ParsePageParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestNewPageInfo verifies page counting and clamping.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantPage, wantPages  int
		wantStart, wantEnd   int
	}{
		{name: "first of three", page: 1, perPage: 10, total: 25, wantPage: 1, wantPages: 3, wantStart: 1, wantEnd: 10},
		{name: "last partial", page: 3, perPage: 10, total: 25, wantPage: 3, wantPages: 3, wantStart: 21, wantEnd: 25},
		{name: "beyond last", page: 9, perPage: 10, total: 25, wantPage: 3, wantPages: 3, wantStart: 21, wantEnd: 25},
		{name: "empty", page: 1, perPage: 10, total: 0, wantPage: 1, wantPages: 1, wantStart: 0, wantEnd: 0},
		{name: "paging off", page: 1, perPage: 0, total: 40, wantPage: 1, wantPages: 1, wantStart: 1, wantEnd: 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageInfo(tt.page, tt.perPage, tt.total)
			if p.Page != tt.wantPage || p.TotalPages != tt.wantPages {
				t.Errorf("page %d of %d, want %d of %d", p.Page, p.TotalPages, tt.wantPage, tt.wantPages)
			}
			if p.StartRow() != tt.wantStart || p.EndRow() != tt.wantEnd {
				t.Errorf("rows %d-%d, want %d-%d", p.StartRow(), p.EndRow(), tt.wantStart, tt.wantEnd)
			}
		})
	}
}

// TestPaginate verifies the returned slice matches the page metadata.
func TestPaginate(t *testing.T) {
	rows := make([]int, 23)
	for i := range rows {
		rows[i] = i + 1
	}

	got, info := Paginate(rows, PageParams{Page: 3, PerPage: 10})
	if !slices.Equal(got, []int{21, 22, 23}) {
		t.Errorf("page 3 = %v", got)
	}
	if info.Prev() != 2 || info.Next() != 0 {
		t.Errorf("prev/next = %d/%d, want 2/0", info.Prev(), info.Next())
	}

	got, info = Paginate(rows, PageParams{})
	if len(got) != len(rows) || info.ShowPagination() {
		t.Errorf("zero params should return every row on one page, got %d rows", len(got))
	}

	got, _ = Paginate([]int(nil), PageParams{Page: 2, PerPage: 10})
	if len(got) != 0 {
		t.Errorf("empty input returned %v", got)
	}
}

// TestPageNumbers verifies the window of page buttons.
func TestPageNumbers(t *testing.T) {
	tests := []struct {
		page, totalPages int
		want             []int
	}{
		{page: 1, totalPages: 3, want: []int{1, 2, 3}},
		{page: 1, totalPages: 10, want: []int{1, 2, 3, 4, 5}},
		{page: 6, totalPages: 10, want: []int{4, 5, 6, 7, 8}},
		{page: 10, totalPages: 10, want: []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		p := NewPageInfo(tt.page, 10, tt.totalPages*10)
		if got := p.PageNumbers(); !slices.Equal(got, tt.want) {
			t.Errorf("page %d of %d: got %v, want %v", tt.page, tt.totalPages, got, tt.want)
		}
	}
}

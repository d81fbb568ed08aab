// Package listutil splits table rows into pages for the list views.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
)

// Query keys read by ParsePageParams.
const (
	PageKey    = "pagina"
	PerPageKey = "por_pagina"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 25

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 25, 50, 100}

// PageParams carries the requested page.
// The zero value means "everything on one page".
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page; 0 disables paging
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage)
}

// ParsePageParams extracts pagina and por_pagina from URL query values.
// PRE: none
// POST: returns PageParams with Page >= 1 and PerPage in PerPageOptions
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get(PageKey))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get(PerPageKey))
	if !slices.Contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages >= 1; Page clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = max(total, 1)
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	page = min(max(page, 1), totalPages)
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Paginate returns the rows of the requested page and its metadata.
// An out-of-range page yields the last page.
func Paginate[T any](rows []T, p PageParams) ([]T, PageInfo) {
	info := NewPageInfo(p.Page, p.PerPage, len(rows))
	end := min(info.Offset()+info.PerPage, len(rows))
	return rows[info.Offset():end], info
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page.
// POST: Returns 0 if Total is 0, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// PageNumbers returns at most 5 page numbers centred on the current page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := max(p.Page-maxButtons/2, 1)
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = max(end-maxButtons+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination reports whether there is more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}

// Prev returns the previous page number, or 0 on the first page.
func (p PageInfo) Prev() int {
	if p.Page <= 1 {
		return 0
	}
	return p.Page - 1
}

// Next returns the next page number, or 0 on the last page.
func (p PageInfo) Next() int {
	if p.Page >= p.TotalPages {
		return 0
	}
	return p.Page + 1
}

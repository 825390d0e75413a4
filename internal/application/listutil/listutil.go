// Package listutil parses list view parameters and pages in-memory result sets.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Params are the list view parameters of one request.
type Params struct {
	Page    int    // 1-indexed page number
	PerPage int    // rows per page
	Sort    string // allowed column name or ""
	Desc    bool
	Search  string // trimmed free-text query
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int
	Total      int // total matching rows
	TotalPages int
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 25

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 25, 50, 100}

// Parse extracts page, per_page, sort, dir and q from query values.
// PRE: allowedSort lists the sortable column names
// POST: Page >= 1; PerPage is one of PerPageOptions; Sort is allowed or empty
func Parse(q url.Values, allowedSort []string) Params {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !slices.Contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	sort := q.Get("sort")
	if !slices.Contains(allowedSort, sort) {
		sort = ""
	}
	return Params{
		Page:    page,
		PerPage: perPage,
		Sort:    sort,
		Desc:    q.Get("dir") == "desc",
		Search:  strings.TrimSpace(q.Get("q")),
	}
}

// Matches reports whether any of fields contains the search term, case-insensitively.
// An empty term matches everything.
func Matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages >= 1; Page clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page, or 0 when empty.
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

// PageNumbers returns at most 5 page numbers centered on the current page.
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
	return p.Total > p.PerPage
}

// Slice returns the rows of items that fall on the page described by info.
// POST: never returns nil
func Slice[T any](items []T, info PageInfo) []T {
	start := min(info.Offset(), len(items))
	end := min(start+info.PerPage, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

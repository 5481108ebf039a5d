package pagination

import (
	"math"
	"slices"
)

// PageSizes are the page sizes offered by list views.
var PageSizes = []int{10, 20, 50, 100}

// DefaultPerPage is the page size used when none (or an unknown one) is requested.
const DefaultPerPage = 10

// Pagination represents pagination parameters
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams represents input parameters for pagination
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns default pagination values
func DefaultPagination() *PaginationParams {
	return &PaginationParams{
		Page:    1,
		PerPage: DefaultPerPage,
	}
}

// Validate ensures pagination parameters are within valid ranges
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if !slices.Contains(PageSizes, p.PerPage) {
		p.PerPage = DefaultPerPage
	}
}

// Offset calculates the offset of the first row on the page
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages < 1 {
		totalPages = 1
	}

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// Pages lists every page number, for rendering page links.
func (p *Pagination) Pages() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// PrevPage returns the page before the current one.
func (p *Pagination) PrevPage() int {
	return p.CurrentPage - 1
}

// NextPage returns the page after the current one.
func (p *Pagination) NextPage() int {
	return p.CurrentPage + 1
}

// PaginatedResult represents a paginated result with items and pagination info
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult creates a new paginated result
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	return &PaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}

// Paginate slices an already loaded collection. A page past the end is
// clamped to the last page.
func Paginate[T any](items []T, params *PaginationParams) *PaginatedResult[T] {
	if params == nil {
		params = DefaultPagination()
	}
	params.Validate()

	total := len(items)
	pg := NewPagination(params.Page, params.PerPage, int64(total))
	if params.Page > pg.TotalPages {
		params.Page = pg.TotalPages
		pg = NewPagination(params.Page, params.PerPage, int64(total))
	}

	start := min(params.Offset(), total)
	end := min(start+params.PerPage, total)
	page := make([]T, end-start)
	copy(page, items[start:end])

	return NewPaginatedResult(page, pg)
}

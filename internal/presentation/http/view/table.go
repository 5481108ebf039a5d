package view

import (
	"net/url"
	"strconv"

	"github.com/sangkips/invoice-console/pkg/pagination"
)

// Row is one record of a list table. Empty URLs hide the matching action.
type Row struct {
	Cells       []string
	EditURL     string
	DeleteURL   string
	DownloadURL string
}

// Table is a list section with its add button and pager.
type Table struct {
	Key      string
	Heading  string
	AddLabel string
	AddURL   string
	// PostActions makes add and edit submit a form instead of following a link.
	PostActions bool
	Columns     []string
	Rows        []Row
	Pager       *Pager
}

// PageLink is one numbered page of a pager.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// SizeLink switches the page size.
type SizeLink struct {
	Size    int
	URL     string
	Current bool
}

// Pager links the pages of a table. Every table on a page has its own
// query parameters so they page independently.
type Pager struct {
	*pagination.Pagination
	Links   []PageLink
	Sizes   []SizeLink
	PrevURL string
	NextURL string
}

// PageParam and SizeParam name the query parameters of the table key.
func PageParam(key string) string { return key + "_page" }
func SizeParam(key string) string { return key + "_size" }

// ParamsFor reads the paging parameters of table key from query.
func ParamsFor(key string, query url.Values) *pagination.PaginationParams {
	params := pagination.DefaultPagination()
	if n, err := strconv.Atoi(query.Get(PageParam(key))); err == nil {
		params.Page = n
	}
	if n, err := strconv.Atoi(query.Get(SizeParam(key))); err == nil {
		params.PerPage = n
	}
	params.Validate()
	return params
}

// NewPager builds the links of table key at path. Other query parameters
// are kept, except the open form.
func NewPager(key, path string, query url.Values, pg *pagination.Pagination) *Pager {
	link := func(page, size int) string {
		q := url.Values{}
		for k, v := range query {
			if k == "form" || k == "id" {
				continue
			}
			q[k] = v
		}
		q.Set(PageParam(key), strconv.Itoa(page))
		q.Set(SizeParam(key), strconv.Itoa(size))
		return path + "?" + q.Encode()
	}

	p := &Pager{Pagination: pg}
	for _, n := range pg.Pages() {
		p.Links = append(p.Links, PageLink{Number: n, URL: link(n, pg.PerPage), Current: n == pg.CurrentPage})
	}
	for _, size := range pagination.PageSizes {
		p.Sizes = append(p.Sizes, SizeLink{Size: size, URL: link(1, size), Current: size == pg.PerPage})
	}
	if pg.HasPrev {
		p.PrevURL = link(pg.PrevPage(), pg.PerPage)
	}
	if pg.HasNext {
		p.NextURL = link(pg.NextPage(), pg.PerPage)
	}
	return p
}

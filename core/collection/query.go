// Package collection is the paginate/filter/search contract shared by every admin list screen.
package collection

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the server side page size of every admin list endpoint.
const DefaultPageSize = 10

// Query is the state of a list screen. Page is 1-based; an empty filter value means "unset".
type Query struct {
	Page    int
	Filters map[string]string
	Search  string
}

// NewQuery returns the query of a freshly mounted screen.
func NewQuery() Query {
	return Query{Page: 1, Filters: map[string]string{}}
}

func (q Query) clone() Query {
	filters := make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		filters[k] = v
	}
	q.Filters = filters
	return q
}

// Filter returns the value of a filter, "" when unset.
func (q Query) Filter(key string) string {
	return q.Filters[key]
}

// OnFilterChange sets a filter and goes back to the first page.
func OnFilterChange(q Query, key, value string) Query {
	q = q.clone()
	q.Filters[key] = strings.TrimSpace(value)
	q.Page = 1
	return q
}

// OnSearchChange sets the search term and goes back to the first page.
func OnSearchChange(q Query, search string) Query {
	q = q.clone()
	q.Search = strings.TrimSpace(search)
	q.Page = 1
	return q
}

// OnPageChange moves to page. Out of range pages leave the query untouched;
// totalPages <= 0 means the page count is not known yet.
func OnPageChange(q Query, page, totalPages int) Query {
	if page < 1 || (totalPages > 0 && page > totalPages) {
		return q
	}
	q = q.clone()
	q.Page = page
	return q
}

// Request describes the GET call for one page of a resource.
type Request struct {
	Resource string // e.g. "admin/users/"
	Params   url.Values
}

// BuildRequest serializes the query. Empty filter values are never sent; search only when set.
func BuildRequest(resource string, q Query) Request {
	params := make(url.Values)
	page := q.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	for key, value := range q.Filters {
		if value == "" {
			continue
		}
		params.Set(key, value)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	return Request{Resource: resource, Params: params}
}

// String returns the relative URL; url.Values.Encode sorts keys so the result is deterministic.
func (r Request) String() string {
	if len(r.Params) == 0 {
		return r.Resource
	}
	return r.Resource + "?" + r.Params.Encode()
}

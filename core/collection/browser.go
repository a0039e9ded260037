package collection

import (
	"context"
	"sync"

	"github.com/codegrow/frontend/core"
)

type (
	// Fetcher performs the GET described by req and returns the normalized response.
	Fetcher[T any] func(ctx context.Context, req Request) (Result[T], error)

	Options struct {
		PageSize int
		Query    Query  // initial query; NewQuery() when zero
		OnStale  func() // called whenever a response is discarded
	}

	State[T any] struct {
		Query   Query
		Page    Page[T]
		Loading bool
		Err     error
		Loaded  bool // at least one load succeeded
	}

	// Browser owns the state of one admin list screen. Only the latest request may update it.
	Browser[T Item] struct {
		resource string
		fetch    Fetcher[T]
		pageSize int
		onStale  func()
		seq      core.Sequence

		mu    sync.Mutex
		state State[T]
	}
)

func NewBrowser[T Item](resource string, fetch Fetcher[T], opts Options) *Browser[T] {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	q := opts.Query
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Filters == nil {
		q.Filters = map[string]string{}
	}
	return &Browser[T]{
		resource: resource,
		fetch:    fetch,
		pageSize: opts.PageSize,
		onStale:  opts.OnStale,
		state: State[T]{
			Query: q,
			Page:  Page[T]{Items: []T{}, PageSize: opts.PageSize, CurrentPage: q.Page},
		},
	}
}

// Load fetches the page for the current query. The returned error is the raw fetch error
// (so callers can react to e.g. authentication failures), or core.ErrStale when the response
// was superseded by a newer request or the browser was disposed. A failed load keeps the
// last-good items.
func (b *Browser[T]) Load(ctx context.Context) error {
	b.mu.Lock()
	if b.seq.Disposed() {
		b.mu.Unlock()
		return core.ErrStale
	}
	ticket := b.seq.Begin()
	q := b.state.Query
	b.state.Loading = true
	b.mu.Unlock()

	res, err := b.fetch(ctx, BuildRequest(b.resource, q))

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.seq.IsCurrent(ticket) {
		if b.onStale != nil {
			b.onStale()
		}
		return core.ErrStale
	}
	b.state.Loading = false
	if err != nil {
		b.state.Err = err
		return err
	}
	b.state.Page = NewPage(res, q, b.pageSize)
	b.state.Err = nil
	b.state.Loaded = true
	return nil
}

// SetFilter changes a filter (back to page 1) and reloads.
func (b *Browser[T]) SetFilter(ctx context.Context, key, value string) error {
	b.mu.Lock()
	b.state.Query = OnFilterChange(b.state.Query, key, value)
	b.mu.Unlock()
	return b.Load(ctx)
}

// SetSearch changes the search term (back to page 1) and reloads.
func (b *Browser[T]) SetSearch(ctx context.Context, search string) error {
	b.mu.Lock()
	b.state.Query = OnSearchChange(b.state.Query, search)
	b.mu.Unlock()
	return b.Load(ctx)
}

// SetPage moves to page and reloads. Out of range pages are ignored and nothing is fetched.
func (b *Browser[T]) SetPage(ctx context.Context, page int) error {
	b.mu.Lock()
	totalPages := 0
	if b.state.Loaded {
		totalPages = b.state.Page.TotalPages()
	}
	q := OnPageChange(b.state.Query, page, totalPages)
	if q.Page != page {
		b.mu.Unlock()
		return nil
	}
	b.state.Query = q
	b.mu.Unlock()
	return b.Load(ctx)
}

// Delete calls del and, only when it succeeds, removes the item locally.
func (b *Browser[T]) Delete(ctx context.Context, id int64, del func(ctx context.Context, id int64) error) error {
	if err := del(ctx, id); err != nil {
		return err
	}
	b.mu.Lock()
	b.state.Page = ApplyDeletion(b.state.Page, id)
	b.mu.Unlock()
	return nil
}

// Toggle calls update and, only when it succeeds, replaces field on the item locally.
func Toggle[T Toggler[T]](
	ctx context.Context,
	b *Browser[T],
	id int64,
	field string,
	value interface{},
	update func(ctx context.Context, id int64) error,
) error {
	if err := update(ctx, id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	page, err := ApplyFieldToggle(b.state.Page, id, field, value)
	if err != nil {
		return err
	}
	b.state.Page = page
	return nil
}

// Dispose stops any in-flight request from touching the state.
func (b *Browser[T]) Dispose() {
	b.mu.Lock()
	b.seq.Dispose()
	b.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (b *Browser[T]) Snapshot() State[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	state := b.state
	state.Query = b.state.Query.clone()
	state.Page.Items = append(make([]T, 0, len(b.state.Page.Items)), b.state.Page.Items...)
	return state
}

func (s State[T]) Status() core.ViewStatus {
	return core.ResolveStatus(s.Loading, s.Err)
}

func (s State[T]) TotalPages() int {
	return s.Page.TotalPages()
}

// Empty reports a populated view without results ("no results", not "error").
func (s State[T]) Empty() bool {
	return s.Status() == core.StatusPopulated && len(s.Page.Items) == 0
}

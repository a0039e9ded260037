package collection

import (
	"github.com/pkg/errors"
)

// ErrUnknownField is returned by Toggler implementations for fields they cannot set.
var ErrUnknownField = errors.New("unknown field")

type (
	// Item is anything listed by an admin screen.
	Item interface {
		ItemID() int64
	}

	// Toggler is an Item whose fields can be replaced by name, e.g. "is_active".
	Toggler[T any] interface {
		Item
		WithField(field string, value interface{}) (T, error)
	}

	// Result is the normalized shape of every list response.
	Result[T any] struct {
		Items []T
		Count int
	}

	// Page is one page of a server side paginated collection.
	Page[T any] struct {
		Items       []T `json:"items"`
		TotalCount  int `json:"count"`
		PageSize    int `json:"page_size"`
		CurrentPage int `json:"current_page"`
	}
)

// NewPage builds the page q asked for out of a normalized response.
func NewPage[T any](res Result[T], q Query, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	items := res.Items
	if items == nil {
		items = []T{}
	}
	count := res.Count
	if count < 0 {
		count = 0
	}
	current := q.Page
	if current < 1 {
		current = 1
	}
	return Page[T]{Items: items, TotalCount: count, PageSize: pageSize, CurrentPage: current}
}

// TotalPages is ceil(TotalCount / PageSize).
func (p Page[T]) TotalPages() int {
	if p.PageSize < 1 || p.TotalCount <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

func indexOf[T Item](items []T, id int64) int {
	for i, item := range items {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}

// ApplyDeletion drops the item with id and decrements TotalCount, without a round-trip.
// Only call it once the server confirmed the delete. Unknown ids leave the page untouched.
func ApplyDeletion[T Item](p Page[T], id int64) Page[T] {
	i := indexOf(p.Items, id)
	if i < 0 {
		return p
	}
	items := make([]T, 0, len(p.Items)-1)
	items = append(items, p.Items[:i]...)
	items = append(items, p.Items[i+1:]...)
	p.Items = items
	if p.TotalCount > 0 {
		p.TotalCount--
	}
	return p
}

// ApplyFieldToggle replaces field on the item with id, without re-fetching the page.
// Only call it once the server confirmed the change. Unknown ids leave the page untouched.
func ApplyFieldToggle[T Toggler[T]](p Page[T], id int64, field string, value interface{}) (Page[T], error) {
	i := indexOf(p.Items, id)
	if i < 0 {
		return p, nil
	}
	updated, err := p.Items[i].WithField(field, value)
	if err != nil {
		return p, errors.Wrapf(err, "setting %q on item %d", field, id)
	}
	items := make([]T, len(p.Items))
	copy(items, p.Items)
	items[i] = updated
	p.Items = items
	return p, nil
}

package activity

import (
	"context"
	"sync"

	"github.com/codegrow/frontend/core"
)

type (
	// Source fetches the raw activity records of the current user.
	Source func(ctx context.Context) ([]Record, error)

	// Listener delivers "activity updated" notifications.
	Listener interface {
		Listen(ctx context.Context) <-chan struct{}
	}

	FeedState struct {
		Items   []FeedItem
		Loading bool
		Err     error
		Loaded  bool // at least one load succeeded
	}

	// Feed holds the state of an activity view.
	Feed struct {
		source  Source
		seq     core.Sequence
		onStale func()

		mu    sync.Mutex
		state FeedState
	}
)

func NewFeed(source Source) *Feed {
	return &Feed{source: source}
}

// OnStale registers a hook called whenever a response is discarded.
func (f *Feed) OnStale(fn func()) {
	f.mu.Lock()
	f.onStale = fn
	f.mu.Unlock()
}

// Load fetches and reconciles the feed. A response superseded by a newer Load, or arriving after
// Dispose, is dropped and core.ErrStale is returned. On failure the previous items are kept.
func (f *Feed) Load(ctx context.Context) error {
	f.mu.Lock()
	if f.seq.Disposed() {
		f.mu.Unlock()
		return core.ErrStale
	}
	ticket := f.seq.Begin()
	f.state.Loading = true
	f.mu.Unlock()

	records, err := f.source(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.seq.IsCurrent(ticket) {
		if f.onStale != nil {
			f.onStale()
		}
		return core.ErrStale
	}
	f.state.Loading = false
	if err != nil {
		f.state.Err = err
		return err
	}
	f.state.Items = Reconcile(records)
	f.state.Err = nil
	f.state.Loaded = true
	return nil
}

// Watch reloads the feed once per notification until ctx is done.
// Load errors stay in the state; they do not stop the loop.
func (f *Feed) Watch(ctx context.Context, l Listener) error {
	updates := l.Listen(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-updates:
			if !ok {
				return ctx.Err()
			}
			_ = f.Load(ctx)
		}
	}
}

// Dispose stops any in-flight request from touching the state.
func (f *Feed) Dispose() {
	f.mu.Lock()
	f.seq.Dispose()
	f.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (f *Feed) Snapshot() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := f.state
	state.Items = append(make([]FeedItem, 0, len(f.state.Items)), f.state.Items...)
	return state
}

func (s FeedState) Status() core.ViewStatus {
	return core.ResolveStatus(s.Loading, s.Err)
}

func (s FeedState) Empty() bool {
	return len(s.Items) == 0
}

package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegrow/frontend/core"
	"github.com/codegrow/frontend/core/notify"
)

// gatedSource returns responses in the order the test releases them.
type gatedSource struct {
	mu    sync.Mutex
	calls int
	gates []chan []Record
}

func newGatedSource(n int) *gatedSource {
	src := &gatedSource{}
	for i := 0; i < n; i++ {
		src.gates = append(src.gates, make(chan []Record, 1))
	}
	return src
}

func (s *gatedSource) fetch(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	gate := s.gates[s.calls]
	s.calls++
	s.mu.Unlock()
	return <-gate, nil
}

func (s *gatedSource) started() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestFeed_Load(t *testing.T) {
	feed := NewFeed(func(ctx context.Context) ([]Record, error) {
		return []Record{
			rec(1, TypeLessonCompleted, 50, t0),
			rec(2, TypeXPEarned, 50, t0.Add(time.Second)),
		}, nil
	})
	assert.Equal(t, core.StatusPopulated, feed.Snapshot().Status())
	assert.False(t, feed.Snapshot().Loaded)

	require.NoError(t, feed.Load(context.Background()))
	state := feed.Snapshot()
	assert.True(t, state.Loaded)
	assert.Equal(t, []int64{1}, ids(state.Items))
	assert.Equal(t, core.StatusPopulated, state.Status())
}

func TestFeed_LoadErrorKeepsLastGoodItems(t *testing.T) {
	fail := false
	errBoom := errors.New("boom")
	feed := NewFeed(func(ctx context.Context) ([]Record, error) {
		if fail {
			return nil, errBoom
		}
		return []Record{rec(1, TypeLevelUp, 0, t0)}, nil
	})
	require.NoError(t, feed.Load(context.Background()))

	fail = true
	assert.Equal(t, errBoom, feed.Load(context.Background()))
	state := feed.Snapshot()
	assert.Equal(t, core.StatusError, state.Status())
	assert.Equal(t, []int64{1}, ids(state.Items))
}

func TestFeed_StaleResponseIsDiscarded(t *testing.T) {
	src := newGatedSource(2)
	feed := NewFeed(src.fetch)
	var stale int
	feed.OnStale(func() { stale++ })

	errA := make(chan error, 1)
	go func() { errA <- feed.Load(context.Background()) }()
	require.Eventually(t, func() bool { return src.started() == 1 }, time.Second, time.Millisecond)

	errB := make(chan error, 1)
	go func() { errB <- feed.Load(context.Background()) }()
	require.Eventually(t, func() bool { return src.started() == 2 }, time.Second, time.Millisecond)

	// B resolves first, then A
	src.gates[1] <- []Record{rec(2, TypeLevelUp, 0, t0)}
	require.NoError(t, <-errB)
	src.gates[0] <- []Record{rec(1, TypeLevelUp, 0, t0)}
	assert.Equal(t, core.ErrStale, <-errA)

	assert.Equal(t, []int64{2}, ids(feed.Snapshot().Items))
	assert.False(t, feed.Snapshot().Loading)
	assert.Equal(t, 1, stale)
}

func TestFeed_Dispose(t *testing.T) {
	src := newGatedSource(1)
	feed := NewFeed(src.fetch)

	errc := make(chan error, 1)
	go func() { errc <- feed.Load(context.Background()) }()
	require.Eventually(t, func() bool { return src.started() == 1 }, time.Second, time.Millisecond)

	feed.Dispose()
	src.gates[0] <- []Record{rec(1, TypeLevelUp, 0, t0)}
	assert.Equal(t, core.ErrStale, <-errc)
	assert.Empty(t, feed.Snapshot().Items)
	assert.Equal(t, core.ErrStale, feed.Load(context.Background()))
}

func TestFeed_WatchReloadsOnNotification(t *testing.T) {
	var mu sync.Mutex
	loads := 0
	feed := NewFeed(func(ctx context.Context) ([]Record, error) {
		mu.Lock()
		defer mu.Unlock()
		loads++
		return []Record{rec(int64(loads), TypeLevelUp, 0, t0)}, nil
	})
	bus := notify.NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Watch(ctx, bus) }()

	require.Eventually(t, func() bool { return bus.Len() == 1 }, time.Second, time.Millisecond)
	bus.Publish()
	assert.Eventually(t, func() bool {
		items := feed.Snapshot().Items
		return len(items) == 1 && items[0].ID == 1
	}, time.Second, time.Millisecond)

	cancel()
	assert.Equal(t, context.Canceled, <-done)
}

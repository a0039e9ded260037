// Package notify carries the "activity updated" signal from the places that earn XP
// (lessons, quizzes, study sessions) to the views that display activity.
package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Publisher is what emitters depend on.
type Publisher interface {
	Publish()
}

// Subscriber is what listeners depend on.
type Subscriber interface {
	Subscribe(fn func()) (unsubscribe func())
}

// Bus is a payload-less observer list. It is not a queue: a Publish reaches the
// subscribers registered at that moment, once each.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]func() // subscriberID -> callback
}

var (
	_ Publisher  = (*Bus)(nil)
	_ Subscriber = (*Bus)(nil)
)

func NewBus() *Bus {
	return &Bus{subs: make(map[string]func())}
}

// Subscribe registers fn and returns the func that removes it. Calling it twice is harmless.
func (b *Bus) Subscribe(fn func()) func() {
	id := uuid.New().String()
	b.mu.Lock()
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish calls every current subscriber once, outside the lock.
func (b *Bus) Publish() {
	b.mu.RLock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Listen adapts the bus to a channel for select loops. Notifications that arrive while one
// is already pending are coalesced. The channel is closed once ctx is done.
func (b *Bus) Listen(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	var mu sync.Mutex
	closed := false

	unsubscribe := b.Subscribe(func() {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()
	return ch
}

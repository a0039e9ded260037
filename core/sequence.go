package core

import "sync"

// Sequence hands out monotonically increasing request tickets so that only the
// latest request of a view may update its state (last request wins).
type Sequence struct {
	mu       sync.Mutex
	last     uint64
	disposed bool
}

// Begin issues a new ticket. Every ticket issued before it becomes stale.
func (s *Sequence) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}

// IsCurrent reports whether ticket is still the latest one and the owner is not disposed.
func (s *Sequence) IsCurrent(ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.disposed && ticket == s.last
}

// Dispose invalidates every outstanding and future ticket.
func (s *Sequence) Dispose() {
	s.mu.Lock()
	s.disposed = true
	s.mu.Unlock()
}

func (s *Sequence) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

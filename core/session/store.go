package session

import "sync"

// MemoryStore keeps credentials for the lifetime of the process (web requests, tests).
type MemoryStore struct {
	mu    sync.Mutex
	creds *Credentials
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return Credentials{}, ErrNoSession
	}
	return *m.creds, nil
}

func (m *MemoryStore) Save(creds Credentials) error {
	m.mu.Lock()
	m.creds = &creds
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.creds = nil
	m.mu.Unlock()
	return nil
}

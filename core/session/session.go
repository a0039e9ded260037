// Package session holds the authenticated user of a host (CLI or web request) and
// tells interested parties when it changes.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core"
)

// ErrNoSession is returned by a Store that has nothing persisted.
var ErrNoSession = errors.New("no session")

type (
	Credentials struct {
		Token    string    `json:"token"`
		Username string    `json:"username"`
		IsAdmin  bool      `json:"is_admin"`
		SavedAt  time.Time `json:"saved_at"`
	}

	// Store persists credentials between runs.
	Store interface {
		Load() (Credentials, error)
		Save(creds Credentials) error
		Clear() error
	}

	Event string
)

const (
	EventLogin  Event = "login"
	EventLogout Event = "logout"
)

// Session is the explicit, injected replacement for a global token.
// Lifecycle: Init reads the persisted token, Login/Logout mutate it and notify subscribers.
type Session struct {
	store  Store
	logger core.Logger

	mu    sync.RWMutex
	creds Credentials
	subs  map[string]func(Event)
}

func New(store Store, logger core.Logger) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Session{store: store, logger: logger, subs: make(map[string]func(Event))}
}

// Init loads the persisted credentials, if any. A missing session is not an error.
func (s *Session) Init() error {
	creds, err := s.store.Load()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil
		}
		return errors.Wrap(err, "loading session")
	}
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return nil
}

func (s *Session) Login(creds Credentials) error {
	if creds.Token == "" {
		return errors.New("empty token")
	}
	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now().UTC()
	}
	if err := s.store.Save(creds); err != nil {
		return errors.Wrap(err, "saving session")
	}
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	s.notify(EventLogin)
	return nil
}

// Logout clears the credentials. Subscribers are only told when a user was actually logged in,
// so a burst of 401s tears the session down once.
func (s *Session) Logout() error {
	s.mu.Lock()
	wasAuthenticated := s.creds.Token != ""
	s.creds = Credentials{}
	s.mu.Unlock()

	err := s.store.Clear()
	if wasAuthenticated {
		s.notify(EventLogout)
	}
	if err != nil {
		return errors.Wrap(err, "clearing session")
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Subscribe registers fn for login/logout events and returns the func that removes it.
func (s *Session) Subscribe(fn func(Event)) func() {
	id := uuid.New().String()
	s.mu.Lock()
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) notify(evt Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	s.logger.Debug("session "+string(evt), map[string]interface{}{"subscribers": len(fns)})
	for _, fn := range fns {
		fn(evt)
	}
}

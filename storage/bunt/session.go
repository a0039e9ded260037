package bunt

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/buntdb"

	"github.com/codegrow/frontend/core/session"
)

const sessionKey = "session:current"

type SessionStore struct {
	db *buntdb.DB
}

var _ session.Store = (*SessionStore)(nil)

func NewSessionStore(db *buntdb.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Load() (session.Credentials, error) {
	var creds session.Credentials
	err := s.db.View(func(tx *buntdb.Tx) error {
		serialized, err := tx.Get(sessionKey)
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(serialized), &creds)
	})
	switch {
	case err == nil:
		return creds, nil
	case errors.Is(err, buntdb.ErrNotFound):
		return session.Credentials{}, session.ErrNoSession
	default:
		return session.Credentials{}, errors.Wrap(err, "bunt view")
	}
}

func (s *SessionStore) Save(creds session.Credentials) error {
	serialized, err := json.Marshal(&creds)
	if err != nil {
		return errors.Wrap(err, "session serialize")
	}
	err = s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(sessionKey, string(serialized), nil)
		return err
	})
	return errors.Wrap(err, "bunt update")
}

func (s *SessionStore) Clear() error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(sessionKey)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		return err
	})
	return errors.Wrap(err, "bunt update")
}

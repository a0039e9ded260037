// Package bunt persists the CLI session in a buntdb file.
package bunt

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tidwall/buntdb"

	"github.com/codegrow/frontend/core"
)

const memory = ":memory:"

// Open opens (or creates) the database at conf.Session.Path.
func Open(conf *core.Config) (*buntdb.DB, error) {
	path := conf.Session.Path
	if path == "" {
		path = memory
	}
	if path != memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, errors.Wrap(err, "creating session dir")
		}
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return db, nil
}

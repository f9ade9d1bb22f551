package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	// Path is the data directory. It is ignored when InMemory is set.
	Path     string
	InMemory bool
	// Logger receives Badger's own log output. Nil silences it.
	Logger badger.Logger
}

// OpenBadger opens a Badger database tuned for a small single-process store.
func OpenBadger(o BadgerOptions) (*badger.DB, error) {
	path := o.Path
	if o.InMemory {
		path = ""
	}
	opts := badger.DefaultOptions(path).
		WithInMemory(o.InMemory).
		WithLogger(o.Logger).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

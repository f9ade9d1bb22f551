// Package store opens the configured persistence backend and hands out its
// repositories.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"quill/app/config"
	"quill/app/logger"
	"quill/app/repositories"
	"quill/app/repositories/memory"
	"quill/app/repositories/sqlite"
	"quill/app/schema"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// ErrUnsupported is returned by maintenance operations the active driver
// does not implement.
var ErrUnsupported = errors.New("operation not supported by store driver")

type Store struct {
	Driver   string
	Posts    repositories.PostRepository
	Comments repositories.CommentRepository

	badger *badger.DB
	sql    *sql.DB
	log    *zap.SugaredLogger
}

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, reg *schema.Registry, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{Driver: cfg.Driver, log: log.Sugar()}

	switch cfg.Driver {
	case config.DriverBadger, "":
		if err := os.MkdirAll(cfg.BadgerPath, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		db, err := repositories.OpenBadger(repositories.BadgerOptions{
			Path:   cfg.BadgerPath,
			Logger: logger.BadgerAdapter{Log: s.log.Named("badger")},
		})
		if err != nil {
			return nil, err
		}
		s.Driver = config.DriverBadger
		s.badger = db
		s.Posts = repositories.NewBadgerPostRepository(db, reg)
		s.Comments = repositories.NewBadgerCommentRepository(db, reg)
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		s.sql = db
		s.Posts = sqlite.NewPostRepository(db, reg)
		s.Comments = sqlite.NewCommentRepository(db, reg)
	case config.DriverMemory:
		s.Posts = memory.NewPostRepository()
		s.Comments = memory.NewCommentRepository()
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	s.log.Infow("store opened", "driver", s.Driver)
	return s, nil
}

// NewBadger wraps an already opened Badger database.
func NewBadger(db *badger.DB, reg *schema.Registry) *Store {
	return &Store{
		Driver:   config.DriverBadger,
		Posts:    repositories.NewBadgerPostRepository(db, reg),
		Comments: repositories.NewBadgerCommentRepository(db, reg),
		badger:   db,
		log:      zap.NewNop().Sugar(),
	}
}

// Ping reports whether the backend can serve requests.
func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s.badger != nil:
		if s.badger.IsClosed() {
			return errors.New("badger is closed")
		}
		return nil
	case s.sql != nil:
		return s.sql.PingContext(ctx)
	default:
		return nil
	}
}

// Backup writes a full Badger backup to w.
func (s *Store) Backup(w io.Writer) error {
	if s.badger == nil {
		return fmt.Errorf("backup: %w", ErrUnsupported)
	}
	if _, err := s.badger.Backup(w, 0); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup.
func (s *Store) Restore(r io.Reader) (err error) {
	if s.badger == nil {
		return fmt.Errorf("restore: %w", ErrUnsupported)
	}
	// Load panics on some malformed inputs.
	defer func() {
		if rv := recover(); rv != nil {
			err = fmt.Errorf("restore: corrupt backup: %v", rv)
		}
	}()
	if err := s.badger.Load(r, 256); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	switch {
	case s.badger != nil:
		return s.badger.Close()
	case s.sql != nil:
		return s.sql.Close()
	}
	return nil
}

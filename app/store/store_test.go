package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"quill/app/config"
	"quill/app/models"
	"quill/app/repositories"
	"quill/app/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func roundTrip(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	post := &models.Post{Title: "Hello World"}
	require.NoError(t, s.Posts.Create(ctx, post))
	require.NoError(t, s.Comments.Create(ctx, &models.Comment{PostID: post.ID, Body: "hi"}))

	comments, err := s.Comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.NoError(t, s.Ping(ctx))
}

func TestOpenDrivers(t *testing.T) {
	reg := schema.Default(schema.DependentRestrict)
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.StoreConfig
	}{
		{"badger", config.StoreConfig{Driver: config.DriverBadger, BadgerPath: filepath.Join(dir, "badger")}},
		{"sqlite", config.StoreConfig{Driver: config.DriverSQLite, SQLiteDSN: filepath.Join(dir, "quill.db") + "?_pragma=foreign_keys(1)"}},
		{"memory", config.StoreConfig{Driver: config.DriverMemory}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), tt.cfg, reg, zaptest.NewLogger(t))
			require.NoError(t, err)
			defer s.Close()

			assert.Equal(t, tt.name, s.Driver)
			roundTrip(t, s)
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mysql"}, schema.Default(""), nil)
	assert.Error(t, err)
}

func TestBackupRestore(t *testing.T) {
	ctx := context.Background()
	reg := schema.Default(schema.DependentRestrict)

	src, err := repositories.OpenBadger(repositories.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	from := NewBadger(src, reg)
	defer from.Close()

	post := &models.Post{Title: "Backed up"}
	require.NoError(t, from.Posts.Create(ctx, post))
	require.NoError(t, from.Comments.Create(ctx, &models.Comment{PostID: post.ID, Body: "me too"}))

	var buf bytes.Buffer
	require.NoError(t, from.Backup(&buf))

	dst, err := repositories.OpenBadger(repositories.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	to := NewBadger(dst, reg)
	defer to.Close()

	require.NoError(t, to.Restore(&buf))

	got, err := to.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backed up", got.Title)

	comments, err := to.Comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "me too", comments[0].Body)

	// ids keep counting after a restore
	next := &models.Post{Title: "After restore"}
	require.NoError(t, to.Posts.Create(ctx, next))
	assert.Greater(t, next.ID, post.ID)
}

func TestBackupUnsupported(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Driver: config.DriverMemory}, schema.Default(""), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Backup(&bytes.Buffer{}), ErrUnsupported)
	assert.ErrorIs(t, s.Restore(&bytes.Buffer{}), ErrUnsupported)
	assert.NoError(t, s.Close())
}

// Package testutil provides shared test helpers for setting up collection
// stores and search indexes.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/store"
)

// TestDB creates a temporary SQLite index that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a store backed by a collection file in a temp directory.
func TestStore(t *testing.T) (*store.Store, *store.File) {
	t.Helper()
	f, err := store.NewFile(filepath.Join(t.TempDir(), "collection.json"))
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return store.New(f, logger), f
}

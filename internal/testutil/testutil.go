// Package testutil provides shared test helpers for setting up indexes and
// scratch directories.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/sowilo/internal/index"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/storage"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB opens an in-memory SQLite index that is closed on cleanup.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(index.MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestIndex returns an in-memory index already synced with records.
func TestIndex(t *testing.T, records []models.FAQRecord) *index.DB {
	t.Helper()
	db := TestDB(t)
	if _, err := index.Sync(db, records, Logger()); err != nil {
		t.Fatal(err)
	}
	return db
}

// TestDir creates a temporary directory with a storage.Provider rooted at it.
func TestDir(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"testing"

	"congrega/internal/adapters/storage"
)

// Open returns a fully migrated in-memory SQLite database wrapped in a TimedDB.
func Open(t testing.TB) *storage.TimedDB {
	t.Helper()
	db, dialect, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, dialect); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return storage.NewTimedDB(db, dialect, nil)
}

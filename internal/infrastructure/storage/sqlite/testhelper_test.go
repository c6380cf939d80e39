package sqlite

import (
	"context"
	"net/url"
	"testing"
)

// setupTestDB creates a named shared in-memory SQLite database for testing.
// The test name keeps parallel tests isolated from each other.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), MemoryDSN(url.PathEscape(t.Name())))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}

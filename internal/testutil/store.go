package testutil

import (
	"path/filepath"
	"testing"

	"github.com/asteroid-belt/studydeck/internal/db"
)

// NewDB opens a migrated SQLite store in a temp dir and closes it on cleanup.
func NewDB(t *testing.T) *db.DB {
	t.Helper()

	store, err := db.New(db.DefaultConfig(filepath.Join(t.TempDir(), "studydeck.db")))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})
	return store
}

package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/voicecart/voicecart/internal/profile"
	"github.com/voicecart/voicecart/store"
	"github.com/voicecart/voicecart/store/db"
)

// NewTestingStore creates a sqlite-backed store in a temp directory, with
// the schema applied and the demo catalog seeded.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	dir := t.TempDir()
	testProfile := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Data:   dir,
		DSN:    filepath.Join(dir, "voicecart_test.db"),
	}

	driver, err := db.NewDBDriver(testProfile)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	testingStore := store.New(driver, testProfile)
	if err := testingStore.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if err := testingStore.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})

	return testingStore
}

// Package testutil provides store and ledger fixtures for tests across the
// budget packages.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
	"github.com/Veraticus/the-budget-must-balance/internal/storage"
)

// SetupTestStore opens a store of the given backend inside a fresh temp dir.
// SQLite stores are migrated. The store is closed when the test ends.
//
// Example:
//
//	store := testutil.SetupTestStore(t, storage.BackendSQLite)
//	require.NoError(t, store.Save(ctx, testutil.SampleLedger(t)))
func SetupTestStore(t *testing.T, backend string) service.LedgerStore {
	t.Helper()

	name := "ledger.json"
	if backend == storage.BackendSQLite {
		name = "ledger.db"
	}

	store, err := storage.Open(context.Background(), backend, filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// SetupSeededStore is SetupTestStore with l already saved.
func SetupSeededStore(t *testing.T, backend string, l *model.Ledger) service.LedgerStore {
	t.Helper()

	store := SetupTestStore(t, backend)
	if err := store.Save(context.Background(), l); err != nil {
		t.Fatalf("failed to seed test store: %v", err)
	}
	return store
}

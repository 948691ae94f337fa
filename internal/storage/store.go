package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

// Storage backends selectable by configuration.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend at path, migrating SQLite databases.
func Open(ctx context.Context, backend, path string) (service.LedgerStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendJSON, "":
		return NewJSONStore(path)
	case BackendSQLite:
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q (want %s or %s)",
			common.ErrInvalidConfig, backend, BackendJSON, BackendSQLite)
	}
}

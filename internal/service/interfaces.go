// Package service defines the interfaces shared between the command layer and
// its collaborators.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// LedgerStore persists one ledger.
type LedgerStore interface {
	// Load returns the stored ledger, or an error wrapping common.ErrNotFound
	// when nothing has been saved yet.
	Load(ctx context.Context) (*model.Ledger, error)
	// Save replaces the stored ledger with the ledger's current state.
	Save(ctx context.Context, ledger *model.Ledger) error
	// LastUpdated returns when the ledger was last saved.
	LastUpdated(ctx context.Context) (time.Time, error)
	Close() error
}

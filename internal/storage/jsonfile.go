package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// JSONStore keeps the ledger in a single JSON document.
type JSONStore struct {
	now  func() time.Time
	path string
	mu   sync.Mutex
}

// NewJSONStore creates a store backed by the file at path. The file itself is
// created on the first Save.
func NewJSONStore(path string) (*JSONStore, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &JSONStore{path: path, now: time.Now}, nil
}

// Path returns the file backing the store.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the ledger from disk.
func (s *JSONStore) Load(ctx context.Context) (*model.Ledger, error) {
	ledger, _, err := s.read(ctx)
	return ledger, err
}

// LastUpdated returns when the ledger was last saved.
func (s *JSONStore) LastUpdated(ctx context.Context) (time.Time, error) {
	_, updated, err := s.read(ctx)
	return updated, err
}

func (s *JSONStore) read(ctx context.Context) (*model.Ledger, time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return nil, time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, fmt.Errorf("%w: ledger file %s", common.ErrNotFound, s.path)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read ledger: %w", err)
	}

	ledger, updated, err := Unmarshal(data)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("ledger file %s: %w", s.path, err)
	}

	common.LogDebug("Loaded ledger", common.Fields{"path": s.path, "bytes": len(data)})
	return ledger, updated, nil
}

// Save writes the ledger to a temporary file and renames it over the old one,
// so a failed write never leaves a truncated document behind.
func (s *JSONStore) Save(ctx context.Context, ledger *model.Ledger) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateLedger(ledger); err != nil {
		return err
	}

	data, err := Marshal(ledger.Snapshot(), s.now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}

	common.LogDebug("Saved ledger", common.Fields{"path": s.path, "bytes": len(data)})
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *JSONStore) Close() error {
	return nil
}

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	store.now = func() time.Time { return fixedNow }

	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "nested", "budget.json"))
	require.NoError(t, err)
	store.now = func() time.Time { return fixedNow }
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// sampleLedger is a month with every kind of data the record holds.
func sampleLedger(t *testing.T) *model.Ledger {
	t.Helper()
	l, err := model.NewLedger(dec("4000.00"))
	require.NoError(t, err)

	at := time.Date(2024, 5, 3, 8, 30, 15, 123456789, time.UTC)
	for i, e := range []struct {
		amount, desc string
		c            model.ExpenseCategory
	}{
		{"1200", "Rent", model.Housing},
		{"250.10", "Groceries", model.Food},
		{"0.1", "Gum", model.Food},
		{"150", "Electric", model.Utilities},
		{"75.5", "Loan payment", model.DebtPayment},
		{"500", "Monthly savings", model.Savings},
	} {
		expense, err := model.NewExpense(e.c, dec(e.amount), e.desc, at.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.NoError(t, l.AddExpense(expense))
	}

	require.NoError(t, l.SetGoal(model.BudgetGoal{Category: model.Housing, TargetAmount: dec("1300"), Priority: 1}))
	require.NoError(t, l.SetGoal(model.BudgetGoal{Category: model.DebtPayment, TargetAmount: dec("100.25"), Priority: 4}))
	return l
}

func TestStores_RoundTrip(t *testing.T) {
	stores := map[string]func(t *testing.T) service.LedgerStore{
		"json":   func(t *testing.T) service.LedgerStore { return createTestJSONStore(t) },
		"sqlite": func(t *testing.T) service.LedgerStore { return createTestStorage(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, err := store.Load(ctx)
			require.ErrorIs(t, err, common.ErrNotFound)

			original := sampleLedger(t)
			require.NoError(t, store.Save(ctx, original))

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, original.Snapshot().Equal(loaded.Snapshot()), "round trip must preserve the ledger")

			snap := loaded.Snapshot()
			require.Len(t, snap.Expenses, 6)
			assert.Equal(t, "Rent", snap.Expenses[0].Description)
			assert.Equal(t, "Monthly savings", snap.Expenses[5].Description)
			assert.Equal(t, "0.1", snap.Expenses[2].Amount.String())

			updated, err := store.LastUpdated(ctx)
			require.NoError(t, err)
			assert.True(t, fixedNow.Equal(updated))

			// A second save replaces rather than appends.
			assert.True(t, loaded.RemoveExpense(snap.Expenses[0].ID))
			assert.True(t, loaded.RemoveGoal(model.DebtPayment))
			require.NoError(t, loaded.SetIncome(dec("4200")))
			require.NoError(t, store.Save(ctx, loaded))

			reloaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, loaded.Snapshot().Equal(reloaded.Snapshot()))
			assert.Len(t, reloaded.Snapshot().Expenses, 5)
			assert.Len(t, reloaded.Snapshot().Goals, 1)
		})
	}
}

func TestSQLiteStore_SaveRejectsNilAndCancelled(t *testing.T) {
	store := createTestStorage(t)

	err := store.Save(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = store.Save(ctx, sampleLedger(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Save(ctx, sampleLedger(t)))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Income().Equal(dec("4000")))
}

func TestSQLiteStore_CorruptedAmount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleLedger(t)))

	_, err := store.db.ExecContext(ctx, `UPDATE expenses SET amount = 'lots' WHERE description = 'Rent'`)
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	jsonStore, err := Open(ctx, "JSON", filepath.Join(dir, "budget.json"))
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, jsonStore)

	sqliteStore, err := Open(ctx, BackendSQLite, filepath.Join(dir, "budget.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, sqliteStore)
	require.NoError(t, sqliteStore.Close())

	_, err = Open(ctx, "parquet", filepath.Join(dir, "budget.parquet"))
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

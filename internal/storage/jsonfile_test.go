package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func TestMarshal_Shape(t *testing.T) {
	data, err := Marshal(sampleLedger(t).Snapshot(), fixedNow)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "4000", doc["income"])
	assert.Equal(t, "2024-06-01T12:00:00Z", doc["last_updated"])

	goals, ok := doc["goals"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, goals, "Housing")
	assert.Contains(t, goals, "Debt Payment")
	housing := goals["Housing"].(map[string]any)
	assert.Equal(t, "1300", housing["target_amount"])
	assert.EqualValues(t, 1, housing["priority"])

	expenses, ok := doc["expenses"].([]any)
	require.True(t, ok)
	require.Len(t, expenses, 6)
	first := expenses[0].(map[string]any)
	assert.Equal(t, "Housing", first["category"])
	assert.Equal(t, "1200", first["amount"])
	assert.Equal(t, "Rent", first["description"])
	assert.NotEmpty(t, first["id"])
	assert.Equal(t, "2024-05-03T08:30:15.123456789Z", first["timestamp"])
}

func TestUnmarshal_AcceptsHandWrittenFiles(t *testing.T) {
	// Numeric amounts, lower-case categories and missing ids are all accepted.
	data := []byte(`{
		"income": 3000,
		"expenses": [
			{"category": "housing", "amount": 1500, "description": "Rent", "timestamp": "2024-01-01T00:00:00Z"},
			{"category": "Debt Payment", "amount": "99.99", "description": "Card"}
		],
		"goals": {"food": {"target_amount": 300, "priority": 2}}
	}`)

	ledger, updated, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, updated.IsZero())

	snap := ledger.Snapshot()
	assert.True(t, snap.Income.Equal(dec("3000")))
	require.Len(t, snap.Expenses, 2)
	assert.Equal(t, model.Housing, snap.Expenses[0].Category)
	assert.NotEmpty(t, snap.Expenses[0].ID)
	assert.NotEqual(t, snap.Expenses[0].ID, snap.Expenses[1].ID)
	assert.Equal(t, model.DebtPayment, snap.Expenses[1].Category)

	goal, ok := ledger.Goal(model.Food)
	require.True(t, ok)
	assert.True(t, goal.TargetAmount.Equal(dec("300")))
}

func TestUnmarshal_Corrupted(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{income`},
		{name: "zero income", data: `{"income": "0"}`},
		{name: "unknown category", data: `{"income": "10", "expenses": [{"category": "yachts", "amount": "1"}]}`},
		{name: "negative amount", data: `{"income": "10", "expenses": [{"category": "Food", "amount": "-1"}]}`},
		{name: "bad priority", data: `{"income": "10", "goals": {"Food": {"target_amount": "1", "priority": 9}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Unmarshal([]byte(tt.data))
			assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)
		})
	}
}

func TestJSONStore_AtomicSave(t *testing.T) {
	store := createTestJSONStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleLedger(t)))
	require.NoError(t, store.Save(ctx, sampleLedger(t)))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "budget.json", entries[0].Name())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestJSONStore_CorruptFile(t *testing.T) {
	store := createTestJSONStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("garbage"), 0600))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)
	assert.Contains(t, err.Error(), store.Path())
}

func TestJSONStore_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	store := createTestJSONStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleLedger(t)))
	_, err := store.Load(ctx)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `level=DEBUG msg="Saved ledger"`)
	assert.Contains(t, out, `level=DEBUG msg="Loaded ledger"`)
	assert.Contains(t, out, "path="+store.Path())
}

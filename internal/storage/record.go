package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Record is the serialized form of a ledger. Amounts are decimal strings so a
// round trip is lossless.
type Record struct {
	LastUpdated time.Time                            `json:"last_updated"`
	Income      decimal.Decimal                      `json:"income"`
	Goals       map[model.ExpenseCategory]GoalRecord `json:"goals"`
	Expenses    []ExpenseRecord                      `json:"expenses"`
}

// ExpenseRecord is one serialized expense.
type ExpenseRecord struct {
	Timestamp   time.Time             `json:"timestamp"`
	Amount      decimal.Decimal       `json:"amount"`
	ID          string                `json:"id,omitempty"`
	Description string                `json:"description"`
	Category    model.ExpenseCategory `json:"category"`
}

// GoalRecord is one serialized goal, keyed by category in Record.Goals.
type GoalRecord struct {
	TargetAmount decimal.Decimal `json:"target_amount"`
	Priority     int             `json:"priority"`
}

// NewRecord captures a snapshot for storage.
func NewRecord(s model.Snapshot, updated time.Time) Record {
	r := Record{
		Income:      s.Income,
		LastUpdated: updated.UTC(),
		Expenses:    make([]ExpenseRecord, 0, len(s.Expenses)),
		Goals:       make(map[model.ExpenseCategory]GoalRecord, len(s.Goals)),
	}
	for _, e := range s.Expenses {
		r.Expenses = append(r.Expenses, ExpenseRecord{
			ID:          e.ID,
			Category:    e.Category,
			Amount:      e.Amount,
			Description: e.Description,
			Timestamp:   e.Timestamp,
		})
	}
	for c, g := range s.Goals {
		r.Goals[c] = GoalRecord{TargetAmount: g.TargetAmount, Priority: g.Priority}
	}
	return r
}

// Ledger rebuilds a ledger from the record, validating every field. Expenses
// written without an id are assigned a fresh one.
func (r Record) Ledger() (*model.Ledger, error) {
	expenses := make([]model.Expense, 0, len(r.Expenses))
	for i, er := range r.Expenses {
		var (
			e   model.Expense
			err error
		)
		if er.ID == "" {
			e, err = model.NewExpense(er.Category, er.Amount, er.Description, er.Timestamp)
		} else {
			e, err = model.RestoreExpense(er.ID, er.Category, er.Amount, er.Description, er.Timestamp)
		}
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i, err)
		}
		expenses = append(expenses, e)
	}

	goals := make([]model.BudgetGoal, 0, len(r.Goals))
	for _, c := range model.AllCategories() {
		gr, ok := r.Goals[c]
		if !ok {
			continue
		}
		goals = append(goals, model.BudgetGoal{Category: c, TargetAmount: gr.TargetAmount, Priority: gr.Priority})
	}

	return model.RestoreLedger(r.Income, expenses, goals)
}

// Marshal encodes a snapshot as an indented JSON document.
func Marshal(s model.Snapshot, updated time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(NewRecord(s, updated), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode ledger: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON document produced by Marshal.
func Unmarshal(data []byte) (*model.Ledger, time.Time, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", common.ErrDatabaseCorrupted, err)
	}
	ledger, err := r.Ledger()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", common.ErrDatabaseCorrupted, err)
	}
	return ledger, r.LastUpdated, nil
}

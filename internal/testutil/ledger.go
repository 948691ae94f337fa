package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// LedgerBuilder assembles a ledger for a test, failing the test on any
// rejected input.
type LedgerBuilder struct {
	t        *testing.T
	at       time.Time
	income   decimal.Decimal
	expenses []model.Expense
	goals    []model.BudgetGoal
}

// NewLedgerBuilder starts a ledger with the given monthly income.
func NewLedgerBuilder(t *testing.T, income string) *LedgerBuilder {
	t.Helper()
	return &LedgerBuilder{
		t:      t,
		income: Dec(t, income),
		at:     time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
}

// WithExpense adds an expense. Each expense is stamped one minute after the
// previous one so ordering is stable.
func (b *LedgerBuilder) WithExpense(category model.ExpenseCategory, amount, description string) *LedgerBuilder {
	b.t.Helper()

	e, err := model.NewExpense(category, Dec(b.t, amount), description, b.at)
	if err != nil {
		b.t.Fatalf("invalid test expense %s %s: %v", category, amount, err)
	}
	b.at = b.at.Add(time.Minute)
	b.expenses = append(b.expenses, e)
	return b
}

// WithGoal sets a goal for category.
func (b *LedgerBuilder) WithGoal(category model.ExpenseCategory, target string, priority int) *LedgerBuilder {
	b.t.Helper()

	g, err := model.NewBudgetGoal(category, Dec(b.t, target), priority)
	if err != nil {
		b.t.Fatalf("invalid test goal %s %s: %v", category, target, err)
	}
	b.goals = append(b.goals, g)
	return b
}

// Build returns the ledger.
func (b *LedgerBuilder) Build() *model.Ledger {
	b.t.Helper()

	l, err := model.RestoreLedger(b.income, b.expenses, b.goals)
	if err != nil {
		b.t.Fatalf("failed to build test ledger: %v", err)
	}
	return l
}

// SampleLedger is a balanced month on a 4000 income with two goals: GOOD
// health, a savings shortfall and an emergency fund gap.
func SampleLedger(t *testing.T) *model.Ledger {
	t.Helper()
	return NewLedgerBuilder(t, "4000").
		WithExpense(model.Housing, "1200", "Monthly rent").
		WithExpense(model.Food, "400", "Groceries").
		WithExpense(model.Transportation, "300", "Gas and maintenance").
		WithExpense(model.Utilities, "150", "Electric and water").
		WithExpense(model.Entertainment, "200", "Movies and dining").
		WithExpense(model.Savings, "500", "Emergency fund").
		WithGoal(model.Housing, "1300", 1).
		WithGoal(model.Food, "350", 2).
		Build()
}

// Dec parses a decimal or fails the test.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

package model

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger records one budgeting session: the monthly income, the expenses in the
// order they were entered, and at most one goal per category.
//
// Mutations hold the ledger's lock only for the duration of the call. Analysis
// never reads a Ledger directly; it works on a Snapshot.
type Ledger struct {
	income   decimal.Decimal
	goals    map[ExpenseCategory]BudgetGoal
	expenses []Expense
	mu       sync.RWMutex
}

// NewLedger creates an empty ledger. The income must be positive.
func NewLedger(income decimal.Decimal) (*Ledger, error) {
	if !income.IsPositive() {
		return nil, invalidf("monthly income must be greater than zero, got %s", income)
	}
	return &Ledger{
		income: income,
		goals:  make(map[ExpenseCategory]BudgetGoal),
	}, nil
}

// RestoreLedger rebuilds a ledger from stored data, validating every part.
func RestoreLedger(income decimal.Decimal, expenses []Expense, goals []BudgetGoal) (*Ledger, error) {
	l, err := NewLedger(income)
	if err != nil {
		return nil, err
	}
	for i, e := range expenses {
		if err := l.AddExpense(e); err != nil {
			return nil, invalidf("expense at index %d: %v", i, err)
		}
	}
	for _, g := range goals {
		if err := l.SetGoal(g); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Income returns the monthly income.
func (l *Ledger) Income() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.income
}

// SetIncome changes the monthly income. Stored expenses are kept as they are.
func (l *Ledger) SetIncome(income decimal.Decimal) error {
	if !income.IsPositive() {
		return invalidf("monthly income must be greater than zero, got %s", income)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.income = income
	return nil
}

// AddExpense appends an expense. Expenses built outside NewExpense are checked
// again so a zero value can never enter the ledger.
func (l *Ledger) AddExpense(e Expense) error {
	if !e.Category.Valid() {
		return invalidf("unknown category %d", int(e.Category))
	}
	if !e.Amount.IsPositive() {
		return invalidf("expense amount must be greater than zero, got %s", e.Amount)
	}
	if e.ID == "" {
		return invalidf("expense has no id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.expenses {
		if existing.ID == e.ID {
			return invalidf("duplicate expense id %s", e.ID)
		}
	}
	l.expenses = append(l.expenses, e)
	return nil
}

// Record builds an expense from its parts and adds it.
func (l *Ledger) Record(category ExpenseCategory, amount decimal.Decimal, description string) (Expense, error) {
	e, err := NewExpense(category, amount, description, time.Time{})
	if err != nil {
		return Expense{}, err
	}
	if err := l.AddExpense(e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// RemoveExpense deletes the expense with the given id, keeping the order of the
// rest. It reports whether anything was removed.
func (l *Ledger) RemoveExpense(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.expenses {
		if e.ID == id {
			l.expenses = append(l.expenses[:i:i], l.expenses[i+1:]...)
			return true
		}
	}
	return false
}

// SetGoal stores a goal, replacing any existing goal for the same category.
func (l *Ledger) SetGoal(g BudgetGoal) error {
	validated, err := NewBudgetGoal(g.Category, g.TargetAmount, g.Priority)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.goals[validated.Category] = validated
	return nil
}

// RemoveGoal deletes the goal for c and reports whether one existed.
func (l *Ledger) RemoveGoal(c ExpenseCategory) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.goals[c]; !ok {
		return false
	}
	delete(l.goals, c)
	return true
}

// Goal returns the goal for c, if one is set.
func (l *Ledger) Goal(c ExpenseCategory) (BudgetGoal, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	g, ok := l.goals[c]
	return g, ok
}

// Snapshot returns a copy of the ledger's current state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	expenses := make([]Expense, len(l.expenses))
	copy(expenses, l.expenses)

	goals := make(map[ExpenseCategory]BudgetGoal, len(l.goals))
	for c, g := range l.goals {
		goals[c] = g
	}

	return Snapshot{Income: l.income, Expenses: expenses, Goals: goals}
}

// Snapshot is a point-in-time copy of a ledger. Nothing holds a reference back
// to the ledger it came from.
type Snapshot struct {
	Income   decimal.Decimal
	Goals    map[ExpenseCategory]BudgetGoal
	Expenses []Expense
}

// TotalExpenses sums every expense amount.
func (s Snapshot) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Remaining is income minus total expenses. It may be negative.
func (s Snapshot) Remaining() decimal.Decimal {
	return s.Income.Sub(s.TotalExpenses())
}

// CategoryTotals sums expenses per category. Only categories with at least one
// expense are present.
func (s Snapshot) CategoryTotals() map[ExpenseCategory]decimal.Decimal {
	totals := make(map[ExpenseCategory]decimal.Decimal)
	for _, e := range s.Expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// CategoryTotal returns the amount spent in c, zero when nothing was spent.
func (s Snapshot) CategoryTotal(c ExpenseCategory) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		if e.Category == c {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// GoalProgress compares the goal for c with actual spending under rules. The
// second result is false when no goal is set for c.
func (s Snapshot) GoalProgress(c ExpenseCategory, rules RulesConfig) (GoalProgress, bool) {
	g, ok := s.Goals[c]
	if !ok {
		return GoalProgress{}, false
	}
	actual := s.CategoryTotal(c)
	floor := rules.GoalIsFloor(c)
	return GoalProgress{
		Goal:   g,
		Actual: actual,
		Delta:  actual.Sub(g.TargetAmount),
		Met:    g.Met(actual, floor),
		Floor:  floor,
	}, true
}

// SortedGoals returns the goals ordered by priority, then category order.
func (s Snapshot) SortedGoals() []BudgetGoal {
	goals := make([]BudgetGoal, 0, len(s.Goals))
	for _, g := range s.Goals {
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool {
		if goals[i].Priority != goals[j].Priority {
			return goals[i].Priority < goals[j].Priority
		}
		return goals[i].Category < goals[j].Category
	})
	return goals
}

// Equal reports whether two snapshots hold the same income, the same expenses
// in the same order, and the same goals.
func (s Snapshot) Equal(other Snapshot) bool {
	if !s.Income.Equal(other.Income) ||
		len(s.Expenses) != len(other.Expenses) ||
		len(s.Goals) != len(other.Goals) {
		return false
	}
	for i := range s.Expenses {
		if !s.Expenses[i].Equal(other.Expenses[i]) {
			return false
		}
	}
	for c, g := range s.Goals {
		og, ok := other.Goals[c]
		if !ok || !g.Equal(og) {
			return false
		}
	}
	return true
}

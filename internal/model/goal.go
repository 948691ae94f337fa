package model

import (
	"github.com/shopspring/decimal"
)

// Goal priority bounds. 1 is the highest priority.
const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
)

// BudgetGoal is a spending limit for one category. Spending at or under the
// target meets the goal. RulesConfig.SavingsGoalFloor turns a Savings goal
// into a minimum instead.
type BudgetGoal struct {
	TargetAmount decimal.Decimal `validate:"-"`
	Category     ExpenseCategory `validate:"category"`
	Priority     int             `validate:"min=1,max=5"`
}

// NewBudgetGoal validates and returns a goal.
func NewBudgetGoal(category ExpenseCategory, target decimal.Decimal, priority int) (BudgetGoal, error) {
	g := BudgetGoal{Category: category, TargetAmount: target, Priority: priority}
	if err := validateStruct(g); err != nil {
		return BudgetGoal{}, err
	}
	if target.IsNegative() {
		return BudgetGoal{}, invalidf("goal target must not be negative, got %s", target)
	}
	return g, nil
}

// Met reports whether actual satisfies the goal. A floor goal is met at or
// above the target, any other goal at or below it.
func (g BudgetGoal) Met(actual decimal.Decimal, floor bool) bool {
	if floor {
		return actual.GreaterThanOrEqual(g.TargetAmount)
	}
	return actual.LessThanOrEqual(g.TargetAmount)
}

// Equal reports whether two goals hold the same data.
func (g BudgetGoal) Equal(other BudgetGoal) bool {
	return g.Category == other.Category &&
		g.Priority == other.Priority &&
		g.TargetAmount.Equal(other.TargetAmount)
}

// GoalProgress compares a goal against what was actually spent.
type GoalProgress struct {
	Goal   BudgetGoal
	Actual decimal.Decimal
	// Delta is actual minus target; positive means over target.
	Delta decimal.Decimal
	Met   bool
	// Floor is set when the goal is a minimum rather than a limit.
	Floor bool
}

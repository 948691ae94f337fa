// Package analysis turns a ledger snapshot into a spending report, ranked
// recommendations and a target budget allocation. Every function here is pure.
package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Analyze aggregates the snapshot and classifies its health against rules.
func Analyze(s model.Snapshot, rules model.RulesConfig) (*Report, error) {
	if !s.Income.IsPositive() {
		return nil, fmt.Errorf("%w: monthly income must be greater than zero, got %s", model.ErrInvalidInput, s.Income)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	totals := s.CategoryTotals()
	remaining := s.Remaining()

	report := &Report{
		Income:        s.Income,
		TotalExpenses: s.TotalExpenses(),
		Remaining:     remaining,
		Rules:         rules,
		Breakdown:     breakdown(totals, s.Income),
		Violations:    violations(totals, s.Income, rules),
		Goals:         goalStatuses(s, rules),
	}
	report.Health = classify(s.Income, remaining, totals[model.Savings], len(report.Violations) > 0, savingsGoalMet(s, rules), rules)

	return report, nil
}

// ClassifyHealth returns the health of a snapshot without building a report.
// A snapshot without positive income is HealthUnknown rather than an error.
func ClassifyHealth(s model.Snapshot, rules model.RulesConfig) Health {
	if !s.Income.IsPositive() {
		return HealthUnknown
	}
	totals := s.CategoryTotals()
	violated := len(violations(totals, s.Income, rules)) > 0
	return classify(s.Income, s.Remaining(), totals[model.Savings], violated, savingsGoalMet(s, rules), rules)
}

// classify applies the health rules in order; the first match wins.
func classify(income, remaining, savings decimal.Decimal, violated, goalMet bool, rules model.RulesConfig) Health {
	switch {
	case income.IsZero():
		return HealthUnknown
	case remaining.IsNegative():
		return HealthCritical
	case savings.LessThan(rules.SavingsMin().Mul(income)) &&
		remaining.LessThan(rules.LowRemaining().Mul(income)):
		return HealthPoor
	case violated:
		return HealthFair
	case goalMet:
		return HealthGood
	default:
		return HealthFair
	}
}

// savingsGoalMet is true when no savings goal is set or the goal is met under
// rules.
func savingsGoalMet(s model.Snapshot, rules model.RulesConfig) bool {
	progress, ok := s.GoalProgress(model.Savings, rules)
	if !ok {
		return true
	}
	return progress.Met
}

// PercentOf returns amount as a fraction of income, zero when income is zero.
func PercentOf(amount, income decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return amount.Div(income)
}

func breakdown(totals map[model.ExpenseCategory]decimal.Decimal, income decimal.Decimal) []CategoryBreakdown {
	rows := make([]CategoryBreakdown, 0, len(totals))
	for _, c := range model.AllCategories() {
		total, ok := totals[c]
		if !ok {
			continue
		}
		rows = append(rows, CategoryBreakdown{
			Category: c,
			Total:    total,
			Pct:      PercentOf(total, income),
		})
	}
	return rows
}

func violations(totals map[model.ExpenseCategory]decimal.Decimal, income decimal.Decimal, rules model.RulesConfig) []Violation {
	var out []Violation
	for _, c := range model.CappedCategories() {
		limit, _ := rules.MaxPct(c)
		total := totals[c]
		ceiling := limit.Mul(income)
		if !total.GreaterThan(ceiling) {
			continue
		}
		out = append(out, Violation{
			Category: c,
			Total:    total,
			Pct:      PercentOf(total, income),
			Limit:    limit,
			Excess:   total.Sub(ceiling),
		})
	}
	return out
}

func goalStatuses(s model.Snapshot, rules model.RulesConfig) []GoalStatus {
	goals := s.SortedGoals()
	out := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		p, _ := s.GoalProgress(g.Category, rules)
		out = append(out, GoalStatus{
			Category: g.Category,
			Priority: g.Priority,
			Target:   g.TargetAmount,
			Actual:   p.Actual,
			Delta:    p.Delta,
			Met:      p.Met,
			Floor:    p.Floor,
		})
	}
	return out
}

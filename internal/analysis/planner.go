package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Allocation is the planned amount for one category.
type Allocation struct {
	Amount      decimal.Decimal       `json:"amount"`
	Ratio       decimal.Decimal       `json:"ratio"`
	Category    model.ExpenseCategory `json:"category"`
	Constrained bool                  `json:"constrained"`
}

// Plan is a target allocation of income across every category.
type Plan struct {
	Income      decimal.Decimal `json:"income"`
	Allocations []Allocation    `json:"allocations"`
	Scaled      bool            `json:"scaled"`
}

// Total returns the sum of every allocation.
func (p Plan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// Amount returns the allocation for c, zero if c is not planned.
func (p Plan) Amount(c model.ExpenseCategory) decimal.Decimal {
	for _, a := range p.Allocations {
		if a.Category == c {
			return a.Amount
		}
	}
	return decimal.Zero
}

var defaultRatios = map[model.ExpenseCategory]string{
	model.Housing:        "0.30",
	model.Food:           "0.15",
	model.Transportation: "0.10",
	model.Utilities:      "0.05",
	model.Entertainment:  "0.05",
	model.Healthcare:     "0.05",
	model.Savings:        "0.20",
	model.DebtPayment:    "0.05",
	model.Other:          "0.05",
}

// DefaultRatios returns the baseline share of income for each category.
func DefaultRatios() map[model.ExpenseCategory]decimal.Decimal {
	out := make(map[model.ExpenseCategory]decimal.Decimal, len(defaultRatios))
	for c, r := range defaultRatios {
		out[c] = decimal.RequireFromString(r)
	}
	return out
}

// PlanBudget allocates income across all categories from DefaultRatios,
// clamped by rules. Housing and Entertainment never exceed their ceilings and
// Savings never drops below its floor. If the clamped ratios exceed 100%, the
// unconstrained categories shrink first; if the constrained ones alone exceed
// 100% they are scaled down too. The plan never allocates more than income.
func PlanBudget(income decimal.Decimal, rules model.RulesConfig) (Plan, error) {
	if !income.IsPositive() {
		return Plan{}, fmt.Errorf("%w: monthly income must be greater than zero, got %s", model.ErrInvalidInput, income)
	}
	if err := rules.Validate(); err != nil {
		return Plan{}, err
	}

	ratios := DefaultRatios()
	constrained := map[model.ExpenseCategory]bool{
		model.Housing:       true,
		model.Entertainment: true,
		model.Savings:       true,
	}
	for _, c := range model.CappedCategories() {
		limit, _ := rules.MaxPct(c)
		ratios[c] = decimal.Min(ratios[c], limit)
	}
	ratios[model.Savings] = decimal.Max(ratios[model.Savings], rules.SavingsMin())

	one := decimal.NewFromInt(1)
	fixedSum, freeSum := decimal.Zero, decimal.Zero
	for c, r := range ratios {
		if constrained[c] {
			fixedSum = fixedSum.Add(r)
		} else {
			freeSum = freeSum.Add(r)
		}
	}

	scaled := fixedSum.Add(freeSum).GreaterThan(one)
	if scaled {
		for c, r := range ratios {
			switch {
			case fixedSum.GreaterThanOrEqual(one) && constrained[c]:
				ratios[c] = r.Div(fixedSum)
			case fixedSum.GreaterThanOrEqual(one):
				ratios[c] = decimal.Zero
			case !constrained[c]:
				ratios[c] = r.Mul(one.Sub(fixedSum)).Div(freeSum)
			}
		}
	}

	plan := Plan{Income: income, Scaled: scaled}
	ratioSum := decimal.Zero
	for _, c := range model.AllCategories() {
		r := ratios[c]
		ratioSum = ratioSum.Add(r)
		plan.Allocations = append(plan.Allocations, Allocation{
			Category:    c,
			Ratio:       r.Round(4),
			Amount:      income.Mul(r).Truncate(2),
			Constrained: constrained[c],
		})
	}

	// Truncation leaves a few cents unallocated; when the ratios cover all of
	// income, give them to Other so the plan sums to income exactly.
	if scaled || ratioSum.Equal(one) {
		residual := income.Sub(plan.Total())
		last := len(plan.Allocations) - 1
		if adjusted := plan.Allocations[last].Amount.Add(residual); !adjusted.IsNegative() {
			plan.Allocations[last].Amount = adjusted
		}
	}

	return plan, nil
}

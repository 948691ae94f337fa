package analysis

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Recommend runs every advice check in a fixed order and returns the results
// ordered Critical, Warning, Info. Within one severity the check order is kept;
// goal items follow goal priority. The report must come from Analyze on the
// same snapshot with the same rules; a report built with other rules is
// rejected.
func Recommend(s model.Snapshot, report *Report, rules model.RulesConfig) ([]Recommendation, error) {
	if report == nil {
		return nil, fmt.Errorf("%w: nil report", model.ErrInvalidInput)
	}
	if !s.Income.IsPositive() {
		return nil, fmt.Errorf("%w: monthly income must be greater than zero, got %s", model.ErrInvalidInput, s.Income)
	}
	if report.Rules != rules {
		return nil, fmt.Errorf("%w: report was analyzed with different rules (%s)", model.ErrInvalidInput, report.Rules)
	}

	income := s.Income
	savings := report.Total(model.Savings)

	var recs []Recommendation
	recs = append(recs, checkSavings(income, savings, rules)...)
	recs = append(recs, checkEmergencyFund(income, savings, rules)...)
	recs = append(recs, checkOverages(report)...)
	recs = append(recs, checkGoals(report)...)
	recs = append(recs, checkRemaining(income, report.Remaining, len(report.Goals) > 0, rules)...)

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Severity < recs[j].Severity
	})

	return recs, nil
}

func checkSavings(income, savings decimal.Decimal, rules model.RulesConfig) []Recommendation {
	target := rules.SavingsMin().Mul(income)
	if !savings.LessThan(target) {
		return nil
	}
	gap := target.Sub(savings)
	return []Recommendation{{
		Severity:        SeverityWarning,
		Kind:            KindSavingsShortfall,
		Category:        categoryRef(model.Savings),
		SuggestedAmount: amountRef(gap),
		Text: fmt.Sprintf("Increase savings to at least %s of income. Add %s to savings.",
			pctText(rules.SavingsMin()), money(gap)),
	}}
}

func checkEmergencyFund(income, savings decimal.Decimal, rules model.RulesConfig) []Recommendation {
	months := decimal.NewFromInt(int64(rules.EmergencyFundMonths))
	target := months.Mul(income)
	if !savings.LessThan(target) {
		return nil
	}
	gap := target.Sub(savings)
	return []Recommendation{{
		Severity:        SeverityCritical,
		Kind:            KindEmergencyFund,
		Category:        categoryRef(model.Savings),
		SuggestedAmount: amountRef(gap),
		Text: fmt.Sprintf("Build an emergency fund of %s (%d months of income). You are %s short.",
			money(target), rules.EmergencyFundMonths, money(gap)),
	}}
}

func checkOverages(report *Report) []Recommendation {
	recs := make([]Recommendation, 0, len(report.Violations))
	for _, v := range report.Violations {
		recs = append(recs, Recommendation{
			Severity:        SeverityWarning,
			Kind:            KindCategoryOverage,
			Category:        categoryRef(v.Category),
			SuggestedAmount: amountRef(v.Excess),
			Text: fmt.Sprintf("%s spending (%s of income) exceeds the recommended %s. Consider reducing it by %s.",
				v.Category, pctText(v.Pct), pctText(v.Limit), money(v.Excess)),
		})
	}
	return recs
}

// checkGoals relies on report.Goals already being in priority order.
func checkGoals(report *Report) []Recommendation {
	var recs []Recommendation
	for _, g := range report.Goals {
		if g.Met {
			continue
		}
		rec := Recommendation{
			Severity: SeverityWarning,
			Category: categoryRef(g.Category),
			Priority: g.Priority,
		}
		if g.Floor {
			short := g.Delta.Neg()
			rec.Kind = KindGoalShortfall
			rec.SuggestedAmount = amountRef(short)
			rec.Text = fmt.Sprintf("Savings of %s are %s short of your %s goal (priority %d).",
				money(g.Actual), money(short), money(g.Target), g.Priority)
		} else {
			rec.Kind = KindGoalOverage
			rec.SuggestedAmount = amountRef(g.Delta)
			rec.Text = fmt.Sprintf("%s spending of %s is %s over your %s goal (priority %d).",
				g.Category, money(g.Actual), money(g.Delta), money(g.Target), g.Priority)
		}
		recs = append(recs, rec)
	}
	return recs
}

func checkRemaining(income, remaining decimal.Decimal, hasGoals bool, rules model.RulesConfig) []Recommendation {
	if remaining.IsNegative() {
		over := remaining.Neg()
		return []Recommendation{{
			Severity:        SeverityCritical,
			Kind:            KindOverspend,
			SuggestedAmount: amountRef(over),
			Text:            fmt.Sprintf("You're overspending by %s. Review expenses and cut non-essential items.", money(over)),
		}}
	}

	if !hasGoals && remaining.GreaterThan(rules.Surplus().Mul(income)) {
		return []Recommendation{{
			Severity:        SeverityInfo,
			Kind:            KindSurplus,
			Category:        categoryRef(model.Savings),
			SuggestedAmount: amountRef(remaining),
			Text: fmt.Sprintf("%s (%s of income) is unallocated. Consider moving it to savings or setting budget goals.",
				money(remaining), pctText(PercentOf(remaining, income))),
		}}
	}
	return nil
}

func categoryRef(c model.ExpenseCategory) *model.ExpenseCategory {
	return &c
}

func amountRef(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// money renders an amount with two decimals for recommendation text.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// pctText renders a fraction as a percentage with one decimal.
func pctText(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Health is the overall classification of a ledger against the rules.
type Health string

const (
	// HealthCritical means expenses exceed income.
	HealthCritical Health = "critical"
	// HealthPoor means savings are below the minimum and little budget remains.
	HealthPoor Health = "poor"
	// HealthFair means a category ceiling is exceeded or a savings goal is unmet.
	HealthFair Health = "fair"
	// HealthGood means every rule and the savings goal are satisfied.
	HealthGood Health = "good"
	// HealthUnknown means percentages could not be computed (zero income).
	HealthUnknown Health = "unknown"
)

// CategoryBreakdown is the spending in one category relative to income.
type CategoryBreakdown struct {
	Total    decimal.Decimal       `json:"total"`
	Pct      decimal.Decimal       `json:"pct"`
	Category model.ExpenseCategory `json:"category"`
}

// Violation records a category whose share of income exceeds its ceiling.
type Violation struct {
	Total    decimal.Decimal       `json:"total"`
	Pct      decimal.Decimal       `json:"pct"`
	Limit    decimal.Decimal       `json:"limit"`
	Excess   decimal.Decimal       `json:"excess"`
	Category model.ExpenseCategory `json:"category"`
}

// GoalStatus compares one goal with actual spending.
type GoalStatus struct {
	Target   decimal.Decimal       `json:"target_amount"`
	Actual   decimal.Decimal       `json:"actual"`
	Delta    decimal.Decimal       `json:"delta"`
	Category model.ExpenseCategory `json:"category"`
	Priority int                   `json:"priority"`
	Met      bool                  `json:"met"`
	Floor    bool                  `json:"floor,omitempty"`
}

// Report is the result of analyzing a ledger snapshot. It is never modified
// after Analyze returns it.
type Report struct {
	Income        decimal.Decimal     `json:"income"`
	TotalExpenses decimal.Decimal     `json:"total_expenses"`
	Remaining     decimal.Decimal     `json:"remaining"`
	Health        Health              `json:"health"`
	Breakdown     []CategoryBreakdown `json:"breakdown"`
	Violations    []Violation         `json:"violations"`
	Goals         []GoalStatus        `json:"goals"`
	Rules         model.RulesConfig   `json:"rules"`
}

// Category returns the breakdown row for c, if anything was spent in it.
func (r *Report) Category(c model.ExpenseCategory) (CategoryBreakdown, bool) {
	for _, b := range r.Breakdown {
		if b.Category == c {
			return b, true
		}
	}
	return CategoryBreakdown{}, false
}

// Total returns the amount spent in c, zero when nothing was spent.
func (r *Report) Total(c model.ExpenseCategory) decimal.Decimal {
	b, _ := r.Category(c)
	if b.Total.IsZero() {
		return decimal.Zero
	}
	return b.Total
}

// Pct returns c's share of income as a fraction, zero when nothing was spent.
func (r *Report) Pct(c model.ExpenseCategory) decimal.Decimal {
	b, _ := r.Category(c)
	if b.Pct.IsZero() {
		return decimal.Zero
	}
	return b.Pct
}

// Severity ranks a recommendation. Lower values are more urgent.
type Severity int

// Severity levels, most urgent first.
const (
	SeverityCritical Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Kind identifies which check produced a recommendation.
type Kind string

// Recommendation kinds, in check-evaluation order.
const (
	KindSavingsShortfall Kind = "savings_shortfall"
	KindEmergencyFund    Kind = "emergency_fund"
	KindCategoryOverage  Kind = "category_overage"
	KindGoalOverage      Kind = "goal_overage"
	KindGoalShortfall    Kind = "goal_shortfall"
	KindOverspend        Kind = "overspend"
	KindSurplus          Kind = "surplus"
)

// Recommendation is one piece of advice. Text is plain prose; rendering is left
// to the report package.
type Recommendation struct {
	SuggestedAmount *decimal.Decimal       `json:"suggested_amount,omitempty"`
	Category        *model.ExpenseCategory `json:"category,omitempty"`
	Kind            Kind                   `json:"kind"`
	Text            string                 `json:"text"`
	Severity        Severity               `json:"severity"`
	Priority        int                    `json:"priority,omitempty"`
}

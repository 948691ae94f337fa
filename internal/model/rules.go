package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Rule keys accepted by RulesConfig.Apply and the config file's rules section.
const (
	RuleHousingMaxPct       = "housing_max_pct"
	RuleSavingsMinPct       = "savings_min_pct"
	RuleEntertainmentMaxPct = "entertainment_max_pct"
	RuleEmergencyFundMonths = "emergency_fund_months"
	RuleLowRemainingPct     = "low_remaining_pct"
	RuleSurplusPct          = "surplus_pct"
	RuleSavingsGoalFloor    = "savings_goal_floor"
)

// RulesConfig holds the thresholds, as fractions of monthly income, that drive
// health classification, recommendations and the allocation plan.
type RulesConfig struct {
	HousingMaxPct       float64 `mapstructure:"housing_max_pct" json:"housing_max_pct" validate:"gte=0,lte=1"`
	SavingsMinPct       float64 `mapstructure:"savings_min_pct" json:"savings_min_pct" validate:"gte=0,lte=1"`
	EntertainmentMaxPct float64 `mapstructure:"entertainment_max_pct" json:"entertainment_max_pct" validate:"gte=0,lte=1"`
	EmergencyFundMonths int     `mapstructure:"emergency_fund_months" json:"emergency_fund_months" validate:"gte=0,lte=120"`

	// LowRemainingPct is the remaining-budget fraction under which low savings
	// marks the budget as poor.
	LowRemainingPct float64 `mapstructure:"low_remaining_pct" json:"low_remaining_pct" validate:"gte=0,lte=1"`
	// SurplusPct is the remaining-budget fraction above which, with no goals
	// set, the surplus is suggested for savings.
	SurplusPct float64 `mapstructure:"surplus_pct" json:"surplus_pct" validate:"gte=0,lte=1"`

	// SavingsGoalFloor makes a Savings goal a minimum to reach. Off by default,
	// so every goal is a spending limit.
	SavingsGoalFloor bool `mapstructure:"savings_goal_floor" json:"savings_goal_floor"`
}

// DefaultRules returns the standard thresholds.
func DefaultRules() RulesConfig {
	return RulesConfig{
		HousingMaxPct:       0.30,
		SavingsMinPct:       0.20,
		EntertainmentMaxPct: 0.10,
		EmergencyFundMonths: 6,
		LowRemainingPct:     0.10,
		SurplusPct:          0.30,
	}
}

// RuleKeys lists the accepted override keys in sorted order.
func RuleKeys() []string {
	keys := []string{
		RuleHousingMaxPct, RuleSavingsMinPct, RuleEntertainmentMaxPct,
		RuleEmergencyFundMonths, RuleLowRemainingPct, RuleSurplusPct,
		RuleSavingsGoalFloor,
	}
	sort.Strings(keys)
	return keys
}

// Validate checks every threshold is within range.
func (r RulesConfig) Validate() error {
	return validateStruct(r)
}

// Apply returns a copy of r with the given overrides applied. Values may be
// numbers, booleans or their string forms. Unknown keys and out-of-range values are rejected
// and r is never modified.
func (r RulesConfig) Apply(overrides map[string]any) (RulesConfig, error) {
	out := r

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := overrides[key]
		norm := strings.ToLower(strings.TrimSpace(key))

		switch norm {
		case RuleSavingsGoalFloor:
			floor, err := cast.ToBoolE(raw)
			if err != nil {
				return r, invalidf("rule %s: %v", key, err)
			}
			out.SavingsGoalFloor = floor
			continue
		case RuleEmergencyFundMonths:
			months, err := cast.ToIntE(raw)
			if err != nil {
				return r, invalidf("rule %s: %v", key, err)
			}
			out.EmergencyFundMonths = months
			continue
		}

		pct, err := cast.ToFloat64E(raw)
		if err != nil {
			return r, invalidf("rule %s: %v", key, err)
		}

		switch norm {
		case RuleHousingMaxPct:
			out.HousingMaxPct = pct
		case RuleSavingsMinPct:
			out.SavingsMinPct = pct
		case RuleEntertainmentMaxPct:
			out.EntertainmentMaxPct = pct
		case RuleLowRemainingPct:
			out.LowRemainingPct = pct
		case RuleSurplusPct:
			out.SurplusPct = pct
		default:
			return r, invalidf("unknown rule %q (accepted: %s)", key, strings.Join(RuleKeys(), ", "))
		}
	}

	if err := out.Validate(); err != nil {
		return r, err
	}
	return out, nil
}

// Map returns the rules keyed by their override names.
func (r RulesConfig) Map() map[string]any {
	return map[string]any{
		RuleHousingMaxPct:       r.HousingMaxPct,
		RuleSavingsMinPct:       r.SavingsMinPct,
		RuleEntertainmentMaxPct: r.EntertainmentMaxPct,
		RuleEmergencyFundMonths: r.EmergencyFundMonths,
		RuleLowRemainingPct:     r.LowRemainingPct,
		RuleSurplusPct:          r.SurplusPct,
		RuleSavingsGoalFloor:    r.SavingsGoalFloor,
	}
}

// MaxPct returns the ceiling rule for a category, if one applies.
func (r RulesConfig) MaxPct(c ExpenseCategory) (decimal.Decimal, bool) {
	switch c {
	case Housing:
		return decimal.NewFromFloat(r.HousingMaxPct), true
	case Entertainment:
		return decimal.NewFromFloat(r.EntertainmentMaxPct), true
	default:
		return decimal.Zero, false
	}
}

// GoalIsFloor reports whether a goal for c is a minimum rather than a limit.
func (r RulesConfig) GoalIsFloor(c ExpenseCategory) bool {
	return r.SavingsGoalFloor && c == Savings
}

// CappedCategories lists the categories that carry a maximum-percentage rule,
// in the order they are checked.
func CappedCategories() []ExpenseCategory {
	return []ExpenseCategory{Housing, Entertainment}
}

// SavingsMin returns savings_min_pct as a decimal.
func (r RulesConfig) SavingsMin() decimal.Decimal {
	return decimal.NewFromFloat(r.SavingsMinPct)
}

// LowRemaining returns low_remaining_pct as a decimal.
func (r RulesConfig) LowRemaining() decimal.Decimal {
	return decimal.NewFromFloat(r.LowRemainingPct)
}

// Surplus returns surplus_pct as a decimal.
func (r RulesConfig) Surplus() decimal.Decimal {
	return decimal.NewFromFloat(r.SurplusPct)
}

// String renders the rules as key=value pairs.
func (r RulesConfig) String() string {
	m := r.Map()
	parts := make([]string, 0, len(m))
	for _, k := range RuleKeys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}

package model

import (
	"strings"
)

// ExpenseCategory is one of the fixed budget categories an expense can be filed under.
type ExpenseCategory int

// Expense categories, in display order.
const (
	Housing ExpenseCategory = iota + 1
	Food
	Transportation
	Utilities
	Entertainment
	Healthcare
	Savings
	DebtPayment
	Other
)

var categoryNames = map[ExpenseCategory]string{
	Housing:        "Housing",
	Food:           "Food",
	Transportation: "Transportation",
	Utilities:      "Utilities",
	Entertainment:  "Entertainment",
	Healthcare:     "Healthcare",
	Savings:        "Savings",
	DebtPayment:    "Debt Payment",
	Other:          "Other",
}

// categoryAliases maps normalized spellings to categories.
var categoryAliases = map[string]ExpenseCategory{
	"rent":          Housing,
	"mortgage":      Housing,
	"groceries":     Food,
	"dining":        Food,
	"transport":     Transportation,
	"car":           Transportation,
	"bills":         Utilities,
	"fun":           Entertainment,
	"health":        Healthcare,
	"medical":       Healthcare,
	"saving":        Savings,
	"debt":          DebtPayment,
	"debt_payment":  DebtPayment,
	"debt-payment":  DebtPayment,
	"misc":          Other,
	"miscellaneous": Other,
}

// AllCategories returns every category in display order.
func AllCategories() []ExpenseCategory {
	return []ExpenseCategory{
		Housing, Food, Transportation, Utilities, Entertainment,
		Healthcare, Savings, DebtPayment, Other,
	}
}

// String returns the display name of the category.
func (c ExpenseCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether c is one of the declared categories.
func (c ExpenseCategory) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory resolves a category from its display name, its identifier
// (e.g. "DebtPayment") or a common alias. Matching is case-insensitive.
func ParseCategory(s string) (ExpenseCategory, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return 0, invalidf("empty category")
	}

	compact := strings.ReplaceAll(key, " ", "")
	for c, name := range categoryNames {
		lower := strings.ToLower(name)
		if key == lower || compact == strings.ReplaceAll(lower, " ", "") {
			return c, nil
		}
	}

	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}

	return 0, invalidf("unknown category %q", s)
}

// MarshalText encodes the category as its display name.
func (c ExpenseCategory) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, invalidf("unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category from any accepted spelling.
func (c *ExpenseCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

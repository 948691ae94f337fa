package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxDescriptionLength bounds expense descriptions.
const MaxDescriptionLength = 200

// Expense is a single recorded outgoing amount. Expenses are values; once
// created through NewExpense they are never mutated.
type Expense struct {
	Timestamp   time.Time
	Amount      decimal.Decimal
	ID          string
	Description string
	Category    ExpenseCategory
}

type expenseInput struct {
	Description string          `json:"description" validate:"max=200"`
	Category    ExpenseCategory `json:"category" validate:"category"`
}

// NewExpense validates its arguments and returns a new expense with a fresh ID.
// A zero timestamp is replaced with the current time.
func NewExpense(category ExpenseCategory, amount decimal.Decimal, description string, at time.Time) (Expense, error) {
	if err := validateStruct(expenseInput{Category: category, Description: description}); err != nil {
		return Expense{}, err
	}
	if !amount.IsPositive() {
		return Expense{}, invalidf("expense amount must be greater than zero, got %s", amount)
	}
	if at.IsZero() {
		at = time.Now()
	}

	return Expense{
		ID:          uuid.NewString(),
		Category:    category,
		Amount:      amount,
		Description: description,
		Timestamp:   at,
	}, nil
}

// RestoreExpense rebuilds a stored expense, keeping its ID. It applies the same
// checks as NewExpense.
func RestoreExpense(id string, category ExpenseCategory, amount decimal.Decimal, description string, at time.Time) (Expense, error) {
	e, err := NewExpense(category, amount, description, at)
	if err != nil {
		return Expense{}, err
	}
	if id != "" {
		if _, parseErr := uuid.Parse(id); parseErr != nil {
			return Expense{}, invalidf("expense id %q: %v", id, parseErr)
		}
		e.ID = id
	}
	return e, nil
}

// Equal reports whether two expenses hold the same data.
func (e Expense) Equal(other Expense) bool {
	return e.ID == other.ID &&
		e.Category == other.Category &&
		e.Amount.Equal(other.Amount) &&
		e.Description == other.Description &&
		e.Timestamp.Equal(other.Timestamp)
}

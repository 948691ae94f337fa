// Package model holds the budget domain types: categories, expenses, goals,
// financial rules and the ledger that ties them together.
package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when an operation is rejected because one of its
// arguments is out of range. The ledger is left unchanged.
var ErrInvalidInput = errors.New("invalid input")

// invalidf wraps ErrInvalidInput with a formatted reason.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

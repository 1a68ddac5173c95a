package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Not-found errors
	ErrExpenseNotFound = errors.New("expense not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrUserNotFound    = errors.New("user not found")

	// Authentication errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ValidationError reports a rejected input. It carries the offending field
// and the violated constraint so callers can surface structured details
// instead of free-text messages.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Constraint)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, constraint string) *ValidationError {
	return &ValidationError{Field: field, Constraint: constraint}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConsistencyError means the computed transfer rows do not add up to the
// expense total. It indicates an engine defect, never a bad request, and
// must abort the write untouched.
type ConsistencyError struct {
	ExpectedTotal decimal.Decimal
	ActualTotal   decimal.Decimal
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("ledger consistency violated: transfers sum to %s, expense total is %s",
		e.ActualTotal.String(), e.ExpectedTotal.String())
}

// IsConsistencyError reports whether err is a ConsistencyError.
func IsConsistencyError(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}

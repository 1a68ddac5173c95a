package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxExpenseAmount     = "1000000000" // 1 billion
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateDescription validates an expense or group description.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return NewValidationError("description", "must not be empty")
	}

	if len(description) > MaxDescriptionLength {
		return NewValidationError("description", fmt.Sprintf("must not exceed %d characters", MaxDescriptionLength))
	}

	return nil
}

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return NewValidationError("currency", currency+" is not a valid ISO 4217 currency code")
	}

	return nil
}

// ValidateAmount validates an expense total.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("amount", "must be positive")
	}

	maxAmount, _ := decimal.NewFromString(MaxExpenseAmount)
	if amount.GreaterThan(maxAmount) {
		return NewValidationError("amount", "maximum amount is "+MaxExpenseAmount)
	}

	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return NewValidationError("email", "invalid email format")
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	if len(password) > MaxPasswordLength {
		return NewValidationError("password", fmt.Sprintf("must not exceed %d characters", MaxPasswordLength))
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return NewValidationError("password", "must contain uppercase, lowercase, and numbers")
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

package domain

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
)

// SplitResult is the outcome of share computation. RemainderMode records
// which input interpretation was applied, since the switch is implicit in
// whether the provided split amounts already cover the total.
type SplitResult struct {
	Shares        map[string]decimal.Decimal
	RemainderMode bool
}

// ComputeShares divides total among the participant set (contributors and
// split entries) according to the split method.
//
// Each method has two modes. Explicit mode applies when the split amounts
// already sum to the total; otherwise remainder mode applies and the single
// contributor absent from the split entries absorbs whatever the entries do
// not cover. The mode switch mirrors the upstream contract: it keys off the
// amount sum, not an explicit flag.
func ComputeShares(total decimal.Decimal, method SplitMethod, splits []SplitInput, contributors []Contributor) (*SplitResult, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, NewValidationError("amount", "must be positive")
	}

	if len(contributors) == 0 {
		return nil, NewValidationError("contributors", "must not be empty")
	}

	if !method.IsValid() {
		return nil, NewValidationError("split_method", "unknown split method "+string(method))
	}

	for _, c := range contributors {
		if c.AmountPaid.IsNegative() {
			return nil, NewValidationError("contributors", "paid amount must not be negative")
		}
	}

	for _, s := range splits {
		if s.Amount.IsNegative() {
			return nil, NewValidationError("splits", "split amount must not be negative")
		}

		if s.Counter.IsNegative() {
			return nil, NewValidationError("splits", "split counter must not be negative")
		}
	}

	if err := checkDuplicates(splits, contributors); err != nil {
		return nil, err
	}

	splitIDs := make(map[string]bool, len(splits))

	sumAmounts := decimal.Zero
	sumCounters := decimal.Zero
	for _, s := range splits {
		splitIDs[s.UserID] = true
		sumAmounts = sumAmounts.Add(s.Amount)
		sumCounters = sumCounters.Add(s.Counter)
	}

	// Contributors that have no split entry of their own.
	var unlisted []string
	for _, c := range contributors {
		if !splitIDs[c.UserID] {
			unlisted = append(unlisted, c.UserID)
		}
	}

	explicit := sumAmounts.Sub(total).Abs().LessThanOrEqual(SumTolerance) && len(splits) > 0

	result := &SplitResult{
		Shares:        make(map[string]decimal.Decimal, len(splits)+len(unlisted)),
		RemainderMode: !explicit,
	}

	switch method {
	case SplitEqual:
		computeEqual(result, total, splits, unlisted, explicit)

	case SplitParts:
		if err := computeParts(result, total, splits, unlisted, sumAmounts, sumCounters, explicit); err != nil {
			return nil, err
		}

	case SplitPercentage:
		if err := computePercentage(result, total, splits, unlisted, sumCounters); err != nil {
			return nil, err
		}

	case SplitCustom:
		if err := computeCustom(result, total, splits, unlisted, sumAmounts, explicit); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func computeEqual(result *SplitResult, total decimal.Decimal, splits []SplitInput, unlisted []string, explicit bool) {
	if explicit {
		// Split entries already cover the total: divide among them only,
		// contributors outside the split owe nothing.
		share := total.Div(decimal.NewFromInt(int64(len(splits))))
		for _, s := range splits {
			result.Shares[s.UserID] = share
		}

		for _, id := range unlisted {
			result.Shares[id] = decimal.Zero
		}

		return
	}

	share := total.Div(decimal.NewFromInt(int64(len(splits) + len(unlisted))))
	for _, s := range splits {
		result.Shares[s.UserID] = share
	}

	for _, id := range unlisted {
		result.Shares[id] = share
	}
}

func computeParts(result *SplitResult, total decimal.Decimal, splits []SplitInput, unlisted []string, sumAmounts, sumCounters decimal.Decimal, explicit bool) error {
	if sumCounters.IsZero() {
		return NewValidationError("splits", "parts split requires at least one positive counter")
	}

	if explicit {
		for _, s := range splits {
			result.Shares[s.UserID] = s.Counter.Div(sumCounters).Mul(total)
		}

		for _, id := range unlisted {
			result.Shares[id] = decimal.Zero
		}

		return nil
	}

	if len(unlisted) != 1 {
		return NewValidationError("splits", "parts remainder requires exactly one unlisted contributor")
	}

	if sumAmounts.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("splits", "parts remainder requires positive split amounts")
	}

	// Scale the listed parts so the unaccounted contributor's share covers
	// the gap between the listed amounts and the total.
	totalParts := sumCounters.Mul(total).Div(sumAmounts)
	for _, s := range splits {
		result.Shares[s.UserID] = s.Counter.Mul(total).Div(totalParts)
	}

	result.Shares[unlisted[0]] = totalParts.Sub(sumCounters).Mul(total).Div(totalParts)

	return nil
}

func computePercentage(result *SplitResult, total decimal.Decimal, splits []SplitInput, unlisted []string, sumCounters decimal.Decimal) error {
	if sumCounters.GreaterThan(hundred) {
		return NewValidationError("splits", "percentages must not exceed 100")
	}

	for _, s := range splits {
		result.Shares[s.UserID] = s.Counter.Div(hundred).Mul(total).Round(2)
	}

	if sumCounters.Equal(hundred) {
		result.RemainderMode = false

		for _, id := range unlisted {
			result.Shares[id] = decimal.Zero
		}

		return nil
	}

	if len(unlisted) != 1 {
		return NewValidationError("splits", "percentage remainder requires exactly one unlisted contributor")
	}

	result.RemainderMode = true
	result.Shares[unlisted[0]] = hundred.Sub(sumCounters).Mul(total).Div(hundred).Round(2)

	return nil
}

func computeCustom(result *SplitResult, total decimal.Decimal, splits []SplitInput, unlisted []string, sumAmounts decimal.Decimal, explicit bool) error {
	for _, s := range splits {
		result.Shares[s.UserID] = s.Amount
	}

	if explicit {
		for _, id := range unlisted {
			result.Shares[id] = decimal.Zero
		}

		return nil
	}

	if len(unlisted) != 1 {
		return NewValidationError("splits", "custom remainder requires exactly one unlisted contributor")
	}

	remainder := total.Sub(sumAmounts)
	if remainder.IsNegative() {
		return NewValidationError("splits", "split amounts exceed the expense total")
	}

	result.Shares[unlisted[0]] = remainder

	return nil
}

func checkDuplicates(splits []SplitInput, contributors []Contributor) error {
	seen := make(map[string]bool, len(splits))
	for _, s := range splits {
		if seen[s.UserID] {
			return NewValidationError("splits", "duplicate user "+s.UserID)
		}
		seen[s.UserID] = true
	}

	seen = make(map[string]bool, len(contributors))
	for _, c := range contributors {
		if seen[c.UserID] {
			return NewValidationError("contributors", "duplicate user "+c.UserID)
		}
		seen[c.UserID] = true
	}

	return nil
}

// Participants returns the duplicate-free union of contributor and split
// user IDs, contributors first, in input order.
func Participants(splits []SplitInput, contributors []Contributor) []string {
	seen := make(map[string]bool, len(splits)+len(contributors))

	var ids []string
	for _, c := range contributors {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}

	for _, s := range splits {
		if !seen[s.UserID] {
			seen[s.UserID] = true
			ids = append(ids, s.UserID)
		}
	}

	return ids
}

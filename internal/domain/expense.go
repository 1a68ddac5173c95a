package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SumTolerance is the maximum allowed drift between an expense total and the
// sum of its transfer rows. Rounded percentage shares make exact equality
// unattainable.
var SumTolerance = decimal.NewFromFloat(0.01)

// SplitMethod determines how an expense total is divided into shares.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitParts      SplitMethod = "parts"
	SplitPercentage SplitMethod = "percentage"
	SplitCustom     SplitMethod = "custom"
)

// IsValid checks if the split method is known.
func (m SplitMethod) IsValid() bool {
	switch m {
	case SplitEqual, SplitParts, SplitPercentage, SplitCustom:
		return true
	}
	return false
}

// Expense is an immutable economic event. Only the Settled flag moves
// forward after creation; Deleted is a soft-delete marker.
type Expense struct {
	CreatedAt   time.Time
	GroupID     *string
	ID          string
	Description string
	Currency    string
	CreatedBy   string
	SplitMethod SplitMethod
	Amount      decimal.Decimal
	Settled     bool
	Deleted     bool
}

// Contributor records who actually paid money toward an expense. It is an
// input value, never persisted directly; contributions fold into transfer
// rows where payer and payee coincide.
type Contributor struct {
	UserID     string
	AmountPaid decimal.Decimal
}

// SplitInput is one entry of the requested split. Amount is an explicit
// monetary share; Counter means parts count or percentage points depending
// on the split method.
type SplitInput struct {
	UserID  string
	Amount  decimal.Decimal
	Counter decimal.Decimal
}

// Transfer is a persisted ledger line: a directed amount owed from one user
// to another for one expense. FromUserID == ToUserID marks a self-settled
// contribution (a participant covering their own share). Only Settled is
// mutated after creation, and only from false to true.
type Transfer struct {
	CreatedAt  time.Time
	ID         string
	ExpenseID  string
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
	Counter    decimal.Decimal
	Settled    bool
}

// IsSelf reports whether the transfer records self-coverage rather than an
// interpersonal debt.
func (t *Transfer) IsSelf() bool {
	return t.FromUserID == t.ToUserID
}

// TransferDraft is a computed transfer row before it gets an identity and
// an expense attached.
type TransferDraft struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// OpenTransfer is a flat unsettled-transfer row as returned by the store
// for balance aggregation, carrying the expense currency.
type OpenTransfer struct {
	FromUserID string
	ToUserID   string
	Currency   string
	Amount     decimal.Decimal
}

// CounterpartyBalance is the net position against one counterparty in one
// currency. Positive means the counterparty owes this user.
type CounterpartyBalance struct {
	CounterpartyID string
	Currency       string
	Balance        decimal.Decimal
}

// SumWithinTolerance reports whether the drafts sum to total within
// SumTolerance.
func SumWithinTolerance(total decimal.Decimal, drafts []TransferDraft) bool {
	sum := decimal.Zero
	for _, d := range drafts {
		sum = sum.Add(d.Amount)
	}
	return sum.Sub(total).Abs().LessThanOrEqual(SumTolerance)
}

package domain

import (
	"github.com/shopspring/decimal"
)

// Reconcile nets each participant's contribution against their share.
// A positive balance marks a creditor (paid more than their share), a
// negative one a debtor. Participants without a contribution owe their
// full share.
//
// It also emits one self-transfer draft per contributor: the portion of
// their own share their payment already covers. Recording it keeps the
// per-expense transfer rows summing to the expense total.
func Reconcile(shares map[string]decimal.Decimal, contributors []Contributor) (map[string]decimal.Decimal, []TransferDraft) {
	paid := make(map[string]decimal.Decimal, len(contributors))
	for _, c := range contributors {
		paid[c.UserID] = c.AmountPaid
	}

	balances := make(map[string]decimal.Decimal, len(shares))
	for userID, share := range shares {
		balances[userID] = paid[userID].Sub(share)
	}

	// Contributors may pay without holding a share (share 0); they are
	// pure creditors.
	for _, c := range contributors {
		if _, ok := balances[c.UserID]; !ok {
			balances[c.UserID] = c.AmountPaid
		}
	}

	var selfRows []TransferDraft
	for _, c := range contributors {
		covered := decimal.Min(c.AmountPaid, shares[c.UserID])
		if covered.IsPositive() {
			selfRows = append(selfRows, TransferDraft{
				FromUserID: c.UserID,
				ToUserID:   c.UserID,
				Amount:     covered,
			})
		}
	}

	return balances, selfRows
}

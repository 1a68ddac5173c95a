package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

type party struct {
	userID    string
	remaining decimal.Decimal
}

// Match converts net balances into directed transfer drafts. Debtors and
// creditors are each ordered by magnitude descending (user ID ascending on
// ties, for determinism) and paired greedily: the largest debtor pays the
// largest creditor min(remaining, remaining), and whichever side reaches
// zero advances.
//
// The result is one of possibly several minimal transfer sets; callers
// must assert on net balances, not the exact edge list.
func Match(balances map[string]decimal.Decimal) []TransferDraft {
	var debtors, creditors []party

	for userID, balance := range balances {
		switch {
		case balance.IsNegative():
			debtors = append(debtors, party{userID: userID, remaining: balance.Neg()})
		case balance.IsPositive():
			creditors = append(creditors, party{userID: userID, remaining: balance})
		}
	}

	sortParties(debtors)
	sortParties(creditors)

	var drafts []TransferDraft

	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		settle := decimal.Min(debtors[i].remaining, creditors[j].remaining)

		if settle.IsPositive() {
			drafts = append(drafts, TransferDraft{
				FromUserID: debtors[i].userID,
				ToUserID:   creditors[j].userID,
				Amount:     settle,
			})
		}

		debtors[i].remaining = debtors[i].remaining.Sub(settle)
		creditors[j].remaining = creditors[j].remaining.Sub(settle)

		if debtors[i].remaining.IsZero() {
			i++
		}

		if creditors[j].remaining.IsZero() {
			j++
		}
	}

	return drafts
}

func sortParties(parties []party) {
	sort.Slice(parties, func(a, b int) bool {
		cmp := parties[a].remaining.Cmp(parties[b].remaining)
		if cmp != 0 {
			return cmp > 0
		}

		return parties[a].userID < parties[b].userID
	})
}

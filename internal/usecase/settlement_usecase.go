package usecase

import (
	"context"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// SettlementUseCase marks the transfers between two users as settled and
// cascades expense closure.
type SettlementUseCase struct {
	txManager    TransactionManager
	expenseRepo  ExpenseRepository
	transferRepo TransferRepository
	retrier      Retrier
	cache        Cache
}

// NewSettlementUseCase creates a new SettlementUseCase. retrier and cache
// may be nil.
func NewSettlementUseCase(
	txManager TransactionManager,
	expenseRepo ExpenseRepository,
	transferRepo TransferRepository,
	retrier Retrier,
	cache Cache,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:    txManager,
		expenseRepo:  expenseRepo,
		transferRepo: transferRepo,
		retrier:      retrier,
		cache:        cache,
	}
}

// SettleUpResult reports the outcome of a settle-up call.
type SettleUpResult struct {
	Message          string
	SettledExpenses  int
	SettledTransfers int
}

// SettleBetween settles every open transfer between the pair, in both
// directions, then closes each touched expense that has no open transfer
// left. The conditional update only flips settled = false rows, so running
// it twice converges to the same state.
func (uc *SettlementUseCase) SettleBetween(ctx context.Context, userA, userB string) (*SettleUpResult, error) {
	if userA == "" || userB == "" {
		return nil, domain.NewValidationError("user_id", "both users must be provided")
	}

	if userA == userB {
		return nil, domain.NewValidationError("user_id", "cannot settle a user against themselves")
	}

	var settledTransfers, settledExpenses int

	settle := func() error {
		settledTransfers, settledExpenses = 0, 0

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		expenseIDs, err := uc.transferRepo.MarkSettledBetween(ctx, tx, userA, userB)
		if err != nil {
			return err
		}

		settledTransfers = len(expenseIDs)

		for _, expenseID := range uniqueStrings(expenseIDs) {
			open, err := uc.transferRepo.CountOpenByExpense(ctx, tx, expenseID)
			if err != nil {
				return err
			}

			if open == 0 {
				if err := uc.expenseRepo.MarkSettled(ctx, tx, expenseID); err != nil {
					return err
				}

				settledExpenses++
			}
		}

		return tx.Commit(ctx)
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, settle)
	} else {
		err = settle()
	}

	if err != nil {
		return nil, err
	}

	uc.invalidateBalances(ctx, userA, userB)

	return &SettleUpResult{
		Message:          "expenses between the two users have been settled",
		SettledExpenses:  settledExpenses,
		SettledTransfers: settledTransfers,
	}, nil
}

// UnsettledExpensesFor lists expenses with at least one open transfer
// involving the user, excluding soft-deleted expenses. since, when set,
// restricts to expenses created after that moment.
func (uc *SettlementUseCase) UnsettledExpensesFor(ctx context.Context, userID string, since *time.Time) ([]*domain.Expense, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "must not be empty")
	}

	return uc.expenseRepo.ListUnsettledByUser(ctx, userID, since)
}

func (uc *SettlementUseCase) invalidateBalances(ctx context.Context, userIDs ...string) {
	if uc.cache == nil {
		return
	}

	for _, userID := range userIDs {
		_ = uc.cache.Delete(ctx, balanceCacheKey(userID))
	}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))

	var unique []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}

	return unique
}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
)

// ExpenseUseCase writes expenses to the ledger: it computes shares, nets
// contributions, matches settlements, and commits the expense together
// with its transfer rows as one atomic unit.
type ExpenseUseCase struct {
	txManager    TransactionManager
	expenseRepo  ExpenseRepository
	transferRepo TransferRepository
	groupRepo    GroupRepository
	userRepo     UserRepository
	idGen        IDGenerator
	cache        Cache
}

// NewExpenseUseCase creates a new ExpenseUseCase. cache may be nil.
func NewExpenseUseCase(
	txManager TransactionManager,
	expenseRepo ExpenseRepository,
	transferRepo TransferRepository,
	groupRepo GroupRepository,
	userRepo UserRepository,
	idGen IDGenerator,
	cache Cache,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:    txManager,
		expenseRepo:  expenseRepo,
		transferRepo: transferRepo,
		groupRepo:    groupRepo,
		userRepo:     userRepo,
		idGen:        idGen,
		cache:        cache,
	}
}

// CreateExpenseInput represents input for creating an expense.
type CreateExpenseInput struct {
	GroupID      *string
	Description  string
	Currency     string
	CreatedBy    string
	SplitMethod  domain.SplitMethod
	Amount       decimal.Decimal
	Contributors []domain.Contributor
	Splits       []domain.SplitInput
}

// CreateExpenseResult is the committed expense plus its transfer rows.
type CreateExpenseResult struct {
	Expense   *domain.Expense
	Transfers []*domain.Transfer
}

// ExpenseWithTransfers pairs an expense with its transfer rows for listing.
type ExpenseWithTransfers struct {
	Expense   *domain.Expense
	Transfers []*domain.Transfer
}

// CreateExpense runs the full ledger write. All validation happens before
// the transaction starts; a failure inside the transaction rolls back the
// expense and every transfer row together.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*CreateExpenseResult, error) {
	// 1. Validate
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	// 2. Compute
	split, err := domain.ComputeShares(input.Amount, input.SplitMethod, input.Splits, input.Contributors)
	if err != nil {
		return nil, err
	}

	balances, selfRows := domain.Reconcile(split.Shares, input.Contributors)
	matched := domain.Match(balances)

	drafts := append(selfRows, matched...)
	if !domain.SumWithinTolerance(input.Amount, drafts) {
		sum := decimal.Zero
		for _, d := range drafts {
			sum = sum.Add(d.Amount)
		}

		return nil, &domain.ConsistencyError{ExpectedTotal: input.Amount, ActualTotal: sum}
	}

	// 3. Persist
	now := time.Now().UTC()

	expense := &domain.Expense{
		ID:          uc.idGen.Generate(),
		Description: input.Description,
		Currency:    input.Currency,
		Amount:      input.Amount,
		GroupID:     input.GroupID,
		SplitMethod: input.SplitMethod,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
	}

	counters := make(map[string]decimal.Decimal, len(input.Splits))
	for _, s := range input.Splits {
		counters[s.UserID] = s.Counter
	}

	// Self rows are born settled: they record coverage, not debt. An
	// expense with no interpersonal debt is therefore settled on arrival.
	expense.Settled = len(matched) == 0

	transfers := make([]*domain.Transfer, 0, len(drafts))
	for _, d := range drafts {
		transfers = append(transfers, &domain.Transfer{
			ID:         uc.idGen.Generate(),
			ExpenseID:  expense.ID,
			FromUserID: d.FromUserID,
			ToUserID:   d.ToUserID,
			Amount:     d.Amount,
			Counter:    counters[d.FromUserID],
			Settled:    d.FromUserID == d.ToUserID,
			CreatedAt:  now,
		})
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.expenseRepo.Create(ctx, tx, expense); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.CreateBatch(ctx, tx, transfers); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateBalances(ctx, domain.Participants(input.Splits, input.Contributors))

	return &CreateExpenseResult{Expense: expense, Transfers: transfers}, nil
}

func (uc *ExpenseUseCase) validate(ctx context.Context, input CreateExpenseInput) error {
	if err := domain.ValidateDescription(input.Description); err != nil {
		return err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}

	if len(input.Contributors) == 0 {
		return domain.NewValidationError("contributors", "must not be empty")
	}

	paid := decimal.Zero
	for _, c := range input.Contributors {
		paid = paid.Add(c.AmountPaid)
	}

	if paid.Sub(input.Amount).Abs().GreaterThan(domain.SumTolerance) {
		return domain.NewValidationError("contributors", "contributions must sum to the expense total")
	}

	participants := domain.Participants(input.Splits, input.Contributors)

	for _, userID := range participants {
		deleted, err := uc.userRepo.IsDeleted(ctx, userID)
		if err != nil {
			return err
		}

		if deleted {
			return domain.NewValidationError("participants", "user "+userID+" is deleted")
		}
	}

	if input.GroupID != nil {
		exists, err := uc.groupRepo.Exists(ctx, *input.GroupID)
		if err != nil {
			return err
		}

		if !exists {
			return domain.ErrGroupNotFound
		}

		for _, userID := range participants {
			member, err := uc.groupRepo.IsActiveMember(ctx, *input.GroupID, userID)
			if err != nil {
				return err
			}

			if !member {
				return domain.NewValidationError("participants", "user "+userID+" is not a member of group "+*input.GroupID)
			}
		}
	}

	return nil
}

// GetAllExpenses lists every non-deleted expense with its transfer rows.
// Nested shapes are assembled here from flat store rows.
func (uc *ExpenseUseCase) GetAllExpenses(ctx context.Context) ([]*ExpenseWithTransfers, error) {
	expenses, err := uc.expenseRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(expenses))
	for _, e := range expenses {
		ids = append(ids, e.ID)
	}

	transfersByExpense, err := uc.transferRepo.ListByExpenses(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*ExpenseWithTransfers, 0, len(expenses))
	for _, e := range expenses {
		result = append(result, &ExpenseWithTransfers{
			Expense:   e,
			Transfers: transfersByExpense[e.ID],
		})
	}

	return result, nil
}

// GetExpense retrieves one expense with its transfer rows.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id string) (*ExpenseWithTransfers, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	transfers, err := uc.transferRepo.ListByExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithTransfers{Expense: expense, Transfers: transfers}, nil
}

func (uc *ExpenseUseCase) invalidateBalances(ctx context.Context, userIDs []string) {
	if uc.cache == nil {
		return
	}

	for _, userID := range userIDs {
		// Best effort; a stale entry expires with the TTL anyway.
		_ = uc.cache.Delete(ctx, balanceCacheKey(userID))
	}
}

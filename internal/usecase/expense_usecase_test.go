package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/internal/usecase/mocks"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type expenseFixture struct {
	txMgr        *mocks.MockTransactionManager
	expenseRepo  *mocks.MockExpenseRepository
	transferRepo *mocks.MockTransferRepository
	groupRepo    *mocks.MockGroupRepository
	userRepo     *mocks.MockUserRepository
	idGen        *mocks.MockIDGenerator
}

func newExpenseFixture(users ...string) *expenseFixture {
	f := &expenseFixture{
		txMgr:        mocks.NewMockTransactionManager(),
		expenseRepo:  mocks.NewMockExpenseRepository(),
		transferRepo: mocks.NewMockTransferRepository(),
		groupRepo:    mocks.NewMockGroupRepository(),
		userRepo:     mocks.NewMockUserRepository(),
		idGen:        mocks.NewMockIDGenerator(),
	}

	for _, id := range users {
		f.userRepo.Create(context.Background(), &domain.User{ID: id})
	}

	counter := 0
	f.idGen.GenerateFunc = func() string {
		counter++
		return fmt.Sprintf("id-%d", counter)
	}

	return f
}

func (f *expenseFixture) useCase() *usecase.ExpenseUseCase {
	return usecase.NewExpenseUseCase(f.txMgr, f.expenseRepo, f.transferRepo, f.groupRepo, f.userRepo, f.idGen, nil)
}

func TestExpenseUseCase_CreateExpense(t *testing.T) {
	t.Run("equal split single payer", func(t *testing.T) {
		f := newExpenseFixture("alice", "bob")
		uc := f.useCase()

		result, err := uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
			Description: "Groceries",
			Currency:    "USD",
			Amount:      dec("100"),
			SplitMethod: domain.SplitEqual,
			CreatedBy:   "alice",
			Contributors: []domain.Contributor{
				{UserID: "alice", AmountPaid: dec("100")},
				{UserID: "bob", AmountPaid: dec("0")},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Expense.Settled {
			t.Error("expense with open debt should not be settled")
		}
		if len(result.Transfers) != 2 {
			t.Fatalf("expected 2 transfers, got %d", len(result.Transfers))
		}

		var self, debt *domain.Transfer
		for _, tr := range result.Transfers {
			if tr.IsSelf() {
				self = tr
			} else {
				debt = tr
			}
		}

		if self == nil || !self.Amount.Equal(dec("50")) || self.FromUserID != "alice" {
			t.Errorf("expected self transfer alice->alice 50, got %+v", self)
		}
		if !self.Settled {
			t.Error("self transfer must be born settled")
		}
		if debt == nil || debt.FromUserID != "bob" || debt.ToUserID != "alice" || !debt.Amount.Equal(dec("50")) {
			t.Errorf("expected debt bob->alice 50, got %+v", debt)
		}
		if debt.Settled {
			t.Error("interpersonal debt must start open")
		}

		sum := decimal.Zero
		for _, tr := range result.Transfers {
			sum = sum.Add(tr.Amount)
		}
		if !sum.Equal(dec("100")) {
			t.Errorf("transfers must sum to the total, got %s", sum)
		}
	})

	t.Run("everyone pays own share settles immediately", func(t *testing.T) {
		f := newExpenseFixture("alice", "bob")
		uc := f.useCase()

		result, err := uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
			Description: "Split lunch",
			Currency:    "EUR",
			Amount:      dec("80"),
			SplitMethod: domain.SplitEqual,
			CreatedBy:   "alice",
			Contributors: []domain.Contributor{
				{UserID: "alice", AmountPaid: dec("40")},
				{UserID: "bob", AmountPaid: dec("40")},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.Expense.Settled {
			t.Error("expense without debt should be settled on arrival")
		}
		for _, tr := range result.Transfers {
			if !tr.IsSelf() || !tr.Settled {
				t.Errorf("expected settled self transfer, got %+v", tr)
			}
		}
	})

	t.Run("group expense requires active membership", func(t *testing.T) {
		f := newExpenseFixture("alice", "bob", "carol")
		groupID := "g-1"
		f.groupRepo.Create(context.Background(), &domain.Group{ID: groupID}, "alice")
		f.groupRepo.AddMember(context.Background(), groupID, "bob")

		uc := f.useCase()

		_, err := uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
			Description: "Group dinner",
			Currency:    "USD",
			Amount:      dec("90"),
			GroupID:     &groupID,
			SplitMethod: domain.SplitEqual,
			CreatedBy:   "alice",
			Contributors: []domain.Contributor{
				{UserID: "alice", AmountPaid: dec("90")},
			},
			Splits: []domain.SplitInput{
				{UserID: "bob"},
				{UserID: "carol"},
			},
		})
		if !domain.IsValidationError(err) {
			t.Fatalf("expected validation error for non-member, got %v", err)
		}
	})

	t.Run("unknown group rejected", func(t *testing.T) {
		f := newExpenseFixture("alice")
		uc := f.useCase()

		missing := "nope"
		_, err := uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
			Description: "Ghost group",
			Currency:    "USD",
			Amount:      dec("10"),
			GroupID:     &missing,
			SplitMethod: domain.SplitEqual,
			CreatedBy:   "alice",
			Contributors: []domain.Contributor{
				{UserID: "alice", AmountPaid: dec("10")},
			},
		})
		if err != domain.ErrGroupNotFound {
			t.Fatalf("expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("no writes on validation failure", func(t *testing.T) {
		f := newExpenseFixture("alice", "bob")
		f.txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
			t.Fatal("transaction must not start for invalid input")
			return nil, nil
		}
		uc := f.useCase()

		tests := []struct {
			name  string
			input usecase.CreateExpenseInput
		}{
			{
				name: "bad currency",
				input: usecase.CreateExpenseInput{
					Description:  "Dinner",
					Currency:     "DOGE",
					Amount:       dec("100"),
					SplitMethod:  domain.SplitEqual,
					CreatedBy:    "alice",
					Contributors: []domain.Contributor{{UserID: "alice", AmountPaid: dec("100")}},
				},
			},
			{
				name: "empty description",
				input: usecase.CreateExpenseInput{
					Currency:     "USD",
					Amount:       dec("100"),
					SplitMethod:  domain.SplitEqual,
					CreatedBy:    "alice",
					Contributors: []domain.Contributor{{UserID: "alice", AmountPaid: dec("100")}},
				},
			},
			{
				name: "contributions below total",
				input: usecase.CreateExpenseInput{
					Description:  "Dinner",
					Currency:     "USD",
					Amount:       dec("100"),
					SplitMethod:  domain.SplitEqual,
					CreatedBy:    "alice",
					Contributors: []domain.Contributor{{UserID: "alice", AmountPaid: dec("60")}},
				},
			},
			{
				name: "no contributors",
				input: usecase.CreateExpenseInput{
					Description: "Dinner",
					Currency:    "USD",
					Amount:      dec("100"),
					SplitMethod: domain.SplitEqual,
					CreatedBy:   "alice",
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := uc.CreateExpense(context.Background(), tt.input)
				if !domain.IsValidationError(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
			})
		}
	})

	t.Run("deleted participant rejected", func(t *testing.T) {
		f := newExpenseFixture("alice")
		f.userRepo.Create(context.Background(), &domain.User{ID: "bob", Deleted: true})
		uc := f.useCase()

		_, err := uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
			Description: "Dinner",
			Currency:    "USD",
			Amount:      dec("100"),
			SplitMethod: domain.SplitEqual,
			CreatedBy:   "alice",
			Contributors: []domain.Contributor{
				{UserID: "alice", AmountPaid: dec("100")},
			},
			Splits: []domain.SplitInput{
				{UserID: "bob"},
			},
		})
		if !domain.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("invalidates balance cache for all participants", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := mocks.NewMockCache(ctrl)
		cache.EXPECT().Delete(gomock.Any(), "balances:alice").Return(nil)
		cache.EXPECT().Delete(gomock.Any(), "balances:bob").Return(nil)

		f := newExpenseFixture("alice", "bob")
		uc := usecase.NewExpenseUseCase(f.txMgr, f.expenseRepo, f.transferRepo, f.groupRepo, f.userRepo, f.idGen, cache)

		_, err := uc.CreateExpense(context.Background(), usecase.CreateExpenseInput{
			Description: "Taxi",
			Currency:    "USD",
			Amount:      dec("30"),
			SplitMethod: domain.SplitEqual,
			CreatedBy:   "alice",
			Contributors: []domain.Contributor{
				{UserID: "alice", AmountPaid: dec("30")},
				{UserID: "bob", AmountPaid: dec("0")},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestExpenseUseCase_GetAllExpenses(t *testing.T) {
	f := newExpenseFixture("alice", "bob")
	uc := f.useCase()

	ctx := context.Background()
	result, err := uc.CreateExpense(ctx, usecase.CreateExpenseInput{
		Description: "Cinema",
		Currency:    "USD",
		Amount:      dec("40"),
		SplitMethod: domain.SplitEqual,
		CreatedBy:   "alice",
		Contributors: []domain.Contributor{
			{UserID: "alice", AmountPaid: dec("40")},
			{UserID: "bob", AmountPaid: dec("0")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := uc.GetAllExpenses(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(all) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(all))
	}
	if all[0].Expense.ID != result.Expense.ID {
		t.Errorf("expected expense %s, got %s", result.Expense.ID, all[0].Expense.ID)
	}
	if len(all[0].Transfers) != len(result.Transfers) {
		t.Errorf("expected %d transfers, got %d", len(result.Transfers), len(all[0].Transfers))
	}
}

func TestExpenseUseCase_GetExpense(t *testing.T) {
	f := newExpenseFixture("alice", "bob")
	uc := f.useCase()

	ctx := context.Background()
	created, err := uc.CreateExpense(ctx, usecase.CreateExpenseInput{
		Description: "Coffee",
		Currency:    "USD",
		Amount:      dec("12"),
		SplitMethod: domain.SplitEqual,
		CreatedBy:   "alice",
		Contributors: []domain.Contributor{
			{UserID: "alice", AmountPaid: dec("12")},
			{UserID: "bob", AmountPaid: dec("0")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := uc.GetExpense(ctx, created.Expense.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Expense.ID != created.Expense.ID {
		t.Errorf("expected %s, got %s", created.Expense.ID, got.Expense.ID)
	}

	if _, err := uc.GetExpense(ctx, "missing"); err != domain.ErrExpenseNotFound {
		t.Errorf("expected ErrExpenseNotFound, got %v", err)
	}
}

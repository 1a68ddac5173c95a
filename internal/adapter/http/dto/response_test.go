package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

func TestExpenseFromDomain(t *testing.T) {
	groupID := "g-1"
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got := ExpenseFromDomain(&domain.Expense{
		ID:          "exp-1",
		Description: "dinner",
		Currency:    "USD",
		Amount:      decimal.RequireFromString("100"),
		GroupID:     &groupID,
		SplitMethod: domain.SplitParts,
		CreatedBy:   "alice",
		Settled:     true,
		CreatedAt:   created,
	})

	require.Equal(t, "exp-1", got.ID)
	require.Equal(t, "dinner", got.Description)
	require.Equal(t, "parts", got.SplitMethod)
	require.True(t, got.Settled)
	require.NotNil(t, got.GroupID)
	require.Equal(t, "g-1", *got.GroupID)
	require.Equal(t, created, got.CreatedAt)
}

func TestExpenseWithTransfersFromUseCase(t *testing.T) {
	got := ExpenseWithTransfersFromUseCase(&usecase.ExpenseWithTransfers{
		Expense: &domain.Expense{ID: "exp-1", Amount: decimal.RequireFromString("100")},
		Transfers: []*domain.Transfer{
			{ID: "t-1", ExpenseID: "exp-1", FromUserID: "alice", ToUserID: "alice", Amount: decimal.RequireFromString("50"), Settled: true},
			{ID: "t-2", ExpenseID: "exp-1", FromUserID: "bob", ToUserID: "alice", Amount: decimal.RequireFromString("50")},
		},
	})

	require.Equal(t, "exp-1", got.Expense.ID)
	require.Len(t, got.Transfers, 2)
	require.Equal(t, "t-1", got.Transfers[0].ID)
	require.True(t, got.Transfers[0].Settled)
	require.Equal(t, "bob", got.Transfers[1].FromUserID)
}

func TestBalancesFromDomain(t *testing.T) {
	got := BalancesFromDomain([]*domain.CounterpartyBalance{
		{CounterpartyID: "bob", Currency: "USD", Balance: decimal.RequireFromString("30")},
		{CounterpartyID: "carol", Currency: "EUR", Balance: decimal.RequireFromString("-15")},
	})

	require.Len(t, got, 2)
	require.Equal(t, "bob", got[0].CounterpartyID)
	require.True(t, got[0].Balance.Equal(decimal.RequireFromString("30")))
	require.True(t, got[1].Balance.IsNegative())
}

func TestUserFromDomain_OmitsPasswordHash(t *testing.T) {
	user := &domain.User{
		ID:             "u-1",
		Name:           "Alice",
		Email:          "alice@example.com",
		HashedPassword: "bcrypt-hash",
	}

	got := UserFromDomain(user)

	require.Equal(t, "u-1", got.ID)
	require.Equal(t, "alice@example.com", got.Email)
}

func TestGroupsFromDomain(t *testing.T) {
	got := GroupsFromDomain([]*domain.Group{
		{ID: "g-1", Name: "Trip"},
		{ID: "g-2", Name: "Flat"},
	})

	require.Len(t, got, 2)
	require.Equal(t, "Trip", got[0].Name)
	require.Equal(t, "g-2", got[1].ID)
}

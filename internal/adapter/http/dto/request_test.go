package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/splitledger/internal/domain"
)

func TestCreateExpenseRequest_ToUseCaseInput(t *testing.T) {
	groupID := "g-1"
	req := &CreateExpenseRequest{
		Description: "dinner",
		Currency:    "USD",
		Amount:      decimal.RequireFromString("100"),
		GroupID:     &groupID,
		SplitMethod: "percentage",
		CreatedBy:   "alice",
		Contributors: []ContributorItem{
			{UserID: "alice", AmountPaid: decimal.RequireFromString("100")},
		},
		Splits: []SplitItem{
			{UserID: "bob", Counter: decimal.RequireFromString("60")},
			{UserID: "carol", Counter: decimal.RequireFromString("40")},
		},
	}

	got := req.ToUseCaseInput()

	require.Equal(t, "dinner", got.Description)
	require.Equal(t, "USD", got.Currency)
	require.Equal(t, domain.SplitPercentage, got.SplitMethod)
	require.Equal(t, "alice", got.CreatedBy)
	require.NotNil(t, got.GroupID)
	require.Equal(t, "g-1", *got.GroupID)

	require.Len(t, got.Contributors, 1)
	require.Equal(t, "alice", got.Contributors[0].UserID)
	require.True(t, got.Contributors[0].AmountPaid.Equal(decimal.RequireFromString("100")))

	require.Len(t, got.Splits, 2)
	require.Equal(t, "bob", got.Splits[0].UserID)
	require.True(t, got.Splits[0].Counter.Equal(decimal.RequireFromString("60")))
}

func TestCreateExpenseRequest_ToUseCaseInput_NoGroup(t *testing.T) {
	req := &CreateExpenseRequest{
		Description: "taxi",
		Currency:    "EUR",
		Amount:      decimal.RequireFromString("20"),
		SplitMethod: "equal",
		CreatedBy:   "alice",
		Contributors: []ContributorItem{
			{UserID: "alice", AmountPaid: decimal.RequireFromString("20")},
		},
	}

	got := req.ToUseCaseInput()

	require.Nil(t, got.GroupID)
	require.Equal(t, domain.SplitEqual, got.SplitMethod)
	require.Empty(t, got.Splits)
}

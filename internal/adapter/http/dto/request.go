package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// ContributorItem is one payer entry in an expense request.
type ContributorItem struct {
	UserID     string          `json:"user_id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// SplitItem is one split entry in an expense request. Counter means parts
// count or percentage points depending on the split method.
type SplitItem struct {
	UserID  string          `json:"user_id"`
	Amount  decimal.Decimal `json:"amount"`
	Counter decimal.Decimal `json:"counter"`
}

// CreateExpenseRequest represents a request to create an expense.
type CreateExpenseRequest struct {
	Description  string            `json:"description"`
	Currency     string            `json:"currency"`
	Amount       decimal.Decimal   `json:"amount"`
	GroupID      *string           `json:"group_id,omitempty"`
	SplitMethod  string            `json:"split_method"`
	CreatedBy    string            `json:"created_by"`
	Contributors []ContributorItem `json:"contributors"`
	Splits       []SplitItem       `json:"splits"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateExpenseRequest) ToUseCaseInput() usecase.CreateExpenseInput {
	contributors := make([]domain.Contributor, len(r.Contributors))
	for i, c := range r.Contributors {
		contributors[i] = domain.Contributor{
			UserID:     c.UserID,
			AmountPaid: c.AmountPaid,
		}
	}

	splits := make([]domain.SplitInput, len(r.Splits))
	for i, s := range r.Splits {
		splits[i] = domain.SplitInput{
			UserID:  s.UserID,
			Amount:  s.Amount,
			Counter: s.Counter,
		}
	}

	return usecase.CreateExpenseInput{
		Description:  r.Description,
		Currency:     r.Currency,
		Amount:       r.Amount,
		GroupID:      r.GroupID,
		SplitMethod:  domain.SplitMethod(r.SplitMethod),
		CreatedBy:    r.CreatedBy,
		Contributors: contributors,
		Splits:       splits,
	}
}

// SettleUpRequest represents a request to settle all open transfers
// between two users.
type SettleUpRequest struct {
	UserID      string `json:"user_id"`
	OtherUserID string `json:"other_user_id"`
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateGroupRequest represents a request to create a group.
type CreateGroupRequest struct {
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	CreatedBy string `json:"created_by"`
}

// AddMemberRequest represents a request to add a user to a group.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

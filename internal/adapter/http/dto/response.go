package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	GroupID     *string         `json:"group_id,omitempty"`
	SplitMethod string          `json:"split_method"`
	CreatedBy   string          `json:"created_by"`
	Settled     bool            `json:"settled"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts domain expense to response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Currency:    e.Currency,
		Amount:      e.Amount,
		GroupID:     e.GroupID,
		SplitMethod: string(e.SplitMethod),
		CreatedBy:   e.CreatedBy,
		Settled:     e.Settled,
		CreatedAt:   e.CreatedAt,
	}
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID         string          `json:"id"`
	ExpenseID  string          `json:"expense_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Counter    decimal.Decimal `json:"counter"`
	Settled    bool            `json:"settled"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:         t.ID,
		ExpenseID:  t.ExpenseID,
		FromUserID: t.FromUserID,
		ToUserID:   t.ToUserID,
		Amount:     t.Amount,
		Counter:    t.Counter,
		Settled:    t.Settled,
		CreatedAt:  t.CreatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// ExpenseWithTransfersResponse represents an expense with its ledger rows.
type ExpenseWithTransfersResponse struct {
	Expense   *ExpenseResponse    `json:"expense"`
	Transfers []*TransferResponse `json:"transfers"`
}

// ExpenseWithTransfersFromUseCase converts a use case result to a response.
func ExpenseWithTransfersFromUseCase(e *usecase.ExpenseWithTransfers) *ExpenseWithTransfersResponse {
	return &ExpenseWithTransfersResponse{
		Expense:   ExpenseFromDomain(e.Expense),
		Transfers: TransfersFromDomain(e.Transfers),
	}
}

// ExpensesWithTransfersFromUseCase converts use case results to responses.
func ExpensesWithTransfersFromUseCase(expenses []*usecase.ExpenseWithTransfers) []*ExpenseWithTransfersResponse {
	result := make([]*ExpenseWithTransfersResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseWithTransfersFromUseCase(e)
	}
	return result
}

// BalanceResponse represents a net position against one counterparty.
type BalanceResponse struct {
	CounterpartyID string          `json:"counterparty_id"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
}

// BalancesFromDomain converts domain balances to responses.
func BalancesFromDomain(balances []*domain.CounterpartyBalance) []BalanceResponse {
	result := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceResponse{
			CounterpartyID: b.CounterpartyID,
			Currency:       b.Currency,
			Balance:        b.Balance,
		}
	}
	return result
}

// SettleUpResponse represents the outcome of a settle-up operation.
type SettleUpResponse struct {
	Message          string `json:"message"`
	SettledExpenses  int    `json:"settled_expenses"`
	SettledTransfers int    `json:"settled_transfers"`
}

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupFromDomain converts domain group to response.
func GroupFromDomain(g *domain.Group) *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Currency:  g.Currency,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
}

// GroupsFromDomain converts domain groups to responses.
func GroupsFromDomain(groups []*domain.Group) []*GroupResponse {
	result := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		result[i] = GroupFromDomain(g)
	}
	return result
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// LoginResponse represents a successful authentication.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

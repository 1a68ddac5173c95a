package usecase

import (
	"context"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	ListAll(ctx context.Context) ([]*domain.Expense, error)
	ListUnsettledByUser(ctx context.Context, userID string, since *time.Time) ([]*domain.Expense, error)
	MarkSettled(ctx context.Context, tx Transaction, id string) error
}

// TransferRepository defines data access for transfer rows.
type TransferRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, transfers []*domain.Transfer) error
	ListByExpense(ctx context.Context, expenseID string) ([]*domain.Transfer, error)
	ListByExpenses(ctx context.Context, expenseIDs []string) (map[string][]*domain.Transfer, error)
	ListOpenByUser(ctx context.Context, userID string) ([]*domain.OpenTransfer, error)
	// MarkSettledBetween flips settled on every open transfer between the
	// pair, in both directions, and returns the expense ID of each settled
	// row (duplicates included).
	MarkSettledBetween(ctx context.Context, tx Transaction, userA, userB string) ([]string, error)
	CountOpenByExpense(ctx context.Context, tx Transaction, expenseID string) (int, error)
}

// GroupRepository defines data access for groups and membership.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group, creatorID string) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	Exists(ctx context.Context, id string) (bool, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	IsActiveMember(ctx context.Context, groupID, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Group, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	IsDeleted(ctx context.Context, id string) (bool, error)
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
	ListUpdatedAfter(ctx context.Context, since time.Time) ([]*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient persistence failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

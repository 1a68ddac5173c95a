package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.Expense

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Expense, error)
	ListAllFunc             func(ctx context.Context) ([]*domain.Expense, error)
	ListUnsettledByUserFunc func(ctx context.Context, userID string, since *time.Time) ([]*domain.Expense, error)
	MarkSettledFunc         func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		expenses: make(map[string]*domain.Expense),
	}
}

func (m *MockExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) ListAll(ctx context.Context) ([]*domain.Expense, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var expenses []*domain.Expense
	for _, e := range m.expenses {
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func (m *MockExpenseRepository) ListUnsettledByUser(ctx context.Context, userID string, since *time.Time) ([]*domain.Expense, error) {
	if m.ListUnsettledByUserFunc != nil {
		return m.ListUnsettledByUserFunc(ctx, userID, since)
	}
	return nil, nil
}

func (m *MockExpenseRepository) MarkSettled(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.MarkSettledFunc != nil {
		return m.MarkSettledFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.expenses[id]; ok {
		e.Settled = true
	}
	return nil
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string][]*domain.Transfer

	CreateBatchFunc        func(ctx context.Context, tx usecase.Transaction, transfers []*domain.Transfer) error
	ListByExpenseFunc      func(ctx context.Context, expenseID string) ([]*domain.Transfer, error)
	ListByExpensesFunc     func(ctx context.Context, expenseIDs []string) (map[string][]*domain.Transfer, error)
	ListOpenByUserFunc     func(ctx context.Context, userID string) ([]*domain.OpenTransfer, error)
	MarkSettledBetweenFunc func(ctx context.Context, tx usecase.Transaction, userA, userB string) ([]string, error)
	CountOpenByExpenseFunc func(ctx context.Context, tx usecase.Transaction, expenseID string) (int, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string][]*domain.Transfer),
	}
}

func (m *MockTransferRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, transfers []*domain.Transfer) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, transfers)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range transfers {
		m.transfers[t.ExpenseID] = append(m.transfers[t.ExpenseID], t)
	}
	return nil
}

func (m *MockTransferRepository) ListByExpense(ctx context.Context, expenseID string) ([]*domain.Transfer, error) {
	if m.ListByExpenseFunc != nil {
		return m.ListByExpenseFunc(ctx, expenseID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transfers[expenseID], nil
}

func (m *MockTransferRepository) ListByExpenses(ctx context.Context, expenseIDs []string) (map[string][]*domain.Transfer, error) {
	if m.ListByExpensesFunc != nil {
		return m.ListByExpensesFunc(ctx, expenseIDs)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string][]*domain.Transfer)
	for _, id := range expenseIDs {
		result[id] = m.transfers[id]
	}
	return result, nil
}

func (m *MockTransferRepository) ListOpenByUser(ctx context.Context, userID string) ([]*domain.OpenTransfer, error) {
	if m.ListOpenByUserFunc != nil {
		return m.ListOpenByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockTransferRepository) MarkSettledBetween(ctx context.Context, tx usecase.Transaction, userA, userB string) ([]string, error) {
	if m.MarkSettledBetweenFunc != nil {
		return m.MarkSettledBetweenFunc(ctx, tx, userA, userB)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var expenseIDs []string
	for expenseID, rows := range m.transfers {
		for _, t := range rows {
			if t.Settled {
				continue
			}
			if (t.FromUserID == userA && t.ToUserID == userB) || (t.FromUserID == userB && t.ToUserID == userA) {
				t.Settled = true
				expenseIDs = append(expenseIDs, expenseID)
			}
		}
	}
	return expenseIDs, nil
}

func (m *MockTransferRepository) CountOpenByExpense(ctx context.Context, tx usecase.Transaction, expenseID string) (int, error) {
	if m.CountOpenByExpenseFunc != nil {
		return m.CountOpenByExpenseFunc(ctx, tx, expenseID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, t := range m.transfers[expenseID] {
		if !t.Settled {
			count++
		}
	}
	return count, nil
}

// MockGroupRepository is a mock implementation of GroupRepository.
type MockGroupRepository struct {
	mu      sync.RWMutex
	groups  map[string]*domain.Group
	members map[string]map[string]bool

	CreateFunc         func(ctx context.Context, group *domain.Group, creatorID string) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Group, error)
	ExistsFunc         func(ctx context.Context, id string) (bool, error)
	AddMemberFunc      func(ctx context.Context, groupID, userID string) error
	RemoveMemberFunc   func(ctx context.Context, groupID, userID string) error
	IsActiveMemberFunc func(ctx context.Context, groupID, userID string) (bool, error)
	ListByUserFunc     func(ctx context.Context, userID string) ([]*domain.Group, error)
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups:  make(map[string]*domain.Group),
		members: make(map[string]map[string]bool),
	}
}

func (m *MockGroupRepository) Create(ctx context.Context, group *domain.Group, creatorID string) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, group, creatorID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.ID] = group
	m.members[group.ID] = map[string]bool{creatorID: true}
	return nil
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, domain.ErrGroupNotFound
}

func (m *MockGroupRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.groups[id]
	return ok, nil
}

func (m *MockGroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, groupID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.members[groupID] == nil {
		m.members[groupID] = make(map[string]bool)
	}
	m.members[groupID][userID] = true
	return nil
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, groupID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.members[groupID] != nil {
		m.members[groupID][userID] = false
	}
	return nil
}

func (m *MockGroupRepository) IsActiveMember(ctx context.Context, groupID, userID string) (bool, error) {
	if m.IsActiveMemberFunc != nil {
		return m.IsActiveMemberFunc(ctx, groupID, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.members[groupID][userID], nil
}

func (m *MockGroupRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Group, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var groups []*domain.Group
	for groupID, members := range m.members {
		if members[userID] {
			if g, ok := m.groups[groupID]; ok {
				groups = append(groups, g)
			}
		}
	}
	return groups, nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc           func(ctx context.Context, user *domain.User) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*domain.User, error)
	IsDeletedFunc        func(ctx context.Context, id string) (bool, error)
	SoftDeleteFunc       func(ctx context.Context, id string, deletedAt time.Time) error
	ListUpdatedAfterFunc func(ctx context.Context, since time.Time) ([]*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) IsDeleted(ctx context.Context, id string) (bool, error) {
	if m.IsDeletedFunc != nil {
		return m.IsDeletedFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return u.Deleted, nil
	}
	return false, domain.ErrUserNotFound
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id, deletedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.Deleted = true
		u.UpdatedAt = deletedAt
	}
	return nil
}

func (m *MockUserRepository) ListUpdatedAfter(ctx context.Context, since time.Time) ([]*domain.User, error) {
	if m.ListUpdatedAfterFunc != nil {
		return m.ListUpdatedAfterFunc(ctx, since)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var users []*domain.User
	for _, u := range m.users {
		if u.UpdatedAt.After(since) {
			users = append(users, u)
		}
	}
	return users, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + string(rune('0'+m.counter))
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, description, currency, amount::text, group_id, split_method, created_by, settled, deleted, created_at`

// Create inserts an expense inside the given transaction.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO expenses (id, description, currency, amount, group_id, split_method, created_by, settled, deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := pgxTx.Exec(ctx, query,
		expense.ID,
		expense.Description,
		expense.Currency,
		expense.Amount.String(),
		expense.GroupID,
		string(expense.SplitMethod),
		expense.CreatedBy,
		expense.Settled,
		expense.Deleted,
		expense.CreatedAt,
	)

	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 AND deleted = FALSE`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExpenseNotFound
	}

	return expense, err
}

// ListAll lists every non-deleted expense, settled or not.
func (r *ExpenseRepository) ListAll(ctx context.Context) ([]*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE deleted = FALSE ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// ListUnsettledByUser lists non-deleted expenses that still have an open
// transfer involving the user, optionally created after since.
func (r *ExpenseRepository) ListUnsettledByUser(ctx context.Context, userID string, since *time.Time) ([]*domain.Expense, error) {
	query := `
		SELECT DISTINCT e.id, e.description, e.currency, e.amount::text, e.group_id, e.split_method, e.created_by, e.settled, e.deleted, e.created_at
		FROM expenses e
		INNER JOIN transfers t ON t.expense_id = e.id
		WHERE e.deleted = FALSE
		  AND t.settled = FALSE
		  AND (t.from_user_id = $1 OR t.to_user_id = $1)
	`

	args := []any{userID}
	if since != nil {
		query += ` AND e.created_at > $2`
		args = append(args, *since)
	}

	query += ` ORDER BY e.created_at, e.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// MarkSettled closes an expense. Only moves forward: a settled expense is
// never reopened.
func (r *ExpenseRepository) MarkSettled(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `UPDATE expenses SET settled = TRUE WHERE id = $1 AND settled = FALSE`, id)

	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var (
		expense     domain.Expense
		amount      string
		splitMethod string
	)

	err := row.Scan(
		&expense.ID,
		&expense.Description,
		&expense.Currency,
		&amount,
		&expense.GroupID,
		&splitMethod,
		&expense.CreatedBy,
		&expense.Settled,
		&expense.Deleted,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	expense.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}

	expense.SplitMethod = domain.SplitMethod(splitMethod)

	return &expense, nil
}

func collectExpenses(rows pgx.Rows) ([]*domain.Expense, error) {
	var expenses []*domain.Expense

	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

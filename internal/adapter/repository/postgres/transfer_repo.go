package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// CreateBatch inserts every transfer row inside the given transaction.
func (r *TransferRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, transfers []*domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	batch := &pgx.Batch{}
	for _, t := range transfers {
		batch.Queue(`
			INSERT INTO transfers (id, expense_id, from_user_id, to_user_id, amount, counter, settled, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID,
			t.ExpenseID,
			t.FromUserID,
			t.ToUserID,
			t.Amount.String(),
			t.Counter.String(),
			t.Settled,
			t.CreatedAt,
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range transfers {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}

const transferColumns = `id, expense_id, from_user_id, to_user_id, amount::text, counter::text, settled, created_at`

// ListByExpense lists every transfer row of one expense.
func (r *TransferRepository) ListByExpense(ctx context.Context, expenseID string) ([]*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE expense_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransfers(rows)
}

// ListByExpenses lists transfer rows for a set of expenses, keyed by
// expense ID.
func (r *TransferRepository) ListByExpenses(ctx context.Context, expenseIDs []string) (map[string][]*domain.Transfer, error) {
	byExpense := make(map[string][]*domain.Transfer, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return byExpense, nil
	}

	query := `SELECT ` + transferColumns + ` FROM transfers WHERE expense_id = ANY($1) ORDER BY expense_id, id`

	rows, err := r.pool.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers, err := collectTransfers(rows)
	if err != nil {
		return nil, err
	}

	for _, t := range transfers {
		byExpense[t.ExpenseID] = append(byExpense[t.ExpenseID], t)
	}

	return byExpense, nil
}

// ListOpenByUser returns flat unsettled rows touching the user, carrying
// the expense currency. Aggregation happens in the engine, not in SQL.
func (r *TransferRepository) ListOpenByUser(ctx context.Context, userID string) ([]*domain.OpenTransfer, error) {
	query := `
		SELECT t.from_user_id, t.to_user_id, e.currency, t.amount::text
		FROM transfers t
		INNER JOIN expenses e ON e.id = t.expense_id
		WHERE t.settled = FALSE
		  AND e.deleted = FALSE
		  AND (t.from_user_id = $1 OR t.to_user_id = $1)
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var open []*domain.OpenTransfer

	for rows.Next() {
		var (
			row    domain.OpenTransfer
			amount string
		)

		if err := rows.Scan(&row.FromUserID, &row.ToUserID, &row.Currency, &amount); err != nil {
			return nil, err
		}

		row.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}

		open = append(open, &row)
	}

	return open, rows.Err()
}

// MarkSettledBetween flips settled on every open transfer between the
// pair, in both directions. The WHERE settled = FALSE guard makes the
// update idempotent. Returns one expense ID per settled row.
func (r *TransferRepository) MarkSettledBetween(ctx context.Context, tx usecase.Transaction, userA, userB string) ([]string, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE transfers
		SET settled = TRUE
		WHERE settled = FALSE
		  AND ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1))
		RETURNING expense_id
	`

	rows, err := pgxTx.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenseIDs []string

	for rows.Next() {
		var expenseID string
		if err := rows.Scan(&expenseID); err != nil {
			return nil, err
		}

		expenseIDs = append(expenseIDs, expenseID)
	}

	return expenseIDs, rows.Err()
}

// CountOpenByExpense counts unsettled rows of one expense inside the
// given transaction.
func (r *TransferRepository) CountOpenByExpense(ctx context.Context, tx usecase.Transaction, expenseID string) (int, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var count int
	err := pgxTx.QueryRow(ctx,
		`SELECT COUNT(*) FROM transfers WHERE expense_id = $1 AND settled = FALSE`,
		expenseID,
	).Scan(&count)

	return count, err
}

func collectTransfers(rows pgx.Rows) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer

	for rows.Next() {
		var (
			t       domain.Transfer
			amount  string
			counter string
		)

		err := rows.Scan(
			&t.ID,
			&t.ExpenseID,
			&t.FromUserID,
			&t.ToUserID,
			&amount,
			&counter,
			&t.Settled,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		t.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}

		t.Counter, err = decimal.NewFromString(counter)
		if err != nil {
			return nil, err
		}

		transfers = append(transfers, &t)
	}

	return transfers, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/splitledger/internal/domain"
)

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, phone, hashed_password, deleted, created_at, updated_at`

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, hashed_password, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.HashedPassword,
		user.Deleted,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// IsDeleted reports whether the user has been soft-deleted. An unknown
// user maps to domain.ErrUserNotFound.
func (r *UserRepository) IsDeleted(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.pool.QueryRow(ctx, `SELECT deleted FROM users WHERE id = $1`, id).Scan(&deleted)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrUserNotFound
	}

	return deleted, err
}

// SoftDelete marks a user as deleted.
func (r *UserRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET deleted = TRUE, updated_at = $2 WHERE id = $1`,
		id, deletedAt,
	)

	return err
}

// ListUpdatedAfter lists users created or updated after the given moment.
func (r *UserRepository) ListUpdatedAfter(ctx context.Context, since time.Time) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE updated_at > $1 ORDER BY updated_at, id`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User

	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *UserRepository) scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.HashedPassword,
		&user.Deleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/splitledger/internal/domain"
)

// GroupRepository implements usecase.GroupRepository.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// Create inserts a group and enrolls the creator as its first member.
func (r *GroupRepository) Create(ctx context.Context, group *domain.Group, creatorID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO groups (id, name, currency, created_by, created_at) VALUES ($1, $2, $3, $4, $5)`,
		group.ID,
		group.Name,
		group.Currency,
		group.CreatedBy,
		group.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO group_users (group_id, user_id, joined_at) VALUES ($1, $2, $3)`,
		group.ID,
		creatorID,
		group.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a group by ID.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	query := `SELECT id, name, currency, created_by, created_at FROM groups WHERE id = $1`

	var group domain.Group
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Currency,
		&group.CreatedBy,
		&group.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGroupNotFound
	}

	if err != nil {
		return nil, err
	}

	return &group, nil
}

// Exists reports whether a group exists.
func (r *GroupRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`,
		id,
	).Scan(&exists)

	return exists, err
}

// AddMember adds a user to a group. Re-adding a removed member revives the
// soft-deleted row.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	query := `
		INSERT INTO group_users (group_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, user_id) DO UPDATE SET deleted = FALSE
	`

	_, err := r.pool.Exec(ctx, query, groupID, userID, time.Now().UTC())

	return err
}

// RemoveMember soft-deletes a membership row.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE group_users SET deleted = TRUE WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	)

	return err
}

// IsActiveMember reports whether the user is a non-removed member of the
// group.
func (r *GroupRepository) IsActiveMember(ctx context.Context, groupID, userID string) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM group_users WHERE group_id = $1 AND user_id = $2 AND deleted = FALSE)`,
		groupID, userID,
	).Scan(&active)

	return active, err
}

// ListByUser lists the groups a user actively belongs to.
func (r *GroupRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Group, error) {
	query := `
		SELECT g.id, g.name, g.currency, g.created_by, g.created_at
		FROM groups g
		INNER JOIN group_users gu ON gu.group_id = g.id
		WHERE gu.user_id = $1 AND gu.deleted = FALSE
		ORDER BY g.created_at, g.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.Group

	for rows.Next() {
		var group domain.Group
		err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.Currency,
			&group.CreatedBy,
			&group.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		groups = append(groups, &group)
	}

	return groups, rows.Err()
}

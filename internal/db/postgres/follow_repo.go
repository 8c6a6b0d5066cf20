package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Yatube/internal/core/follows"
)

type postgresFollowRepo struct {
	db *sql.DB
}

// NewFollowRepository creates a new PostgreSQL follow repository
func NewFollowRepository(db *sql.DB) follows.Repository {
	return &postgresFollowRepo{db: db}
}

// Create inserts the edge. ON CONFLICT DO NOTHING makes it idempotent,
// and the follows_no_self CHECK rejects self edges as a no-op too.
func (r *postgresFollowRepo) Create(ctx context.Context, userID, authorID int64) (bool, error) {
	query := `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, author_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, userID, authorID)
	if err != nil {
		if code, _ := pgError(err); code == codeCheckViolation {
			return false, nil
		}
		if constraint, ok := foreignKeyViolation(err); ok && constraint == fkFollowsAuthor {
			return false, follows.ErrAuthorNotFound
		}
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check follow insert: %w", err)
	}
	return affected > 0, nil
}

func (r *postgresFollowRepo) Delete(ctx context.Context, userID, authorID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM follows WHERE user_id = $1 AND author_id = $2`, userID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check follow delete: %w", err)
	}
	return affected > 0, nil
}

func (r *postgresFollowRepo) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, userID, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

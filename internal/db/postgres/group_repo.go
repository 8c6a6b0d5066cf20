package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Yatube/internal/core/groups"
)

type postgresGroupRepo struct {
	db *sql.DB
}

// NewGroupRepository creates a new PostgreSQL group repository
func NewGroupRepository(db *sql.DB) groups.Repository {
	return &postgresGroupRepo{db: db}
}

func (r *postgresGroupRepo) Create(ctx context.Context, group *groups.Group) (*groups.Group, error) {
	query := `
		INSERT INTO groups (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, group.Title, group.Slug, group.Description).
		Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, groups.ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

func (r *postgresGroupRepo) GetByID(ctx context.Context, id int64) (*groups.Group, error) {
	return r.getOne(ctx, `SELECT id, title, slug, description, created_at FROM groups WHERE id = $1`, id)
}

func (r *postgresGroupRepo) GetBySlug(ctx context.Context, slug string) (*groups.Group, error) {
	return r.getOne(ctx, `SELECT id, title, slug, description, created_at FROM groups WHERE slug = $1`, slug)
}

func (r *postgresGroupRepo) getOne(ctx context.Context, query string, arg interface{}) (*groups.Group, error) {
	group := &groups.Group{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&group.ID, &group.Title, &group.Slug, &group.Description, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, groups.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

func (r *postgresGroupRepo) List(ctx context.Context) ([]*groups.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, slug, description, created_at FROM groups ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*groups.Group
	for rows.Next() {
		group := &groups.Group{}
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		result = append(result, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	return result, nil
}

// Delete detaches the group's posts and removes the group in one transaction.
// The FK's ON DELETE SET NULL would do the same; the explicit UPDATE reports
// how many posts were affected.
func (r *postgresGroupRepo) Delete(ctx context.Context, slug string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	var groupID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM groups WHERE slug = $1 FOR UPDATE`, slug).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, groups.ErrGroupNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock group: %w", err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE posts SET group_id = NULL WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to detach posts: %w", err)
	}
	detached, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count detached posts: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, groupID); err != nil {
		return 0, fmt.Errorf("failed to delete group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return detached, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"Yatube/internal/core/listing"
	"Yatube/internal/core/posts"
)

type postgresListingRepo struct {
	db *sql.DB
}

// NewListingRepository creates a new PostgreSQL listing repository
func NewListingRepository(db *sql.DB) listing.Repository {
	return &postgresListingRepo{db: db}
}

// buildFilter returns the WHERE clause for a listing filter and its arguments.
// Placeholders start at $1.
func buildFilter(filter listing.Filter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.GroupID != 0 {
		add("p.group_id = $%d", filter.GroupID)
	}
	if filter.AuthorID != 0 {
		add("p.author_id = $%d", filter.AuthorID)
	}
	if filter.FollowerID != 0 {
		add("p.author_id IN (SELECT f.author_id FROM follows f WHERE f.user_id = $%d)", filter.FollowerID)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *postgresListingRepo) CountPosts(ctx context.Context, filter listing.Filter) (int, error) {
	where, args := buildFilter(filter)
	query := `SELECT COUNT(*) FROM posts p` + where

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

func (r *postgresListingRepo) ListPosts(ctx context.Context, filter listing.Filter, limit, offset int) ([]*posts.PostView, error) {
	where, args := buildFilter(filter)
	args = append(args, limit, offset)
	query := `SELECT` + postViewColumns + postViewFrom + where +
		fmt.Sprintf(` ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*posts.PostView{}
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return result, nil
}

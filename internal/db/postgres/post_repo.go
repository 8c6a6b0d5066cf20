package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
)

// Foreign keys whose violation maps to a domain not-found error
const (
	fkPostsGroup    = "posts_group_id_fkey"
	fkCommentsPost  = "comments_post_id_fkey"
	fkFollowsAuthor = "follows_author_id_fkey"
)

// postViewColumns selects a post hydrated with author, group and comment count.
// Use with postViewFrom and scanPostView.
const postViewColumns = `
		p.id, p.text, p.created_at, p.image,
		u.id, u.username,
		g.id, g.slug, g.title,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)`

const postViewFrom = `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPostView(row rowScanner) (*posts.PostView, error) {
	var (
		view       posts.PostView
		author     posts.AuthorView
		image      sql.NullString
		groupID    sql.NullInt64
		groupSlug  sql.NullString
		groupTitle sql.NullString
	)
	err := row.Scan(
		&view.ID, &view.Text, &view.CreatedAt, &image,
		&author.ID, &author.Username,
		&groupID, &groupSlug, &groupTitle,
		&view.CommentCount,
	)
	if err != nil {
		return nil, err
	}

	view.Author = &author
	if image.Valid && image.String != "" {
		view.Image = &image.String
	}
	if groupID.Valid {
		view.Group = &posts.GroupRef{ID: groupID.Int64, Slug: groupSlug.String, Title: groupTitle.String}
	}
	return &view, nil
}

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a new post into the posts table
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (text, author_id, group_id, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		post.Text,
		post.AuthorID,
		nullInt64(post.GroupID),
		nullStringPtr(post.Image),
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		if constraint, ok := foreignKeyViolation(err); ok && constraint == fkPostsGroup {
			return groups.ErrGroupNotFound
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID retrieves the stored row of a post
func (r *postgresPostRepo) GetByID(ctx context.Context, id int64) (*posts.Post, error) {
	query := `SELECT id, text, created_at, author_id, group_id, image FROM posts WHERE id = $1`

	var (
		post    posts.Post
		groupID sql.NullInt64
		image   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&post.ID, &post.Text, &post.CreatedAt, &post.AuthorID, &groupID, &image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if groupID.Valid {
		post.GroupID = &groupID.Int64
	}
	if image.Valid && image.String != "" {
		post.Image = &image.String
	}
	return &post, nil
}

// GetView retrieves a post hydrated for display
func (r *postgresPostRepo) GetView(ctx context.Context, id int64) (*posts.PostView, error) {
	query := `SELECT` + postViewColumns + postViewFrom + ` WHERE p.id = $1`

	view, err := scanPostView(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post view: %w", err)
	}
	return view, nil
}

// Update rewrites text, group and image. The author_id predicate keeps the
// authorship check and the write in one statement.
func (r *postgresPostRepo) Update(ctx context.Context, post *posts.Post) error {
	query := `
		UPDATE posts
		SET text = $1, group_id = $2, image = $3
		WHERE id = $4 AND author_id = $5`

	res, err := r.db.ExecContext(ctx, query,
		post.Text,
		nullInt64(post.GroupID),
		nullStringPtr(post.Image),
		post.ID,
		post.AuthorID,
	)
	if err != nil {
		if constraint, ok := foreignKeyViolation(err); ok && constraint == fkPostsGroup {
			return groups.ErrGroupNotFound
		}
		return fmt.Errorf("failed to update post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return posts.ErrNotFound
	}
	return nil
}

// CreateComment inserts a comment; a vanished post yields posts.ErrNotFound
func (r *postgresPostRepo) CreateComment(ctx context.Context, comment *posts.Comment) error {
	query := `
		INSERT INTO comments (post_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, comment.PostID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		if constraint, ok := foreignKeyViolation(err); ok && constraint == fkCommentsPost {
			return posts.ErrNotFound
		}
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// ListComments returns a post's comments, oldest first
func (r *postgresPostRepo) ListComments(ctx context.Context, postID int64) ([]*posts.CommentView, error) {
	query := `
		SELECT c.id, c.text, c.created_at, u.id, u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*posts.CommentView{}
	for rows.Next() {
		var (
			comment posts.CommentView
			author  posts.AuthorView
		)
		if err := rows.Scan(&comment.ID, &comment.Text, &comment.CreatedAt, &author.ID, &author.Username); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comment.Author = &author
		result = append(result, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullStringPtr(v *string) sql.NullString {
	if v == nil || *v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

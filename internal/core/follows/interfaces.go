package follows

import (
	"context"

	"Yatube/internal/core/users"
)

// Repository defines data access for follow edges.
// Each method is a single statement, so it is atomic on its own.
type Repository interface {
	// Create inserts the edge unless it already exists (ON CONFLICT DO NOTHING).
	// Reports whether a row was inserted.
	Create(ctx context.Context, userID, authorID int64) (bool, error)
	// Delete removes the edge if present. Reports whether a row was removed.
	Delete(ctx context.Context, userID, authorID int64) (bool, error)
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
}

// UserLookup resolves author handles
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*users.User, error)
}

// Service manages the follower/author relation
type Service interface {
	// Follow creates the edge from followerID to the named author.
	// Following yourself is silently ignored.
	Follow(ctx context.Context, followerID int64, authorUsername string) error
	// Unfollow removes the edge; removing a missing edge is not an error.
	Unfollow(ctx context.Context, followerID int64, authorUsername string) error
	// IsFollowing reports whether followerID follows authorID.
	// A non-positive followerID (anonymous viewer) always yields false.
	IsFollowing(ctx context.Context, followerID, authorID int64) (bool, error)
}

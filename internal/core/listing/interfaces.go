package listing

import (
	"context"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/pagination"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
)

// Filter narrows a post listing. Zero fields are ignored; at most one is
// set by the service.
type Filter struct {
	GroupID    int64
	AuthorID   int64
	FollowerID int64 // posts by authors this user follows
}

// Repository defines read access for post listings.
// ListPosts orders by created_at DESC, id DESC and pushes limit/offset down.
type Repository interface {
	CountPosts(ctx context.Context, filter Filter) (int, error)
	ListPosts(ctx context.Context, filter Filter, limit, offset int) ([]*posts.PostView, error)
}

// GroupLookup resolves group slugs
type GroupLookup interface {
	GetBySlug(ctx context.Context, slug string) (*groups.Group, error)
}

// UserLookup resolves author handles
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*users.User, error)
}

// FollowChecker reports follow status for profile pages
type FollowChecker interface {
	IsFollowing(ctx context.Context, followerID, authorID int64) (bool, error)
}

// PostPage is one page of a listing, newest first
type PostPage = pagination.Page[*posts.PostView]

// GroupListing is a group page
type GroupListing struct {
	Group *groups.Group
	Page  *PostPage
}

// AuthorListing is a profile page
type AuthorListing struct {
	Author    *users.User
	Page      *PostPage
	PostCount int
	Following bool
}

// Service produces paginated post listings
type Service interface {
	ListAll(ctx context.Context, page int) (*PostPage, error)
	// ListByGroup returns groups.ErrGroupNotFound for an unknown slug.
	ListByGroup(ctx context.Context, slug string, page int) (*GroupListing, error)
	// ListByAuthor returns users.ErrUserNotFound for an unknown username.
	// viewerID is 0 for anonymous viewers.
	ListByAuthor(ctx context.Context, username string, viewerID int64, page int) (*AuthorListing, error)
	// ListFollowedFeed returns an empty page when the viewer follows no one.
	ListFollowedFeed(ctx context.Context, viewerID int64, page int) (*PostPage, error)
}

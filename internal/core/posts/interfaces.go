package posts

import (
	"context"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/uploads"
)

// Service defines the business logic interface for posts and comments
type Service interface {
	// CreatePost validates and stores a new post owned by req.AuthorID
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// EditPost updates text, group and image of a post. Only the author may
	// edit; author and creation time never change.
	EditPost(ctx context.Context, req EditPostRequest) (*Post, error)

	// GetPostForEdit loads a post for the edit form, enforcing authorship
	GetPostForEdit(ctx context.Context, requesterID, postID int64) (*Post, error)

	// GetPost returns the post with its comments, oldest comment first
	GetPost(ctx context.Context, postID int64) (*PostDetail, error)

	// AddComment attaches a new comment to an existing post
	AddComment(ctx context.Context, req AddCommentRequest) (*Comment, error)
}

// Repository defines the data access interface for posts and comments.
// Every method runs as a single statement or transaction.
type Repository interface {
	// Create inserts the post and sets ID and CreatedAt.
	// Returns groups.ErrGroupNotFound when GroupID references no group.
	Create(ctx context.Context, post *Post) error

	GetByID(ctx context.Context, id int64) (*Post, error)
	GetView(ctx context.Context, id int64) (*PostView, error)

	// Update writes text, group and image of post.ID, matching on
	// post.AuthorID as well. Returns ErrNotFound if no row matched and
	// groups.ErrGroupNotFound for a dangling group reference.
	Update(ctx context.Context, post *Post) error

	// CreateComment inserts the comment and sets ID and CreatedAt.
	// Returns ErrNotFound when the post no longer exists.
	CreateComment(ctx context.Context, comment *Comment) error

	ListComments(ctx context.Context, postID int64) ([]*CommentView, error)
}

// GroupLookup resolves group references on posts
type GroupLookup interface {
	GetByID(ctx context.Context, id int64) (*groups.Group, error)
}

// ImageStore persists uploaded post images
type ImageStore interface {
	Save(ctx context.Context, img *uploads.Image) (string, error)
	Remove(ctx context.Context, ref string) error
}

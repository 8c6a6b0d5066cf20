package posts

import (
	"time"

	"Yatube/internal/core/uploads"
)

// Post is a unit of content as stored in the posts table.
// AuthorID and CreatedAt never change after creation.
type Post struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	GroupID   *int64    `json:"groupId,omitempty" db:"group_id"`
	Image     *string   `json:"image,omitempty" db:"image"`
	Text      string    `json:"text" db:"text"`
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
}

// Comment is attached to exactly one post and written by exactly one user.
type Comment struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Text      string    `json:"text" db:"text"`
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
}

// PostView is a post hydrated with author and group for listings
type PostView struct {
	CreatedAt    time.Time   `json:"createdAt"`
	Image        *string     `json:"image,omitempty"`
	Group        *GroupRef   `json:"group,omitempty"`
	Author       *AuthorView `json:"author"`
	Text         string      `json:"text"`
	ID           int64       `json:"id"`
	CommentCount int         `json:"commentCount"`
}

// ImageURL returns the public URL of the post image, or "".
func (p *PostView) ImageURL() string {
	if p.Image == nil {
		return ""
	}
	return uploads.URL(*p.Image)
}

// AuthorView represents author information in post and comment views
type AuthorView struct {
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// GroupRef represents minimal group info in post views
type GroupRef struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	ID    int64  `json:"id"`
}

// CommentView is a comment with its author, as shown under a post
type CommentView struct {
	CreatedAt time.Time   `json:"createdAt"`
	Author    *AuthorView `json:"author"`
	Text      string      `json:"text"`
	ID        int64       `json:"id"`
}

// PostDetail is everything the post page shows
type PostDetail struct {
	Post     *PostView      `json:"post"`
	Comments []*CommentView `json:"comments"`
}

// CreatePostRequest is the validated input of the create form
type CreatePostRequest struct {
	GroupID  *int64
	Image    *uploads.Image
	Text     string
	AuthorID int64
}

// EditPostRequest is the input of the edit form. A nil Image keeps the
// current image unless ClearImage is set.
type EditPostRequest struct {
	GroupID     *int64
	Image       *uploads.Image
	Text        string
	PostID      int64
	RequesterID int64
	ClearImage  bool
}

// AddCommentRequest is the input of the comment form
type AddCommentRequest struct {
	Text     string
	PostID   int64
	AuthorID int64
}

package groups

import "time"

// Group is a topical category a post may optionally belong to.
type Group struct {
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ID          int64     `json:"id" db:"id"`
}

// CreateGroupRequest is the administrative input for a new group
type CreateGroupRequest struct {
	Slug        string
	Title       string
	Description string
}

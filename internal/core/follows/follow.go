package follows

import "time"

// Follow is a directed edge: UserID receives AuthorID's posts in their feed
type Follow struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	AuthorID  int64     `json:"authorId"`
}

package groups

import "context"

// Repository defines data access for groups
type Repository interface {
	// Create inserts the group; returns ErrSlugTaken on a duplicate slug.
	Create(ctx context.Context, group *Group) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	GetBySlug(ctx context.Context, slug string) (*Group, error)
	List(ctx context.Context) ([]*Group, error)
	// Delete removes the group and, in the same transaction, clears the
	// group reference of every post that pointed at it. It returns the
	// number of detached posts.
	Delete(ctx context.Context, slug string) (int64, error)
}

// Service defines group business logic
type Service interface {
	CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	GetBySlug(ctx context.Context, slug string) (*Group, error)
	ListGroups(ctx context.Context) ([]*Group, error)
	DeleteGroup(ctx context.Context, slug string) (int64, error)
}

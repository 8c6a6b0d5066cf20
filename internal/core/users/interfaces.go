package users

import "context"

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	// Create inserts the user and fills in ID and CreatedAt.
	// Returns ErrUsernameTaken when the username is already registered.
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// UserService defines the interface for user business logic
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	// Authenticate returns the user for a username/password pair, or
	// ErrInvalidCredentials. Unknown usernames and wrong passwords are
	// indistinguishable to the caller.
	Authenticate(ctx context.Context, username, password string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

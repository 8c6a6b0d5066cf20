package users

import (
	"time"
)

// User is a registered account. Posts, comments and follow edges reference
// it by ID; everything else treats it as an opaque identity with a unique
// username.
type User struct {
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	ID           int64     `json:"id" db:"id"`
}

// RegisterRequest is the input of the sign-up form.
type RegisterRequest struct {
	Username        string
	Password        string
	PasswordConfirm string
}

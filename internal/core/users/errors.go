package users

import (
	"errors"
	"fmt"
)

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when registering a username that already exists
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned when a username/password pair does not match
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError represents a sign-up form error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsNotFound checks if error is a user not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

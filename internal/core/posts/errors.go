package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post does not exist
	ErrNotFound = errors.New("post not found")

	// ErrPermissionDenied is returned when someone other than the author edits a post
	ErrPermissionDenied = errors.New("only the author may edit this post")
)

// ValidationError represents a validation error with field context
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

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string // e.g., "post", "group"
	ID       string // Resource identifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrNotFound)
}

// IsPermissionDenied checks if error is an authorship violation
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

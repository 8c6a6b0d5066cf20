package follows

import (
	"errors"

	"Yatube/internal/core/users"
)

// ErrAuthorNotFound is returned when the author being (un)followed does not exist
var ErrAuthorNotFound = errors.New("author not found")

// IsNotFound checks if error is an unknown-author error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAuthorNotFound) || users.IsNotFound(err)
}

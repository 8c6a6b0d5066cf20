package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLength = 150
	minPasswordLength = 8
	// bcrypt ignores input beyond 72 bytes
	maxPasswordLength = 72
)

// Letters, digits and @/./+/-/_ only.
var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

type userService struct {
	userRepo UserRepository
	cost     int
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
		cost:     bcrypt.DefaultCost,
	}
}

// Register validates the sign-up input, hashes the password and stores the user
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, &User{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, NewValidationError("username", "a user with that username already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate checks a username/password pair
func (s *userService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByUsername retrieves a user by username
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByUsername(ctx, username)
}

func validateUsername(username string) error {
	if username == "" {
		return NewValidationError("username", "username is required")
	}
	if len(username) > maxUsernameLength {
		return NewValidationError("username",
			fmt.Sprintf("username must be at most %d characters", maxUsernameLength))
	}
	if !usernameRegex.MatchString(username) {
		return NewValidationError("username",
			"username may contain only letters, digits and @/./+/-/_ characters")
	}
	return nil
}

func validatePassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return NewValidationError("password",
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return NewValidationError("password",
			fmt.Sprintf("password must be at most %d bytes", maxPasswordLength))
	}
	if password != confirm {
		return NewValidationError("passwordConfirm", "the two password fields didn't match")
	}
	return nil
}

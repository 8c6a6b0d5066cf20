package follows

import (
	"context"
	"fmt"
	"log/slog"

	"Yatube/internal/core/users"
)

type followService struct {
	repo   Repository
	users  UserLookup
	logger *slog.Logger
}

// NewFollowService creates a new follow service
func NewFollowService(repo Repository, userLookup UserLookup, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &followService{
		repo:   repo,
		users:  userLookup,
		logger: logger,
	}
}

func (s *followService) Follow(ctx context.Context, followerID int64, authorUsername string) error {
	author, err := s.resolveAuthor(ctx, authorUsername)
	if err != nil {
		return err
	}
	if followerID == author.ID {
		return nil
	}

	created, err := s.repo.Create(ctx, followerID, author.ID)
	if err != nil {
		return fmt.Errorf("failed to follow %s: %w", author.Username, err)
	}
	if created {
		s.logger.Info("follow created", "user_id", followerID, "author_id", author.ID)
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID int64, authorUsername string) error {
	author, err := s.resolveAuthor(ctx, authorUsername)
	if err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, followerID, author.ID)
	if err != nil {
		return fmt.Errorf("failed to unfollow %s: %w", author.Username, err)
	}
	if removed {
		s.logger.Info("follow removed", "user_id", followerID, "author_id", author.ID)
	}
	return nil
}

func (s *followService) IsFollowing(ctx context.Context, followerID, authorID int64) (bool, error) {
	if followerID <= 0 || followerID == authorID {
		return false, nil
	}
	following, err := s.repo.Exists(ctx, followerID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return following, nil
}

func (s *followService) resolveAuthor(ctx context.Context, username string) (*users.User, error) {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if users.IsNotFound(err) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}
	return author, nil
}

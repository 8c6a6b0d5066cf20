package groups

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

const (
	maxSlugLength  = 50
	maxTitleLength = 200
)

var slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type groupService struct {
	repo   Repository
	logger *slog.Logger
}

// NewGroupService creates a new group service
func NewGroupService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &groupService{repo: repo, logger: logger}
}

// CreateGroup validates and stores a new group
func (s *groupService) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	group := &Group{
		Slug:        strings.TrimSpace(req.Slug),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	}

	if group.Slug == "" {
		return nil, NewValidationError("slug", "slug is required")
	}
	if len(group.Slug) > maxSlugLength {
		return nil, NewValidationError("slug", fmt.Sprintf("slug must be at most %d characters", maxSlugLength))
	}
	if !slugRegex.MatchString(group.Slug) {
		return nil, NewValidationError("slug", "slug may contain only letters, digits, hyphens and underscores")
	}
	if group.Title == "" {
		return nil, NewValidationError("title", "title is required")
	}
	if len(group.Title) > maxTitleLength {
		return nil, NewValidationError("title", fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}

	created, err := s.repo.Create(ctx, group)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			return nil, NewValidationError("slug", "a group with this slug already exists")
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("group created", "slug", created.Slug, "id", created.ID)
	return created, nil
}

// GetByID retrieves a group by ID
func (s *groupService) GetByID(ctx context.Context, id int64) (*Group, error) {
	if id <= 0 {
		return nil, ErrGroupNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetBySlug retrieves a group by slug
func (s *groupService) GetBySlug(ctx context.Context, slug string) (*Group, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrGroupNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

// ListGroups returns every group ordered by title
func (s *groupService) ListGroups(ctx context.Context) ([]*Group, error) {
	return s.repo.List(ctx)
}

// DeleteGroup removes a group; its posts survive with no group
func (s *groupService) DeleteGroup(ctx context.Context, slug string) (int64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return 0, ErrGroupNotFound
	}

	detached, err := s.repo.Delete(ctx, slug)
	if err != nil {
		return 0, err
	}

	s.logger.Info("group deleted", "slug", slug, "detached_posts", detached)
	return detached, nil
}

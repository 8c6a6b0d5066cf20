package listing

import (
	"context"
	"fmt"

	"Yatube/internal/core/pagination"
	"Yatube/internal/core/posts"
)

type listingService struct {
	repo     Repository
	groups   GroupLookup
	users    UserLookup
	follows  FollowChecker
	pageSize int
}

// NewListingService creates a new listing service with the default page size
func NewListingService(repo Repository, groupLookup GroupLookup, userLookup UserLookup, follows FollowChecker) Service {
	return &listingService{
		repo:     repo,
		groups:   groupLookup,
		users:    userLookup,
		follows:  follows,
		pageSize: pagination.DefaultPageSize,
	}
}

func (s *listingService) ListAll(ctx context.Context, page int) (*PostPage, error) {
	return s.paginate(ctx, Filter{}, page)
}

func (s *listingService) ListByGroup(ctx context.Context, slug string, page int) (*GroupListing, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	p, err := s.paginate(ctx, Filter{GroupID: group.ID}, page)
	if err != nil {
		return nil, err
	}
	return &GroupListing{Group: group, Page: p}, nil
}

func (s *listingService) ListByAuthor(ctx context.Context, username string, viewerID int64, page int) (*AuthorListing, error) {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	p, err := s.paginate(ctx, Filter{AuthorID: author.ID}, page)
	if err != nil {
		return nil, err
	}

	following, err := s.follows.IsFollowing(ctx, viewerID, author.ID)
	if err != nil {
		return nil, err
	}

	return &AuthorListing{
		Author:    author,
		Page:      p,
		PostCount: p.TotalCount,
		Following: following,
	}, nil
}

func (s *listingService) ListFollowedFeed(ctx context.Context, viewerID int64, page int) (*PostPage, error) {
	if viewerID <= 0 {
		return pagination.FromSlice([]*posts.PostView{}, page, s.pageSize), nil
	}
	return s.paginate(ctx, Filter{FollowerID: viewerID}, page)
}

func (s *listingService) paginate(ctx context.Context, filter Filter, page int) (*PostPage, error) {
	p, err := pagination.Paginate(ctx, page, s.pageSize,
		func(ctx context.Context) (int, error) {
			return s.repo.CountPosts(ctx, filter)
		},
		func(ctx context.Context, limit, offset int) ([]*posts.PostView, error) {
			return s.repo.ListPosts(ctx, filter, limit, offset)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return p, nil
}

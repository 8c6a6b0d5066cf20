package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/uploads"
)

// maxTextLength bounds post and comment bodies
const maxTextLength = 100000

type postService struct {
	repo   Repository
	groups GroupLookup
	images ImageStore
	logger *slog.Logger
}

// NewPostService creates a new post service
func NewPostService(repo Repository, groupLookup GroupLookup, images ImageStore, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:   repo,
		groups: groupLookup,
		images: images,
		logger: logger,
	}
}

// CreatePost creates a new post
// Flow:
// 1. Validate text and group reference
// 2. Store the image, if any
// 3. Insert the post (single statement)
// 4. Remove the stored image again if the insert failed
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	text, err := validateText(req.Text)
	if err != nil {
		return nil, err
	}
	if err := s.validateGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}

	post := &Post{
		AuthorID: req.AuthorID,
		Text:     text,
		GroupID:  req.GroupID,
	}

	stored, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		post.Image = &stored
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.discardImage(ctx, stored)
		if groups.IsNotFound(err) {
			return nil, NewValidationError("group", "select a valid group")
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("post created", "post_id", post.ID, "author_id", post.AuthorID, "has_image", stored != "")
	return post, nil
}

// EditPost updates a post in place
func (s *postService) EditPost(ctx context.Context, req EditPostRequest) (*Post, error) {
	post, err := s.GetPostForEdit(ctx, req.RequesterID, req.PostID)
	if err != nil {
		return nil, err
	}

	text, err := validateText(req.Text)
	if err != nil {
		return nil, err
	}
	if err := s.validateGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}

	stored, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	var replaced string
	updated := *post
	updated.Text = text
	updated.GroupID = req.GroupID
	switch {
	case stored != "":
		updated.Image = &stored
	case req.ClearImage:
		updated.Image = nil
	}
	if post.Image != nil && (updated.Image == nil || *updated.Image != *post.Image) {
		replaced = *post.Image
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		s.discardImage(ctx, stored)
		if groups.IsNotFound(err) {
			return nil, NewValidationError("group", "select a valid group")
		}
		if errors.Is(err, ErrNotFound) {
			return nil, NewNotFoundError("post", strconv.FormatInt(req.PostID, 10))
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.discardImage(ctx, replaced)
	s.logger.Info("post edited", "post_id", updated.ID, "author_id", updated.AuthorID)
	return &updated, nil
}

// GetPostForEdit loads a post and checks that requesterID wrote it
func (s *postService) GetPostForEdit(ctx context.Context, requesterID, postID int64) (*Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NewNotFoundError("post", strconv.FormatInt(postID, 10))
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if requesterID <= 0 || post.AuthorID != requesterID {
		s.logger.Debug("edit rejected for non-author", "post_id", postID, "requester_id", requesterID)
		return nil, ErrPermissionDenied
	}
	return post, nil
}

// GetPost returns a post with its comments
func (s *postService) GetPost(ctx context.Context, postID int64) (*PostDetail, error) {
	view, err := s.repo.GetView(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NewNotFoundError("post", strconv.FormatInt(postID, 10))
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	return &PostDetail{Post: view, Comments: comments}, nil
}

// AddComment attaches a comment to a post
func (s *postService) AddComment(ctx context.Context, req AddCommentRequest) (*Comment, error) {
	notFound := NewNotFoundError("post", strconv.FormatInt(req.PostID, 10))

	if _, err := s.repo.GetByID(ctx, req.PostID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	text, err := validateText(req.Text)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		PostID:   req.PostID,
		AuthorID: req.AuthorID,
		Text:     text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.logger.Info("comment added", "comment_id", comment.ID, "post_id", comment.PostID, "author_id", comment.AuthorID)
	return comment, nil
}

// validateText trims and checks a post or comment body
func validateText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", NewValidationError("text", "text must not be empty")
	}
	if len(text) > maxTextLength {
		return "", NewValidationError("text", fmt.Sprintf("text too long (max %d characters)", maxTextLength))
	}
	return text, nil
}

// validateGroup checks that an optional group reference exists
func (s *postService) validateGroup(ctx context.Context, groupID *int64) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groups.GetByID(ctx, *groupID); err != nil {
		if groups.IsNotFound(err) {
			return NewValidationError("group", "select a valid group")
		}
		return fmt.Errorf("failed to resolve group: %w", err)
	}
	return nil
}

// storeImage saves an optional upload and returns its reference
func (s *postService) storeImage(ctx context.Context, img *uploads.Image) (string, error) {
	if img == nil {
		return "", nil
	}
	if s.images == nil {
		return "", NewValidationError("image", "image uploads are disabled")
	}

	ref, err := s.images.Save(ctx, img)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrUnsupportedType):
			return "", NewValidationError("image", "upload a valid image (gif, jpeg, png or webp)")
		case errors.Is(err, uploads.ErrTooLarge):
			return "", NewValidationError("image", "image is too large")
		default:
			return "", fmt.Errorf("failed to store image: %w", err)
		}
	}
	return ref, nil
}

// discardImage removes a stored image, logging failures
func (s *postService) discardImage(ctx context.Context, ref string) {
	if ref == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(ctx, ref); err != nil {
		s.logger.Warn("failed to remove image", "ref", ref, "error", err)
	}
}

package services

import (
	"context"
	"fmt"

	"quill/app/models"
	"quill/app/repositories"
	"quill/app/schema"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	opts        options
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, opts ...Option) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		opts:        buildOptions(opts),
	}
}

// CreateComment validates the comment and stores it under its post, which
// must exist.
func (s *CommentService) CreateComment(ctx context.Context, comment *models.Comment) error {
	if errs := comment.Validate(); !errs.Empty() {
		return s.opts.reject(schema.CommentEntity, errs)
	}

	if _, err := s.postRepo.GetByID(ctx, comment.PostID); err != nil {
		return fmt.Errorf("post %d: %w", comment.PostID, err)
	}

	comment.ID = 0
	comment.BeforeCreate()
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	s.opts.logger.Infow("comment created", "id", comment.ID, "post_id", comment.PostID)
	return nil
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// ListPostComments retrieves all comments for a post
func (s *CommentService) ListPostComments(ctx context.Context, postID int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}

	return s.commentRepo.ListByPost(ctx, postID)
}

// UpdateComment applies params to the stored comment. The post reference
// and creation time are kept.
func (s *CommentService) UpdateComment(ctx context.Context, id int, params models.CommentParams) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.Apply(params)
	if errs := comment.Validate(); !errs.Empty() {
		return nil, s.opts.reject(schema.CommentEntity, errs)
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment %d: %w", id, err)
	}
	return comment, nil
}

// DeleteComment deletes a comment
func (s *CommentService) DeleteComment(ctx context.Context, id int) error {
	return s.commentRepo.Delete(ctx, id)
}

package services

import (
	"context"
	"fmt"

	"quill/app/models"
	"quill/app/repositories"
	"quill/app/schema"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	opts        options
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, opts ...Option) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		opts:        buildOptions(opts),
	}
}

// CreatePost validates and persists a new post. A rejected post is
// reported as *models.ValidationError and nothing is written.
func (s *PostService) CreatePost(ctx context.Context, post *models.Post) error {
	if errs := post.Validate(); !errs.Empty() {
		return s.opts.reject(schema.PostEntity, errs)
	}

	post.ID = 0
	post.BeforeCreate()
	if err := s.postRepo.Create(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	post.Comments = []*models.Comment{}

	s.opts.logger.Infow("post created", "id", post.ID)
	return nil
}

// GetPost retrieves a post by ID with its comments
func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadComments(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) loadComments(ctx context.Context, post *models.Post) error {
	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("failed to get comments for post %d: %w", post.ID, err)
	}

	post.Comments = make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if err := post.AddComment(c); err != nil {
			return err
		}
	}
	return nil
}

// Comments returns the comments of the post with the given id, oldest first.
func (s *PostService) Comments(ctx context.Context, postID int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// ListPosts retrieves a paginated list of posts
func (s *PostService) ListPosts(ctx context.Context, page, perPage int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.opts.defaultPageSize
	}
	if perPage > s.opts.maxPageSize {
		perPage = s.opts.maxPageSize
	}

	offset := (page - 1) * perPage
	posts, err := s.postRepo.List(ctx, perPage, offset)
	if err != nil {
		return nil, err
	}

	for _, post := range posts {
		if err := s.loadComments(ctx, post); err != nil {
			return nil, err
		}
	}

	return posts, nil
}

// UpdatePost applies params to the stored post and saves it after
// validating again. CreatedAt is preserved.
func (s *PostService) UpdatePost(ctx context.Context, id int, params models.PostParams) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Apply(params)
	if errs := post.Validate(); !errs.Empty() {
		return nil, s.opts.reject(schema.PostEntity, errs)
	}

	post.BeforeUpdate()
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", id, err)
	}
	if err := s.loadComments(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost deletes a post. What happens to its comments is decided by
// the dependent policy of the post's comments association.
func (s *PostService) DeletePost(ctx context.Context, id int) error {
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		return err
	}

	for _, assoc := range s.opts.registry.HasMany(schema.PostEntity) {
		if assoc.Target != schema.CommentEntity {
			continue
		}
		if err := s.applyDependent(ctx, id, assoc.Dependent); err != nil {
			return err
		}
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	s.opts.logger.Infow("post deleted", "id", id)
	return nil
}

func (s *PostService) applyDependent(ctx context.Context, postID int, dep schema.Dependent) error {
	switch dep {
	case schema.DependentDestroy:
		n, err := s.commentRepo.DeleteByPost(ctx, postID)
		if err != nil {
			return fmt.Errorf("failed to delete comments of post %d: %w", postID, err)
		}
		s.opts.logger.Debugw("comments destroyed", "post_id", postID, "count", n)
	case schema.DependentNullify:
		n, err := s.commentRepo.DetachFromPost(ctx, postID)
		if err != nil {
			return fmt.Errorf("failed to detach comments of post %d: %w", postID, err)
		}
		s.opts.logger.Debugw("comments detached", "post_id", postID, "count", n)
	default:
		n, err := s.commentRepo.CountByPost(ctx, postID)
		if err != nil {
			return fmt.Errorf("failed to count comments of post %d: %w", postID, err)
		}
		if n > 0 {
			return fmt.Errorf("%w: post %d has %d", ErrDependentRecords, postID, n)
		}
	}
	return nil
}

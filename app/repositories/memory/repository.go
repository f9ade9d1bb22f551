// Package memory provides map backed repositories for tests and
// throwaway runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"quill/app/models"
	"quill/app/repositories"
)

type PostRepository struct {
	posts  map[int]*models.Post
	nextID int
	mutex  sync.RWMutex
}

type CommentRepository struct {
	comments map[int]*models.Comment
	nextID   int
	mutex    sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int]*models.Post),
		nextID: 1,
	}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[int]*models.Comment),
		nextID:   1,
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[int]*models.Post)
	m.nextID = 1
}

// copyPost detaches the stored value from the caller's pointer.
func copyPost(p *models.Post) *models.Post {
	cp := *p
	cp.Comments = nil
	return &cp
}

func copyComment(c *models.Comment) *models.Comment {
	cp := *c
	cp.Post = nil
	return &cp
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return copyPost(post), nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	count := 0
	for id := 1; id < m.nextID; id++ {
		post, exists := m.posts[id]
		if !exists {
			continue
		}
		if count >= offset && (limit <= 0 || len(posts) < limit) {
			posts = append(posts, copyPost(post))
		}
		count++
	}
	return posts, nil
}

// CommentRepository implementation
func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = m.nextID
	m.nextID++
	m.comments[comment.ID] = copyComment(comment)
	return nil
}

func (m *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return copyComment(comment), nil
}

func (m *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[comment.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.comments[comment.ID] = copyComment(comment)
	return nil
}

func (m *CommentRepository) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

// byPost returns the ids of postID's comments in ascending order. The
// caller must hold the mutex.
func (m *CommentRepository) byPost(postID int) []int {
	var ids []int
	for id, comment := range m.comments {
		if comment.PostID == postID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, id := range m.byPost(postID) {
		comments = append(comments, copyComment(m.comments[id]))
	}
	return comments, nil
}

func (m *CommentRepository) CountByPost(ctx context.Context, postID int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.byPost(postID)), nil
}

func (m *CommentRepository) DeleteByPost(ctx context.Context, postID int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	ids := m.byPost(postID)
	for _, id := range ids {
		delete(m.comments, id)
	}
	return len(ids), nil
}

func (m *CommentRepository) DetachFromPost(ctx context.Context, postID int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	ids := m.byPost(postID)
	for _, id := range ids {
		m.comments[id].PostID = 0
	}
	return len(ids), nil
}

var (
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
)

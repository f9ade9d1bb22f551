package services

import (
	"context"
	"sync"
	"testing"

	"quill/app/models"
	"quill/app/repositories/memory"
	"quill/app/schema"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	failures map[string]int
}

func (r *recorder) RecordValidationFailure(entity, field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures == nil {
		r.failures = make(map[string]int)
	}
	r.failures[entity+"."+field]++
}

type fixture struct {
	posts    *memory.PostRepository
	comments *memory.CommentRepository
	postSvc  *PostService
	cmtSvc   *CommentService
	rec      *recorder
}

func newFixture(t *testing.T, dep schema.Dependent) *fixture {
	t.Helper()
	f := &fixture{
		posts:    memory.NewPostRepository(),
		comments: memory.NewCommentRepository(),
		rec:      &recorder{},
	}
	opts := []Option{WithRegistry(schema.Default(dep)), WithFailureRecorder(f.rec), WithPageSize(10, 50)}
	f.postSvc = NewPostService(f.posts, f.comments, opts...)
	f.cmtSvc = NewCommentService(f.comments, f.posts, opts...)
	return f
}

func (f *fixture) createPost(t *testing.T, title string) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Body: "body of " + title}
	require.NoError(t, f.postSvc.CreatePost(context.Background(), p))
	return p
}

func (f *fixture) createComment(t *testing.T, postID int, body string) *models.Comment {
	t.Helper()
	c := &models.Comment{PostID: postID, Author: "Ann", Body: body}
	require.NoError(t, f.cmtSvc.CreateComment(context.Background(), c))
	return c
}

package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name:    "valid post",
			post:    &Post{Title: "Hello World"},
			wantErr: false,
		},
		{
			name:    "single character title",
			post:    &Post{Title: "a"},
			wantErr: false,
		},
		{
			name:    "very long title",
			post:    &Post{Title: strings.Repeat("t", 5000)},
			wantErr: false,
		},
		{
			name:    "empty title",
			post:    &Post{Title: ""},
			wantErr: true,
		},
		{
			name:    "whitespace title",
			post:    &Post{Title: "  \t\n"},
			wantErr: true,
		},
		{
			name:    "empty title with body",
			post:    &Post{Title: "", Body: "body without a title"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.post.Validate()
			if tt.wantErr {
				assert.False(t, errs.Empty())
				assert.Equal(t, []string{"can't be blank"}, errs.On("title"))
				assert.False(t, tt.post.Valid())
			} else {
				assert.True(t, errs.Empty())
				assert.True(t, tt.post.Valid())
			}
		})
	}
}

func TestNewPost(t *testing.T) {
	t.Run("title present", func(t *testing.T) {
		post, err := NewPost(PostParams{Title: strPtr("Hello World")})
		require.NoError(t, err)
		assert.Equal(t, "Hello World", post.Title)
		assert.Zero(t, post.ID)
		assert.Empty(t, post.Comments)
	})

	t.Run("title empty", func(t *testing.T) {
		post, err := NewPost(PostParams{Title: strPtr("")})
		assert.Nil(t, post)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "post", verr.Entity)
		assert.Equal(t, Errors{"title": {"can't be blank"}}, verr.Errors)
		assert.Equal(t, []string{"Title can't be blank"}, verr.Errors.FullMessages())
	})

	t.Run("title missing", func(t *testing.T) {
		_, err := NewPost(PostParams{Body: strPtr("text")})

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, Errors{"title": {"can't be blank"}}, verr.Errors)
		assert.EqualError(t, err, "invalid post: Title can't be blank")
	})
}

func TestPostApply(t *testing.T) {
	post := &Post{Title: "Old", Body: "Old body"}

	post.Apply(PostParams{Title: strPtr("New")})
	assert.Equal(t, "New", post.Title)
	assert.Equal(t, "Old body", post.Body)

	post.Apply(PostParams{Body: strPtr("New body")})
	assert.Equal(t, "New", post.Title)
	assert.Equal(t, "New body", post.Body)
	assert.True(t, post.Valid())

	post.Apply(PostParams{Title: strPtr("  ")})
	assert.False(t, post.Valid())
}

func TestPostBeforeCreate(t *testing.T) {
	post := &Post{
		ID:    1,
		Title: "Test Post",
		Body:  "Test Content",
	}

	assert.True(t, post.CreatedAt.IsZero())
	post.BeforeCreate()
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)

	created := post.CreatedAt
	post.BeforeUpdate()
	assert.Equal(t, created, post.CreatedAt)
	assert.False(t, post.UpdatedAt.Before(created))
}

func TestPostCommentManagement(t *testing.T) {
	post := &Post{
		ID:    1,
		Title: "Test Post",
		Body:  "Test Content",
	}

	t.Run("add comment", func(t *testing.T) {
		comment := &Comment{
			ID:     1,
			Author: "Test Author",
			Body:   "Test Comment",
		}

		err := post.AddComment(comment)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(post.Comments))
		assert.Equal(t, post.ID, comment.PostID)
		assert.Same(t, post, comment.Post)
	})

	t.Run("add nil comment", func(t *testing.T) {
		err := post.AddComment(nil)
		assert.Error(t, err)
	})

	t.Run("remove existing comment", func(t *testing.T) {
		err := post.RemoveComment(1)
		assert.NoError(t, err)
		assert.Equal(t, 0, len(post.Comments))
	})

	t.Run("remove non-existent comment", func(t *testing.T) {
		err := post.RemoveComment(999)
		assert.Error(t, err)
	})
}

package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default(DependentDestroy)

	post, ok := r.Entity(PostEntity)
	require.True(t, ok)
	assert.Equal(t, "posts", post.Table)
	assert.Equal(t, "post:", post.KeyPrefix)

	comments, ok := post.Association("comments")
	require.True(t, ok)
	assert.Equal(t, HasMany, comments.Kind)
	assert.Equal(t, CommentEntity, comments.Target)
	assert.Equal(t, "post_id", comments.ForeignKey)
	assert.Equal(t, DependentDestroy, comments.Dependent)

	assert.Len(t, r.HasMany(PostEntity), 1)
	assert.Empty(t, r.HasMany(CommentEntity))
	assert.Nil(t, r.HasMany("user"))
}

func TestRegister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Entity{Name: "tag"}))

	err := r.Register(Entity{Name: "tag"})
	assert.True(t, errors.Is(err, ErrDuplicateEntity))

	err = r.Register(Entity{
		Name:         "author",
		Associations: []Association{{Name: "books", Kind: HasMany, Target: "book"}},
	})
	assert.True(t, errors.Is(err, ErrUnknownEntity))

	assert.Error(t, r.Register(Entity{}))
	assert.Panics(t, func() { r.MustEntity("missing") })
}

func TestParseDependent(t *testing.T) {
	tests := []struct {
		in      string
		want    Dependent
		wantErr bool
	}{
		{in: "restrict", want: DependentRestrict},
		{in: " Destroy ", want: DependentDestroy},
		{in: "nullify", want: DependentNullify},
		{in: "", want: DependentRestrict},
		{in: "cascade", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDependent(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

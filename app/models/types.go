package models

import "time"

// Post represents a blog post with comments.
type Post struct {
	ID        int        `json:"id" validate:"gte=0"`
	Title     string     `json:"title" validate:"present"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Comments  []*Comment `json:"comments,omitempty" validate:"-"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID        int       `json:"id" validate:"gte=0"`
	PostID    int       `json:"post_id" validate:"gte=0"`
	Author    string    `json:"author" validate:"max=100"`
	Body      string    `json:"body" validate:"present,max=1000"`
	CreatedAt time.Time `json:"created_at"`
	Post      *Post     `json:"-" validate:"-"`
}

// PostParams carries caller supplied attributes for a post. A nil field
// means the attribute was not supplied at all.
type PostParams struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// CommentParams carries caller supplied attributes for a comment.
type CommentParams struct {
	PostID int     `json:"post_id"`
	Author *string `json:"author"`
	Body   *string `json:"body"`
}

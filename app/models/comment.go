package models

import (
	"errors"
	"time"
)

// NewComment builds a comment from params and checks it.
func NewComment(params CommentParams) (*Comment, error) {
	c := &Comment{PostID: params.PostID}
	c.Apply(params)
	if errs := c.Validate(); !errs.Empty() {
		return nil, &ValidationError{Entity: "comment", Errors: errs}
	}
	return c, nil
}

// Apply copies the supplied attributes onto the comment. Nil attributes
// keep their current value and the post reference is never changed here.
func (c *Comment) Apply(params CommentParams) {
	if params.Author != nil {
		c.Author = *params.Author
	}
	if params.Body != nil {
		c.Body = *params.Body
	}
}

// Validate checks the comment against its rules.
func (c *Comment) Validate() Errors {
	return check(c)
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
}

// SetPost sets the parent post and updates the PostID
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	c.Post = post
	c.PostID = post.ID
	return nil
}

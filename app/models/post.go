package models

import (
	"errors"
	"time"
)

// NewPost builds a post from params and checks it. It returns either the
// post or a *ValidationError describing every rejected attribute.
func NewPost(params PostParams) (*Post, error) {
	p := &Post{}
	p.Apply(params)
	if params.Title == nil {
		p.Title = ""
	}
	if errs := p.Validate(); !errs.Empty() {
		return nil, &ValidationError{Entity: "post", Errors: errs}
	}
	return p, nil
}

// Apply copies the supplied attributes onto the post. Nil attributes keep
// their current value.
func (p *Post) Apply(params PostParams) {
	if params.Title != nil {
		p.Title = *params.Title
	}
	if params.Body != nil {
		p.Body = *params.Body
	}
}

// Validate checks the post against its rules. The result is empty when the
// post may be written.
func (p *Post) Validate() Errors {
	return check(p)
}

// Valid reports whether Validate found nothing.
func (p *Post) Valid() bool {
	return p.Validate().Empty()
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// BeforeUpdate refreshes the modification time.
func (p *Post) BeforeUpdate() {
	p.UpdatedAt = time.Now().UTC()
}

// AddComment adds a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.PostID = p.ID
	comment.Post = p
	p.Comments = append(p.Comments, comment)
	return nil
}

// RemoveComment removes a comment from the post
func (p *Post) RemoveComment(commentID int) error {
	for i, comment := range p.Comments {
		if comment.ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return errors.New("comment not found")
}

// Package thoughts implements short-form posts: a line or two of text with
// an optional mood marker, listed newest first.
package thoughts

import "time"

// Thought represents one short-form post.
type Thought struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	Mood       string    `json:"mood,omitempty"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
	IsDeleted  bool      `json:"-"`
}

// CreateThoughtRequest holds the data submitted when posting a thought.
type CreateThoughtRequest struct {
	Content string `json:"content" form:"content"`
	Mood    string `json:"mood" form:"mood"`
}

// UpdateThoughtRequest holds the data submitted when editing a thought.
// Nil fields are left unchanged.
type UpdateThoughtRequest struct {
	Content *string `json:"content" form:"content"`
	Mood    *string `json:"mood" form:"mood"`
}

// Package tags implements the tag subsystem for Inkwell: tag CRUD with
// soft delete, the many-to-many association between articles and tags, and
// the denormalized use-count popularity counter.
//
// The use counter is intentionally decoupled from association writes: adding
// or removing an association does not touch use_count. Callers that want the
// counter to track the live association set must invoke the counter
// operations themselves (the articles plugin does this when the editor
// replaces an article's tag set). This keeps "historical usage" and "current
// associations" as two independent popularity signals.
package tags

import "time"

// Tag represents a label attachable to zero or more articles. Name and slug
// are unique among non-deleted tags; uniqueness is checked at the
// application layer so a soft-deleted tag never blocks reuse of its name.
type Tag struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Color      string    `json:"color,omitempty"`
	UseCount   int64     `json:"useCount"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
	IsDeleted  bool      `json:"-"`
}

// ArticleTag represents one (article, tag) association row. Rows are
// physically deleted, never soft-deleted. The (article_id, tag_id) pair is
// unique: the service performs an existence check before inserting and the
// table carries a unique index so a concurrent duplicate insert degrades
// into a no-op instead of a duplicate row.
type ArticleTag struct {
	ID         int64     `json:"id"`
	ArticleID  int64     `json:"articleId"`
	TagID      int64     `json:"tagId"`
	CreateTime time.Time `json:"createTime"`
}

// --- Request DTOs (bound from HTTP requests) ---

// CreateTagRequest holds the data submitted when creating a new tag.
// Slug is optional; when empty it is generated from the name.
type CreateTagRequest struct {
	Name  string `json:"name" form:"name"`
	Slug  string `json:"slug" form:"slug"`
	Color string `json:"color" form:"color"`
}

// UpdateTagRequest holds the data submitted when updating an existing tag.
// Nil fields are left unchanged; supplied fields are re-validated and, for
// name/slug, re-checked for uniqueness excluding the tag's own row.
type UpdateTagRequest struct {
	Name  *string `json:"name" form:"name"`
	Slug  *string `json:"slug" form:"slug"`
	Color *string `json:"color" form:"color"`
}

// TagIDsRequest holds a batch of tag IDs, used by the association and
// use-count endpoints.
type TagIDsRequest struct {
	TagIDs []int64 `json:"tagIds"`
}

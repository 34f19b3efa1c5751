// Package articles implements article CRUD: drafts and published posts with
// markdown source plus sanitized HTML, a category reference, a view counter,
// and paginated listing with a fixed sort-key allow-list.
//
// This plugin is also the caller that keeps the tag use counters in step
// with an article's tag set: SetTags replaces the association set through
// the tags plugin and then increments/decrements use counts by the diff.
package articles

import "time"

// Article statuses. Drafts are invisible on the public listing.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// SortKey selects the ordering of a paginated listing. Only the declared
// constants are accepted; anything else falls back to SortByCreateTime.
// Keys are mapped to column names through a fixed table, so request input
// never reaches the ORDER BY clause directly.
type SortKey string

const (
	SortByCreateTime SortKey = "create_time"
	SortByUpdateTime SortKey = "update_time"
	SortByViewCount  SortKey = "view_count"
)

// Article represents a blog post. ContentMD is the author's markdown source;
// ContentHTML is the client-rendered HTML, sanitized before storage. Slug is
// unique among non-deleted articles.
type Article struct {
	ID          int64     `json:"id"`
	CategoryID  *int64    `json:"categoryId,omitempty"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary,omitempty"`
	ContentMD   string    `json:"contentMd"`
	ContentHTML string    `json:"contentHtml"`
	Status      string    `json:"status"`
	ViewCount   int64     `json:"viewCount"`
	CreateTime  time.Time `json:"createTime"`
	UpdateTime  time.Time `json:"updateTime"`
	IsDeleted   bool      `json:"-"`
}

// --- Request DTOs ---

// CreateArticleRequest holds the data submitted when creating an article.
// Slug is optional; when empty it is generated from the title. Status
// defaults to draft.
type CreateArticleRequest struct {
	Title       string `json:"title" form:"title"`
	Slug        string `json:"slug" form:"slug"`
	Summary     string `json:"summary" form:"summary"`
	ContentMD   string `json:"contentMd" form:"contentMd"`
	ContentHTML string `json:"contentHtml" form:"contentHtml"`
	CategoryID  *int64 `json:"categoryId" form:"categoryId"`
	Status      string `json:"status" form:"status"`
}

// UpdateArticleRequest holds the data submitted when updating an article.
// Nil fields are left unchanged.
type UpdateArticleRequest struct {
	Title       *string `json:"title" form:"title"`
	Slug        *string `json:"slug" form:"slug"`
	Summary     *string `json:"summary" form:"summary"`
	ContentMD   *string `json:"contentMd" form:"contentMd"`
	ContentHTML *string `json:"contentHtml" form:"contentHtml"`
	CategoryID  *int64  `json:"categoryId" form:"categoryId"`
}

// SetTagsRequest holds the full tag set submitted from the article editor.
type SetTagsRequest struct {
	TagIDs []int64 `json:"tagIds"`
}

// --- Pagination ---

// ListOptions holds pagination and ordering parameters for list queries.
type ListOptions struct {
	Page     int
	PageSize int
	Sort     SortKey
	Status   string
	Category int64
}

// DefaultListOptions returns sensible defaults for pagination.
func DefaultListOptions() ListOptions {
	return ListOptions{Page: 1, PageSize: 10, Sort: SortByCreateTime, Status: StatusPublished}
}

// Offset returns the SQL OFFSET value for the current page.
func (o ListOptions) Offset() int {
	if o.Page < 1 {
		o.Page = 1
	}
	return (o.Page - 1) * o.PageSize
}

// ArticlePage is the envelope returned by paginated listings.
type ArticlePage struct {
	Items    []Article `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

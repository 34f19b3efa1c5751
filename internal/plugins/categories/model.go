// Package categories implements category CRUD. Categories are a flat
// taxonomy referenced by articles; deleting a category does not touch the
// articles that point at it.
package categories

import "time"

// Category represents an article category. Name and slug are unique among
// non-deleted categories.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreateTime  time.Time `json:"createTime"`
	UpdateTime  time.Time `json:"updateTime"`
	IsDeleted   bool      `json:"-"`
}

// CreateCategoryRequest holds the data submitted when creating a category.
// Slug is optional; when empty it is generated from the name.
type CreateCategoryRequest struct {
	Name        string `json:"name" form:"name"`
	Slug        string `json:"slug" form:"slug"`
	Description string `json:"description" form:"description"`
}

// UpdateCategoryRequest holds the data submitted when updating a category.
// Nil fields are left unchanged.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" form:"name"`
	Slug        *string `json:"slug" form:"slug"`
	Description *string `json:"description" form:"description"`
}

// CategoryPage is the envelope returned by paginated listings.
type CategoryPage struct {
	Items    []Category `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// Package projects implements the project showcase: small CRUD records
// pointing at external repositories.
package projects

import "time"

// Project statuses.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Project represents one showcase entry.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	RepoURL     string    `json:"repoUrl,omitempty"`
	Status      string    `json:"status"`
	CreateTime  time.Time `json:"createTime"`
	UpdateTime  time.Time `json:"updateTime"`
	IsDeleted   bool      `json:"-"`
}

// CreateProjectRequest holds the data submitted when creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	RepoURL     string `json:"repoUrl" form:"repoUrl"`
	Status      string `json:"status" form:"status"`
}

// UpdateProjectRequest holds the data submitted when updating a project.
// Nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
	RepoURL     *string `json:"repoUrl" form:"repoUrl"`
	Status      *string `json:"status" form:"status"`
}

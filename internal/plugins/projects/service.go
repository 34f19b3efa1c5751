package projects

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/inkops/inkwell/internal/apperror"
)

const maxNameLen = 100

// ProjectService defines the business logic contract for projects.
type ProjectService interface {
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	Update(ctx context.Context, id int64, req UpdateProjectRequest) (*Project, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	ListAll(ctx context.Context) ([]Project, error)
}

type projectService struct {
	repo ProjectRepository
}

// NewProjectService creates a ProjectService backed by the given repository.
func NewProjectService(repo ProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

func (s *projectService) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.NewValidation("project name is required")
	}
	if len(name) > maxNameLen {
		return nil, apperror.NewValidation("project name must be at most 100 characters")
	}

	repoURL := strings.TrimSpace(req.RepoURL)
	if err := validateRepoURL(repoURL); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}
	if status != StatusActive && status != StatusArchived {
		return nil, apperror.NewValidation("status must be active or archived")
	}

	project := &Project{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		RepoURL:     repoURL,
		Status:      status,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating project: %w", err))
	}

	return s.repo.FindByID(ctx, project.ID)
}

func (s *projectService) Update(ctx context.Context, id int64, req UpdateProjectRequest) (*Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.NewValidation("project name is required")
		}
		if len(name) > maxNameLen {
			return nil, apperror.NewValidation("project name must be at most 100 characters")
		}
		project.Name = name
	}

	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}

	if req.RepoURL != nil {
		repoURL := strings.TrimSpace(*req.RepoURL)
		if err := validateRepoURL(repoURL); err != nil {
			return nil, err
		}
		project.RepoURL = repoURL
	}

	if req.Status != nil {
		if *req.Status != StatusActive && *req.Status != StatusArchived {
			return nil, apperror.NewValidation("status must be active or archived")
		}
		project.Status = *req.Status
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidation("project id must be positive")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*Project, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("project id must be positive")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *projectService) ListAll(ctx context.Context) ([]Project, error) {
	return s.repo.ListAll(ctx)
}

// validateRepoURL accepts an empty URL or an absolute http(s) URL.
func validateRepoURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return apperror.NewValidation("repo URL must be an absolute http(s) URL")
	}
	return nil
}

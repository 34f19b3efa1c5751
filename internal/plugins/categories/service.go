package categories

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/inkops/inkwell/internal/apperror"
)

const (
	maxNameLen = 50
	maxSlugLen = 50

	defaultPageSize = 20
	maxPageSize     = 100
)

var slugFormatPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
var slugReplacePattern = regexp.MustCompile(`[^a-z0-9]+`)

// CategoryService defines the business logic contract for categories.
type CategoryService interface {
	Create(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	Update(ctx context.Context, id int64, req UpdateCategoryRequest) (*Category, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context, page, pageSize int) (*CategoryPage, error)
}

type categoryService struct {
	repo CategoryRepository
}

// NewCategoryService creates a CategoryService backed by the given repository.
func NewCategoryService(repo CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.NewValidation("category name is required")
	}
	if len(name) > maxNameLen {
		return nil, apperror.NewValidation("category name must be at most 50 characters")
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = generateSlug(name)
		if slug == "" {
			return nil, apperror.NewValidation("slug is required when the name has no latin characters")
		}
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	if taken, err := s.repo.NameExists(ctx, name, 0); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking category name: %w", err))
	} else if taken {
		return nil, apperror.NewConflict("a category with this name already exists")
	}
	if taken, err := s.repo.SlugExists(ctx, slug, 0); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking category slug: %w", err))
	} else if taken {
		return nil, apperror.NewConflict("a category with this slug already exists")
	}

	category := &Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating category: %w", err))
	}

	return s.repo.FindByID(ctx, category.ID)
}

func (s *categoryService) Update(ctx context.Context, id int64, req UpdateCategoryRequest) (*Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.NewValidation("category name is required")
		}
		if len(name) > maxNameLen {
			return nil, apperror.NewValidation("category name must be at most 50 characters")
		}
		if taken, err := s.repo.NameExists(ctx, name, id); err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("checking category name: %w", err))
		} else if taken {
			return nil, apperror.NewConflict("a category with this name already exists")
		}
		category.Name = name
	}

	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if err := validateSlug(slug); err != nil {
			return nil, err
		}
		if taken, err := s.repo.SlugExists(ctx, slug, id); err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("checking category slug: %w", err))
		} else if taken {
			return nil, apperror.NewConflict("a category with this slug already exists")
		}
		category.Slug = slug
	}

	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidation("category id must be positive")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *categoryService) GetByID(ctx context.Context, id int64) (*Category, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("category id must be positive")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperror.NewValidation("slug is required")
	}
	return s.repo.FindBySlug(ctx, slug)
}

func (s *categoryService) List(ctx context.Context, page, pageSize int) (*CategoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if items == nil {
		items = []Category{}
	}

	return &CategoryPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return apperror.NewValidation("category slug is required")
	}
	if len(slug) > maxSlugLen {
		return apperror.NewValidation("category slug must be at most 50 characters")
	}
	if !slugFormatPattern.MatchString(slug) {
		return apperror.NewValidation("category slug must be lowercase letters, digits, and single hyphens")
	}
	return nil
}

func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugReplacePattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}

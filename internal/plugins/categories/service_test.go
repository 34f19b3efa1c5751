package categories

import (
	"context"
	"errors"
	"testing"

	"github.com/inkops/inkwell/internal/apperror"
)

// mockCategoryRepo implements CategoryRepository for testing.
type mockCategoryRepo struct {
	createFn     func(ctx context.Context, category *Category) error
	findByIDFn   func(ctx context.Context, id int64) (*Category, error)
	findBySlugFn func(ctx context.Context, slug string) (*Category, error)
	listFn       func(ctx context.Context, page, pageSize int) ([]Category, int, error)
	updateFn     func(ctx context.Context, category *Category) error
	softDeleteFn func(ctx context.Context, id int64) error
	nameExistsFn func(ctx context.Context, name string, excludeID int64) (bool, error)
	slugExistsFn func(ctx context.Context, slug string, excludeID int64) (bool, error)
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *Category) error {
	if m.createFn != nil {
		return m.createFn(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id int64) (*Category, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("category not found")
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, apperror.NewNotFound("category not found")
}

func (m *mockCategoryRepo) List(ctx context.Context, page, pageSize int) ([]Category, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, page, pageSize)
	}
	return nil, 0, nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *Category) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepo) SoftDelete(ctx context.Context, id int64) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, id)
	}
	return nil
}

func (m *mockCategoryRepo) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	if m.nameExistsFn != nil {
		return m.nameExistsFn(ctx, name, excludeID)
	}
	return false, nil
}

func (m *mockCategoryRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	if m.slugExistsFn != nil {
		return m.slugExistsFn(ctx, slug, excludeID)
	}
	return false, nil
}

func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func TestCreateCategory_GeneratesSlug(t *testing.T) {
	var created *Category
	repo := &mockCategoryRepo{
		createFn: func(ctx context.Context, category *Category) error {
			category.ID = 1
			created = category
			return nil
		},
		findByIDFn: func(ctx context.Context, id int64) (*Category, error) {
			return created, nil
		},
	}

	svc := NewCategoryService(repo)
	category, err := svc.Create(context.Background(), CreateCategoryRequest{Name: "Tech Notes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category.Slug != "tech-notes" {
		t.Errorf("expected slug tech-notes, got %s", category.Slug)
	}
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	repo := &mockCategoryRepo{
		nameExistsFn: func(ctx context.Context, name string, excludeID int64) (bool, error) {
			return true, nil
		},
	}

	svc := NewCategoryService(repo)
	_, err := svc.Create(context.Background(), CreateCategoryRequest{Name: "Tech"})
	assertAppError(t, err, 409)
}

func TestCreateCategory_EmptyName(t *testing.T) {
	svc := NewCategoryService(&mockCategoryRepo{})
	_, err := svc.Create(context.Background(), CreateCategoryRequest{Name: ""})
	assertAppError(t, err, 422)
}

func TestUpdateCategory_ConflictingSlug(t *testing.T) {
	repo := &mockCategoryRepo{
		findByIDFn: func(ctx context.Context, id int64) (*Category, error) {
			return &Category{ID: id, Name: "Tech", Slug: "tech"}, nil
		},
		slugExistsFn: func(ctx context.Context, slug string, excludeID int64) (bool, error) {
			return true, nil
		},
	}

	slug := "taken"
	svc := NewCategoryService(repo)
	_, err := svc.Update(context.Background(), 3, UpdateCategoryRequest{Slug: &slug})
	assertAppError(t, err, 409)
}

func TestListCategories_NormalizesPaging(t *testing.T) {
	var gotPage, gotSize int
	repo := &mockCategoryRepo{
		listFn: func(ctx context.Context, page, pageSize int) ([]Category, int, error) {
			gotPage, gotSize = page, pageSize
			return nil, 0, nil
		},
	}

	svc := NewCategoryService(repo)
	result, err := svc.List(context.Background(), -1, 9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPage != 1 {
		t.Errorf("expected page 1, got %d", gotPage)
	}
	if gotSize != maxPageSize {
		t.Errorf("expected page size %d, got %d", maxPageSize, gotSize)
	}
	if result.Items == nil {
		t.Error("expected empty items slice, got nil")
	}
}

package categories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkops/inkwell/internal/apperror"
)

// CategoryRepository defines the storage contract for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id int64) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context, page, pageSize int) ([]Category, int, error)
	Update(ctx context.Context, category *Category) error
	SoftDelete(ctx context.Context, id int64) error
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

// categoryRepository implements CategoryRepository using MariaDB.
type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, name, slug, description, create_time, update_time, is_delete`

func scanCategory(scan func(dest ...any) error) (*Category, error) {
	var c Category
	err := scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreateTime, &c.UpdateTime, &c.IsDeleted)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *Category) error {
	query := `INSERT INTO category (name, slug, description, create_time, update_time, is_delete)
	           VALUES (?, ?, ?, NOW(), NOW(), 0)`

	result, err := r.db.ExecContext(ctx, query, category.Name, category.Slug, category.Description)
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	category.ID = id

	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE id = ? AND is_delete = 0`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying category by id: %w", err)
	}
	return c, nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE slug = ? AND is_delete = 0`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, slug).Scan)
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying category by slug: %w", err)
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context, page, pageSize int) ([]Category, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM category WHERE is_delete = 0`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting categories: %w", err)
	}

	query := `SELECT ` + categoryColumns + ` FROM category WHERE is_delete = 0
	           ORDER BY name ASC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating category rows: %w", err)
	}
	return categories, total, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *Category) error {
	query := `UPDATE category SET name = ?, slug = ?, description = ?, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query,
		category.Name, category.Slug, category.Description, category.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("category not found")
	}

	return nil
}

func (r *categoryRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE category SET is_delete = 1, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft-deleting category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("category not found")
	}

	return nil
}

func (r *categoryRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM category WHERE name = ? AND is_delete = 0 AND id != ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking category name existence: %w", err)
	}
	return exists, nil
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM category WHERE slug = ? AND is_delete = 0 AND id != ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking category slug existence: %w", err)
	}
	return exists, nil
}

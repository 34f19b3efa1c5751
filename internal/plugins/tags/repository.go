package tags

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/inkops/inkwell/internal/apperror"
)

// TagRepository defines the data access contract for the tag table.
// One repository per aggregate root; all SQL lives here. Soft-deleted rows
// are invisible to every query in this interface.
type TagRepository interface {
	// Create inserts a new tag. The tag's ID is set on the struct after insert.
	Create(ctx context.Context, tag *Tag) error

	// FindByID retrieves a single non-deleted tag by its primary key.
	FindByID(ctx context.Context, id int64) (*Tag, error)

	// FindBySlug retrieves a single non-deleted tag by its slug.
	FindBySlug(ctx context.Context, slug string) (*Tag, error)

	// ListAll returns all non-deleted tags ordered alphabetically by name.
	ListAll(ctx context.Context) ([]Tag, error)

	// ListByUseCount returns the top limit non-deleted tags ordered by
	// use_count descending, ties broken by create_time descending.
	ListByUseCount(ctx context.Context, limit int) ([]Tag, error)

	// Update modifies an existing tag's name, slug, and color.
	Update(ctx context.Context, tag *Tag) error

	// SoftDelete marks a tag deleted. Association rows are left in place.
	SoftDelete(ctx context.Context, id int64) error

	// NameExists reports whether a non-deleted tag with the given name
	// exists. excludeID is skipped (pass 0 to check all rows).
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)

	// SlugExists reports whether a non-deleted tag with the given slug
	// exists. excludeID is skipped (pass 0 to check all rows).
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)

	// IncrementUseCount adds one to use_count for every live tag in ids.
	// IDs that match no row are silently skipped.
	IncrementUseCount(ctx context.Context, ids []int64) error

	// DecrementUseCount subtracts one from use_count for every live tag in
	// ids, clamping at zero. IDs that match no row are silently skipped.
	DecrementUseCount(ctx context.Context, ids []int64) error
}

// tagRepository implements TagRepository using MariaDB with hand-written SQL.
type tagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new TagRepository backed by the given database connection.
func NewTagRepository(db *sql.DB) TagRepository {
	return &tagRepository{db: db}
}

// tagColumns is the select list shared by all tag queries.
const tagColumns = `id, name, slug, color, use_count, create_time, update_time, is_delete`

// scanTag scans one tag row from the given row scanner.
func scanTag(scan func(dest ...any) error) (*Tag, error) {
	var t Tag
	err := scan(&t.ID, &t.Name, &t.Slug, &t.Color, &t.UseCount, &t.CreateTime, &t.UpdateTime, &t.IsDeleted)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new tag row and sets the auto-generated ID on the struct.
func (r *tagRepository) Create(ctx context.Context, tag *Tag) error {
	query := `INSERT INTO tag (name, slug, color, use_count, create_time, update_time, is_delete)
	           VALUES (?, ?, ?, 0, NOW(), NOW(), 0)`

	result, err := r.db.ExecContext(ctx, query, tag.Name, tag.Slug, tag.Color)
	if err != nil {
		return fmt.Errorf("inserting tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	tag.ID = id

	return nil
}

// FindByID retrieves a single non-deleted tag by its primary key.
func (r *tagRepository) FindByID(ctx context.Context, id int64) (*Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tag WHERE id = ? AND is_delete = 0`

	t, err := scanTag(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("tag not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying tag by id: %w", err)
	}
	return t, nil
}

// FindBySlug retrieves a single non-deleted tag by its slug.
func (r *tagRepository) FindBySlug(ctx context.Context, slug string) (*Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tag WHERE slug = ? AND is_delete = 0`

	t, err := scanTag(r.db.QueryRowContext(ctx, query, slug).Scan)
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("tag not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying tag by slug: %w", err)
	}
	return t, nil
}

// ListAll returns all non-deleted tags ordered by name.
func (r *tagRepository) ListAll(ctx context.Context) ([]Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tag WHERE is_delete = 0 ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

// ListByUseCount returns the top limit tags by use_count, recency breaking ties.
func (r *tagRepository) ListByUseCount(ctx context.Context, limit int) ([]Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tag WHERE is_delete = 0
	           ORDER BY use_count DESC, create_time DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing tags by use count: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

// collectTags scans all rows into a slice.
func collectTags(rows *sql.Rows) ([]Tag, error) {
	var tags []Tag
	for rows.Next() {
		t, err := scanTag(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag rows: %w", err)
	}
	return tags, nil
}

// Update modifies an existing tag's name, slug, and color.
func (r *tagRepository) Update(ctx context.Context, tag *Tag) error {
	query := `UPDATE tag SET name = ?, slug = ?, color = ?, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query, tag.Name, tag.Slug, tag.Color, tag.ID)
	if err != nil {
		return fmt.Errorf("updating tag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("tag not found")
	}

	return nil
}

// SoftDelete flags a tag as deleted. The article_tag rows referencing it are
// intentionally left in place; read paths filter them out via a join on
// is_delete = 0.
func (r *tagRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE tag SET is_delete = 1, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft-deleting tag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("tag not found")
	}

	return nil
}

// NameExists checks name uniqueness among non-deleted tags.
func (r *tagRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tag WHERE name = ? AND is_delete = 0 AND id != ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking tag name existence: %w", err)
	}
	return exists, nil
}

// SlugExists checks slug uniqueness among non-deleted tags.
func (r *tagRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tag WHERE slug = ? AND is_delete = 0 AND id != ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking tag slug existence: %w", err)
	}
	return exists, nil
}

// IncrementUseCount bumps use_count by one for each live tag in ids as a
// single atomic statement, so concurrent calls serialize at the storage
// layer instead of losing updates to read-modify-write races.
func (r *tagRepository) IncrementUseCount(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`UPDATE tag SET use_count = use_count + 1, update_time = NOW()
		  WHERE id IN (%s) AND is_delete = 0`,
		placeholders(len(ids)))

	if _, err := r.db.ExecContext(ctx, query, int64Args(ids)...); err != nil {
		return fmt.Errorf("incrementing tag use count: %w", err)
	}
	return nil
}

// DecrementUseCount lowers use_count by one for each live tag in ids,
// clamping at zero so the counter never goes negative.
func (r *tagRepository) DecrementUseCount(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`UPDATE tag SET use_count = GREATEST(use_count - 1, 0), update_time = NOW()
		  WHERE id IN (%s) AND is_delete = 0`,
		placeholders(len(ids)))

	if _, err := r.db.ExecContext(ctx, query, int64Args(ids)...); err != nil {
		return fmt.Errorf("decrementing tag use count: %w", err)
	}
	return nil
}

// placeholders returns a comma-joined list of n "?" markers for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// int64Args converts an int64 slice into the []any form ExecContext expects.
func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

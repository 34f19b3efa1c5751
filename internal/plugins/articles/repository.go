package articles

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkops/inkwell/internal/apperror"
)

// ArticleRepository defines the storage contract for articles. All SQL for
// the article table lives here.
type ArticleRepository interface {
	// Create inserts a new article. The article's ID is set after insert.
	Create(ctx context.Context, article *Article) error

	// FindByID retrieves a single non-deleted article by its primary key.
	FindByID(ctx context.Context, id int64) (*Article, error)

	// FindBySlug retrieves a single non-deleted article by its slug.
	FindBySlug(ctx context.Context, slug string) (*Article, error)

	// List returns one page of non-deleted articles plus the total count,
	// filtered by status (and category when opts.Category > 0).
	List(ctx context.Context, opts ListOptions) ([]Article, int, error)

	// Update modifies an existing article's editable fields.
	Update(ctx context.Context, article *Article) error

	// UpdateStatus transitions an article to the given status.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// SoftDelete marks an article deleted.
	SoftDelete(ctx context.Context, id int64) error

	// SlugExists reports whether a non-deleted article with the given slug
	// exists. excludeID is skipped (pass 0 to check all rows).
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)

	// Exists reports whether a non-deleted article with the given id exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// IncrementViewCount adds one to the article's view counter as a single
	// atomic statement.
	IncrementViewCount(ctx context.Context, id int64) error

	// CategoryExists reports whether a non-deleted category row exists.
	// Used to validate the category reference without reaching into the
	// categories plugin.
	CategoryExists(ctx context.Context, id int64) (bool, error)
}

// articleRepository implements ArticleRepository using MariaDB with
// hand-written SQL.
type articleRepository struct {
	db *sql.DB
}

// NewArticleRepository creates a new ArticleRepository backed by the given
// database connection.
func NewArticleRepository(db *sql.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// articleColumns is the select list shared by all article queries.
const articleColumns = `id, category_id, title, slug, summary, content_md, content_html,
	status, view_count, create_time, update_time, is_delete`

// sortColumns maps the closed SortKey enum to column names. Request input
// never reaches the ORDER BY clause except through this table.
var sortColumns = map[SortKey]string{
	SortByCreateTime: "create_time",
	SortByUpdateTime: "update_time",
	SortByViewCount:  "view_count",
}

// scanArticle scans one article row from the given row scanner.
func scanArticle(scan func(dest ...any) error) (*Article, error) {
	var a Article
	err := scan(&a.ID, &a.CategoryID, &a.Title, &a.Slug, &a.Summary, &a.ContentMD,
		&a.ContentHTML, &a.Status, &a.ViewCount, &a.CreateTime, &a.UpdateTime, &a.IsDeleted)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new article row and sets the auto-generated ID.
func (r *articleRepository) Create(ctx context.Context, article *Article) error {
	query := `INSERT INTO article (category_id, title, slug, summary, content_md, content_html,
	           status, view_count, create_time, update_time, is_delete)
	           VALUES (?, ?, ?, ?, ?, ?, ?, 0, NOW(), NOW(), 0)`

	result, err := r.db.ExecContext(ctx, query,
		article.CategoryID, article.Title, article.Slug, article.Summary,
		article.ContentMD, article.ContentHTML, article.Status)
	if err != nil {
		return fmt.Errorf("inserting article: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	article.ID = id

	return nil
}

// FindByID retrieves a single non-deleted article by its primary key.
func (r *articleRepository) FindByID(ctx context.Context, id int64) (*Article, error) {
	query := `SELECT ` + articleColumns + ` FROM article WHERE id = ? AND is_delete = 0`

	a, err := scanArticle(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("article not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying article by id: %w", err)
	}
	return a, nil
}

// FindBySlug retrieves a single non-deleted article by its slug.
func (r *articleRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	query := `SELECT ` + articleColumns + ` FROM article WHERE slug = ? AND is_delete = 0`

	a, err := scanArticle(r.db.QueryRowContext(ctx, query, slug).Scan)
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("article not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying article by slug: %w", err)
	}
	return a, nil
}

// List returns one page of articles plus the total matching count. The sort
// key is resolved through sortColumns; unknown keys fall back to create_time.
func (r *articleRepository) List(ctx context.Context, opts ListOptions) ([]Article, int, error) {
	where := "WHERE is_delete = 0"
	args := []any{}

	if opts.Status != "" {
		where += " AND status = ?"
		args = append(args, opts.Status)
	}
	if opts.Category > 0 {
		where += " AND category_id = ?"
		args = append(args, opts.Category)
	}

	countQuery := "SELECT COUNT(*) FROM article " + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting articles: %w", err)
	}

	column, ok := sortColumns[opts.Sort]
	if !ok {
		column = sortColumns[SortByCreateTime]
	}

	query := fmt.Sprintf(`SELECT %s FROM article %s ORDER BY %s DESC, id DESC LIMIT ? OFFSET ?`,
		articleColumns, where, column)

	pageArgs := append(args, opts.PageSize, opts.Offset())
	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning article row: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating article rows: %w", err)
	}
	return articles, total, nil
}

// Update modifies an existing article's editable fields.
func (r *articleRepository) Update(ctx context.Context, article *Article) error {
	query := `UPDATE article SET category_id = ?, title = ?, slug = ?, summary = ?,
	           content_md = ?, content_html = ?, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query,
		article.CategoryID, article.Title, article.Slug, article.Summary,
		article.ContentMD, article.ContentHTML, article.ID)
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("article not found")
	}

	return nil
}

// UpdateStatus transitions an article to the given status.
func (r *articleRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE article SET status = ?, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating article status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("article not found")
	}

	return nil
}

// SoftDelete flags an article as deleted.
func (r *articleRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE article SET is_delete = 1, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft-deleting article: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("article not found")
	}

	return nil
}

// SlugExists checks slug uniqueness among non-deleted articles.
func (r *articleRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM article WHERE slug = ? AND is_delete = 0 AND id != ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking article slug existence: %w", err)
	}
	return exists, nil
}

// Exists reports whether a live article row with the given id exists.
func (r *articleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM article WHERE id = ? AND is_delete = 0)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking article existence: %w", err)
	}
	return exists, nil
}

// IncrementViewCount bumps the view counter in a single statement so
// concurrent reads don't lose updates.
func (r *articleRepository) IncrementViewCount(ctx context.Context, id int64) error {
	query := `UPDATE article SET view_count = view_count + 1 WHERE id = ? AND is_delete = 0`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("incrementing article view count: %w", err)
	}
	return nil
}

// CategoryExists reports whether a live category row exists.
func (r *articleRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM category WHERE id = ? AND is_delete = 0)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking category existence: %w", err)
	}
	return exists, nil
}

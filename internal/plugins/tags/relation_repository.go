package tags

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RelationRepository defines the data access contract for the article_tag
// join table. All operations are keyed by raw IDs; existence of the
// referenced article or tag is the caller's responsibility.
//
// The table carries a unique index on (article_id, tag_id), so inserts use
// INSERT IGNORE: a concurrent writer slipping past the service-level
// existence check produces a skipped row, not an error.
type RelationRepository interface {
	// Exists reports whether the (articleID, tagID) association is present.
	Exists(ctx context.Context, articleID, tagID int64) (bool, error)

	// InsertPairs bulk-inserts (articleID, tagID) rows for every ID in
	// tagIDs, all sharing one creation timestamp, inside one transaction.
	// Pairs already present are skipped. Returns the number of rows written.
	InsertPairs(ctx context.Context, articleID int64, tagIDs []int64) (int64, error)

	// ReplaceForArticle deletes every association for the article and
	// inserts the given tag IDs with a fresh shared creation timestamp,
	// all inside one transaction. An empty tagIDs just clears the article.
	ReplaceForArticle(ctx context.Context, articleID int64, tagIDs []int64) error

	// DeleteByArticle removes all associations for an article.
	DeleteByArticle(ctx context.Context, articleID int64) (int64, error)

	// DeleteByTag removes all associations for a tag.
	DeleteByTag(ctx context.Context, tagID int64) (int64, error)

	// DeleteByArticleAndTags removes the associations between one article
	// and the given tags. Returns the number of rows removed.
	DeleteByArticleAndTags(ctx context.Context, articleID int64, tagIDs []int64) (int64, error)

	// TagIDsForArticle returns the IDs of live (non-deleted) tags attached
	// to the article, newest association first.
	TagIDsForArticle(ctx context.Context, articleID int64) ([]int64, error)

	// TagsForArticle returns the live tags attached to the article.
	TagsForArticle(ctx context.Context, articleID int64) ([]Tag, error)

	// ArticleIDsForTag returns the IDs of articles the tag is attached to.
	ArticleIDsForTag(ctx context.Context, tagID int64) ([]int64, error)

	// CountByArticle returns how many live tags the article has.
	CountByArticle(ctx context.Context, articleID int64) (int64, error)

	// CountByTag returns how many articles the tag is attached to.
	CountByTag(ctx context.Context, tagID int64) (int64, error)

	// PopularTagIDs ranks live tags by the number of distinct associated
	// articles, descending, and returns the top limit tag IDs.
	PopularTagIDs(ctx context.Context, limit int) ([]int64, error)
}

// relationRepository implements RelationRepository with hand-written SQL.
type relationRepository struct {
	db *sql.DB
}

// NewRelationRepository creates a RelationRepository backed by the given DB pool.
func NewRelationRepository(db *sql.DB) RelationRepository {
	return &relationRepository{db: db}
}

// Exists checks for a single association row.
func (r *relationRepository) Exists(ctx context.Context, articleID, tagID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM article_tag WHERE article_id = ? AND tag_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, articleID, tagID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking association existence: %w", err)
	}
	return exists, nil
}

// InsertPairs writes one row per tag ID inside a transaction so concurrent
// mutations on the same article's association set don't interleave with the
// batch. All rows share a single creation timestamp.
func (r *relationRepository) InsertPairs(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning association insert tx: %w", err)
	}
	defer tx.Rollback()

	inserted, err := insertPairsTx(ctx, tx, articleID, tagIDs, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing association insert tx: %w", err)
	}
	return inserted, nil
}

// ReplaceForArticle clears the article's association set and writes the new
// one in a single transaction (delete-all-then-insert, so retained tags get
// a fresh create_time).
func (r *relationRepository) ReplaceForArticle(ctx context.Context, articleID int64, tagIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning association replace tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_tag WHERE article_id = ?`, articleID); err != nil {
		return fmt.Errorf("clearing article associations: %w", err)
	}

	if len(tagIDs) > 0 {
		if _, err := insertPairsTx(ctx, tx, articleID, tagIDs, time.Now().UTC()); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing association replace tx: %w", err)
	}
	return nil
}

// insertPairsTx performs the multi-row INSERT IGNORE shared by InsertPairs
// and ReplaceForArticle. The unique index on (article_id, tag_id) turns
// racing duplicate inserts into skipped rows.
func insertPairsTx(ctx context.Context, tx *sql.Tx, articleID int64, tagIDs []int64, createTime time.Time) (int64, error) {
	values := make([]string, len(tagIDs))
	args := make([]any, 0, len(tagIDs)*3)
	for i, tagID := range tagIDs {
		values[i] = "(?, ?, ?)"
		args = append(args, articleID, tagID, createTime)
	}

	query := `INSERT IGNORE INTO article_tag (article_id, tag_id, create_time) VALUES ` +
		joinValues(values)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting associations: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return inserted, nil
}

// joinValues joins "(?, ?, ?)" groups with commas for a multi-row insert.
func joinValues(values []string) string {
	out := values[0]
	for _, v := range values[1:] {
		out += ", " + v
	}
	return out
}

// DeleteByArticle removes every association row for an article.
func (r *relationRepository) DeleteByArticle(ctx context.Context, articleID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM article_tag WHERE article_id = ?`, articleID)
	if err != nil {
		return 0, fmt.Errorf("deleting associations by article: %w", err)
	}
	return result.RowsAffected()
}

// DeleteByTag removes every association row for a tag.
func (r *relationRepository) DeleteByTag(ctx context.Context, tagID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM article_tag WHERE tag_id = ?`, tagID)
	if err != nil {
		return 0, fmt.Errorf("deleting associations by tag: %w", err)
	}
	return result.RowsAffected()
}

// DeleteByArticleAndTags removes the given pairs for one article.
func (r *relationRepository) DeleteByArticleAndTags(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		`DELETE FROM article_tag WHERE article_id = ? AND tag_id IN (%s)`,
		placeholders(len(tagIDs)))

	args := append([]any{articleID}, int64Args(tagIDs)...)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting associations by article and tags: %w", err)
	}
	return result.RowsAffected()
}

// TagIDsForArticle joins against the tag table so associations pointing at a
// soft-deleted tag never surface in reads.
func (r *relationRepository) TagIDsForArticle(ctx context.Context, articleID int64) ([]int64, error) {
	query := `SELECT at.tag_id
	           FROM article_tag at
	           INNER JOIN tag t ON t.id = at.tag_id AND t.is_delete = 0
	           WHERE at.article_id = ?
	           ORDER BY at.create_time DESC, at.id DESC`

	return r.collectIDs(ctx, query, articleID)
}

// TagsForArticle returns full tag rows for an article, live tags only.
func (r *relationRepository) TagsForArticle(ctx context.Context, articleID int64) ([]Tag, error) {
	query := `SELECT t.id, t.name, t.slug, t.color, t.use_count, t.create_time, t.update_time, t.is_delete
	           FROM article_tag at
	           INNER JOIN tag t ON t.id = at.tag_id AND t.is_delete = 0
	           WHERE at.article_id = ?
	           ORDER BY t.name ASC`

	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("getting tags for article: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

// ArticleIDsForTag returns all article IDs the tag is attached to.
func (r *relationRepository) ArticleIDsForTag(ctx context.Context, tagID int64) ([]int64, error) {
	query := `SELECT article_id FROM article_tag WHERE tag_id = ?
	           ORDER BY create_time DESC, id DESC`

	return r.collectIDs(ctx, query, tagID)
}

// CountByArticle counts live tags attached to the article.
func (r *relationRepository) CountByArticle(ctx context.Context, articleID int64) (int64, error) {
	query := `SELECT COUNT(*)
	           FROM article_tag at
	           INNER JOIN tag t ON t.id = at.tag_id AND t.is_delete = 0
	           WHERE at.article_id = ?`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, articleID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tags for article: %w", err)
	}
	return count, nil
}

// CountByTag counts articles the tag is attached to.
func (r *relationRepository) CountByTag(ctx context.Context, tagID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM article_tag WHERE tag_id = ?`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, tagID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting articles for tag: %w", err)
	}
	return count, nil
}

// PopularTagIDs ranks live tags by distinct associated articles.
func (r *relationRepository) PopularTagIDs(ctx context.Context, limit int) ([]int64, error) {
	query := `SELECT at.tag_id
	           FROM article_tag at
	           INNER JOIN tag t ON t.id = at.tag_id AND t.is_delete = 0
	           GROUP BY at.tag_id
	           ORDER BY COUNT(DISTINCT at.article_id) DESC, at.tag_id ASC
	           LIMIT ?`

	return r.collectIDs(ctx, query, limit)
}

// collectIDs runs a single-column int64 query and scans all rows.
func (r *relationRepository) collectIDs(ctx context.Context, query string, arg any) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying association ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning association id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating association ids: %w", err)
	}
	return ids, nil
}

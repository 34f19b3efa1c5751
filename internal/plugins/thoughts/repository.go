package thoughts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkops/inkwell/internal/apperror"
)

// ThoughtRepository defines the storage contract for thoughts.
type ThoughtRepository interface {
	Create(ctx context.Context, thought *Thought) error
	FindByID(ctx context.Context, id int64) (*Thought, error)
	ListAll(ctx context.Context) ([]Thought, error)
	Update(ctx context.Context, thought *Thought) error
	SoftDelete(ctx context.Context, id int64) error
}

type thoughtRepository struct {
	db *sql.DB
}

// NewThoughtRepository creates a new ThoughtRepository.
func NewThoughtRepository(db *sql.DB) ThoughtRepository {
	return &thoughtRepository{db: db}
}

const thoughtColumns = `id, content, mood, create_time, update_time, is_delete`

func scanThought(scan func(dest ...any) error) (*Thought, error) {
	var t Thought
	err := scan(&t.ID, &t.Content, &t.Mood, &t.CreateTime, &t.UpdateTime, &t.IsDeleted)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *thoughtRepository) Create(ctx context.Context, thought *Thought) error {
	query := `INSERT INTO thought (content, mood, create_time, update_time, is_delete)
	           VALUES (?, ?, NOW(), NOW(), 0)`

	result, err := r.db.ExecContext(ctx, query, thought.Content, thought.Mood)
	if err != nil {
		return fmt.Errorf("inserting thought: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	thought.ID = id

	return nil
}

func (r *thoughtRepository) FindByID(ctx context.Context, id int64) (*Thought, error) {
	query := `SELECT ` + thoughtColumns + ` FROM thought WHERE id = ? AND is_delete = 0`

	t, err := scanThought(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("thought not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying thought by id: %w", err)
	}
	return t, nil
}

func (r *thoughtRepository) ListAll(ctx context.Context) ([]Thought, error) {
	query := `SELECT ` + thoughtColumns + ` FROM thought WHERE is_delete = 0
	           ORDER BY create_time DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing thoughts: %w", err)
	}
	defer rows.Close()

	var thoughts []Thought
	for rows.Next() {
		t, err := scanThought(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning thought row: %w", err)
		}
		thoughts = append(thoughts, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating thought rows: %w", err)
	}
	return thoughts, nil
}

func (r *thoughtRepository) Update(ctx context.Context, thought *Thought) error {
	query := `UPDATE thought SET content = ?, mood = ?, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query, thought.Content, thought.Mood, thought.ID)
	if err != nil {
		return fmt.Errorf("updating thought: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("thought not found")
	}

	return nil
}

func (r *thoughtRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE thought SET is_delete = 1, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft-deleting thought: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("thought not found")
	}

	return nil
}

package projects

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkops/inkwell/internal/apperror"
)

// ProjectRepository defines the storage contract for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id int64) (*Project, error)
	ListAll(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, project *Project) error
	SoftDelete(ctx context.Context, id int64) error
}

type projectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, name, description, repo_url, status, create_time, update_time, is_delete`

func scanProject(scan func(dest ...any) error) (*Project, error) {
	var p Project
	err := scan(&p.ID, &p.Name, &p.Description, &p.RepoURL, &p.Status,
		&p.CreateTime, &p.UpdateTime, &p.IsDeleted)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepository) Create(ctx context.Context, project *Project) error {
	query := `INSERT INTO project (name, description, repo_url, status, create_time, update_time, is_delete)
	           VALUES (?, ?, ?, ?, NOW(), NOW(), 0)`

	result, err := r.db.ExecContext(ctx, query,
		project.Name, project.Description, project.RepoURL, project.Status)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	project.ID = id

	return nil
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM project WHERE id = ? AND is_delete = 0`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying project by id: %w", err)
	}
	return p, nil
}

func (r *projectRepository) ListAll(ctx context.Context) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM project WHERE is_delete = 0
	           ORDER BY create_time DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *Project) error {
	query := `UPDATE project SET name = ?, description = ?, repo_url = ?, status = ?, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query,
		project.Name, project.Description, project.RepoURL, project.Status, project.ID)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("project not found")
	}

	return nil
}

func (r *projectRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE project SET is_delete = 1, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft-deleting project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("project not found")
	}

	return nil
}

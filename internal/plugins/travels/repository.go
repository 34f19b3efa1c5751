package travels

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkops/inkwell/internal/apperror"
)

// TravelRepository defines the storage contract for travel records.
type TravelRepository interface {
	Create(ctx context.Context, travel *Travel) error
	FindByID(ctx context.Context, id int64) (*Travel, error)
	List(ctx context.Context, page, pageSize int) ([]Travel, int, error)
	Update(ctx context.Context, travel *Travel) error
	SoftDelete(ctx context.Context, id int64) error
}

type travelRepository struct {
	db *sql.DB
}

// NewTravelRepository creates a new TravelRepository.
func NewTravelRepository(db *sql.DB) TravelRepository {
	return &travelRepository{db: db}
}

const travelColumns = `id, place, description, latitude, longitude, visit_date,
	create_time, update_time, is_delete`

func scanTravel(scan func(dest ...any) error) (*Travel, error) {
	var t Travel
	err := scan(&t.ID, &t.Place, &t.Description, &t.Latitude, &t.Longitude,
		&t.VisitDate, &t.CreateTime, &t.UpdateTime, &t.IsDeleted)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *travelRepository) Create(ctx context.Context, travel *Travel) error {
	query := `INSERT INTO travel (place, description, latitude, longitude, visit_date,
	           create_time, update_time, is_delete)
	           VALUES (?, ?, ?, ?, ?, NOW(), NOW(), 0)`

	result, err := r.db.ExecContext(ctx, query,
		travel.Place, travel.Description, travel.Latitude, travel.Longitude, travel.VisitDate)
	if err != nil {
		return fmt.Errorf("inserting travel: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	travel.ID = id

	return nil
}

func (r *travelRepository) FindByID(ctx context.Context, id int64) (*Travel, error) {
	query := `SELECT ` + travelColumns + ` FROM travel WHERE id = ? AND is_delete = 0`

	t, err := scanTravel(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("travel not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying travel by id: %w", err)
	}
	return t, nil
}

func (r *travelRepository) List(ctx context.Context, page, pageSize int) ([]Travel, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM travel WHERE is_delete = 0`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting travels: %w", err)
	}

	query := `SELECT ` + travelColumns + ` FROM travel WHERE is_delete = 0
	           ORDER BY visit_date DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("listing travels: %w", err)
	}
	defer rows.Close()

	var travels []Travel
	for rows.Next() {
		t, err := scanTravel(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning travel row: %w", err)
		}
		travels = append(travels, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating travel rows: %w", err)
	}
	return travels, total, nil
}

func (r *travelRepository) Update(ctx context.Context, travel *Travel) error {
	query := `UPDATE travel SET place = ?, description = ?, latitude = ?, longitude = ?,
	           visit_date = ?, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query,
		travel.Place, travel.Description, travel.Latitude, travel.Longitude,
		travel.VisitDate, travel.ID)
	if err != nil {
		return fmt.Errorf("updating travel: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("travel not found")
	}

	return nil
}

func (r *travelRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE travel SET is_delete = 1, update_time = NOW()
	           WHERE id = ? AND is_delete = 0`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft-deleting travel: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("travel not found")
	}

	return nil
}

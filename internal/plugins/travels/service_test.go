package travels

import (
	"context"
	"errors"
	"testing"

	"github.com/inkops/inkwell/internal/apperror"
)

// mockTravelRepo implements TravelRepository for testing.
type mockTravelRepo struct {
	createFn     func(ctx context.Context, travel *Travel) error
	findByIDFn   func(ctx context.Context, id int64) (*Travel, error)
	listFn       func(ctx context.Context, page, pageSize int) ([]Travel, int, error)
	updateFn     func(ctx context.Context, travel *Travel) error
	softDeleteFn func(ctx context.Context, id int64) error
}

func (m *mockTravelRepo) Create(ctx context.Context, travel *Travel) error {
	if m.createFn != nil {
		return m.createFn(ctx, travel)
	}
	return nil
}

func (m *mockTravelRepo) FindByID(ctx context.Context, id int64) (*Travel, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("travel not found")
}

func (m *mockTravelRepo) List(ctx context.Context, page, pageSize int) ([]Travel, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, page, pageSize)
	}
	return nil, 0, nil
}

func (m *mockTravelRepo) Update(ctx context.Context, travel *Travel) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, travel)
	}
	return nil
}

func (m *mockTravelRepo) SoftDelete(ctx context.Context, id int64) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, id)
	}
	return nil
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

func TestCreateTravel_Success(t *testing.T) {
	var created *Travel
	repo := &mockTravelRepo{
		createFn: func(ctx context.Context, travel *Travel) error {
			travel.ID = 1
			created = travel
			return nil
		},
		findByIDFn: func(ctx context.Context, id int64) (*Travel, error) {
			return created, nil
		},
	}

	lat, lng := 35.6762, 139.6503
	svc := NewTravelService(repo)
	travel, err := svc.Create(context.Background(), CreateTravelRequest{
		Place:     "Tokyo",
		Latitude:  &lat,
		Longitude: &lng,
		VisitDate: "2025-04-12",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if travel.Place != "Tokyo" {
		t.Errorf("expected place Tokyo, got %s", travel.Place)
	}
	if travel.VisitDate.Format("2006-01-02") != "2025-04-12" {
		t.Errorf("unexpected visit date: %v", travel.VisitDate)
	}
}

func TestCreateTravel_LoneCoordinate(t *testing.T) {
	lat := 35.0
	svc := NewTravelService(&mockTravelRepo{})
	_, err := svc.Create(context.Background(), CreateTravelRequest{
		Place:     "Tokyo",
		Latitude:  &lat,
		VisitDate: "2025-04-12",
	})
	assertAppError(t, err, 422)
}

func TestCreateTravel_CoordinateOutOfRange(t *testing.T) {
	lat, lng := 91.0, 10.0
	svc := NewTravelService(&mockTravelRepo{})
	_, err := svc.Create(context.Background(), CreateTravelRequest{
		Place:     "Nowhere",
		Latitude:  &lat,
		Longitude: &lng,
		VisitDate: "2025-04-12",
	})
	assertAppError(t, err, 422)
}

func TestCreateTravel_BadVisitDate(t *testing.T) {
	svc := NewTravelService(&mockTravelRepo{})
	_, err := svc.Create(context.Background(), CreateTravelRequest{
		Place:     "Tokyo",
		VisitDate: "12/04/2025",
	})
	assertAppError(t, err, 422)
}

func TestCreateTravel_MissingPlace(t *testing.T) {
	svc := NewTravelService(&mockTravelRepo{})
	_, err := svc.Create(context.Background(), CreateTravelRequest{VisitDate: "2025-04-12"})
	assertAppError(t, err, 422)
}

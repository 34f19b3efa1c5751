package travels

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkops/inkwell/internal/apperror"
)

const (
	maxPlaceLen = 100

	defaultPageSize = 20
	maxPageSize     = 100

	visitDateLayout = "2006-01-02"
)

// TravelService defines the business logic contract for travel records.
type TravelService interface {
	Create(ctx context.Context, req CreateTravelRequest) (*Travel, error)
	Update(ctx context.Context, id int64, req UpdateTravelRequest) (*Travel, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Travel, error)
	List(ctx context.Context, page, pageSize int) (*TravelPage, error)
}

type travelService struct {
	repo TravelRepository
}

// NewTravelService creates a TravelService backed by the given repository.
func NewTravelService(repo TravelRepository) TravelService {
	return &travelService{repo: repo}
}

func (s *travelService) Create(ctx context.Context, req CreateTravelRequest) (*Travel, error) {
	place := strings.TrimSpace(req.Place)
	if place == "" {
		return nil, apperror.NewValidation("place is required")
	}
	if len(place) > maxPlaceLen {
		return nil, apperror.NewValidation("place must be at most 100 characters")
	}

	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	visitDate, err := parseVisitDate(req.VisitDate)
	if err != nil {
		return nil, err
	}

	travel := &Travel{
		Place:       place,
		Description: strings.TrimSpace(req.Description),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		VisitDate:   visitDate,
	}

	if err := s.repo.Create(ctx, travel); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating travel: %w", err))
	}

	return s.repo.FindByID(ctx, travel.ID)
}

func (s *travelService) Update(ctx context.Context, id int64, req UpdateTravelRequest) (*Travel, error) {
	travel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Place != nil {
		place := strings.TrimSpace(*req.Place)
		if place == "" {
			return nil, apperror.NewValidation("place is required")
		}
		if len(place) > maxPlaceLen {
			return nil, apperror.NewValidation("place must be at most 100 characters")
		}
		travel.Place = place
	}

	if req.Description != nil {
		travel.Description = strings.TrimSpace(*req.Description)
	}

	// Coordinates change as a pair: supplying one requires the other.
	if req.Latitude != nil || req.Longitude != nil {
		if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
			return nil, err
		}
		travel.Latitude = req.Latitude
		travel.Longitude = req.Longitude
	}

	if req.VisitDate != nil {
		visitDate, err := parseVisitDate(*req.VisitDate)
		if err != nil {
			return nil, err
		}
		travel.VisitDate = visitDate
	}

	if err := s.repo.Update(ctx, travel); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *travelService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidation("travel id must be positive")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *travelService) GetByID(ctx context.Context, id int64) (*Travel, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("travel id must be positive")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *travelService) List(ctx context.Context, page, pageSize int) (*TravelPage, error) {
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
		items = []Travel{}
	}

	return &TravelPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// validateCoordinates accepts both-nil or both-set coordinates in range.
func validateCoordinates(lat, lng *float64) error {
	if lat == nil && lng == nil {
		return nil
	}
	if lat == nil || lng == nil {
		return apperror.NewValidation("latitude and longitude must be supplied together")
	}
	if *lat < -90 || *lat > 90 {
		return apperror.NewValidation("latitude must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return apperror.NewValidation("longitude must be between -180 and 180")
	}
	return nil
}

// parseVisitDate parses a required "2006-01-02" date string.
func parseVisitDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperror.NewValidation("visit date is required")
	}
	visitDate, err := time.Parse(visitDateLayout, raw)
	if err != nil {
		return time.Time{}, apperror.NewValidation("visit date must be in YYYY-MM-DD format")
	}
	return visitDate, nil
}

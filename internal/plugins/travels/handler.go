package travels

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/apperror"
)

// Handler handles HTTP requests for travel records.
type Handler struct {
	service TravelService
}

// NewHandler creates a new travel handler.
func NewHandler(service TravelService) *Handler {
	return &Handler{service: service}
}

// ListTravels returns one page of travel records (GET /travels).
func (h *Handler) ListTravels(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	result, err := h.service.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// GetTravel returns a single travel record by ID (GET /travels/:id).
func (h *Handler) GetTravel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	travel, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, travel)
}

// CreateTravel records a new travel (POST /travels).
func (h *Handler) CreateTravel(c echo.Context) error {
	var req CreateTravelRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	travel, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, travel)
}

// UpdateTravel edits a travel record (PUT /travels/:id).
func (h *Handler) UpdateTravel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateTravelRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	travel, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, travel)
}

// DeleteTravel soft-deletes a travel record (DELETE /travels/:id).
func (h *Handler) DeleteTravel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequest("invalid " + name + " parameter")
	}
	return id, nil
}

package thoughts

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/apperror"
)

// Handler handles HTTP requests for thoughts.
type Handler struct {
	service ThoughtService
}

// NewHandler creates a new thought handler.
func NewHandler(service ThoughtService) *Handler {
	return &Handler{service: service}
}

// ListThoughts returns all thoughts, newest first (GET /thoughts).
func (h *Handler) ListThoughts(c echo.Context) error {
	list, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []Thought{}
	}
	return c.JSON(http.StatusOK, list)
}

// GetThought returns a single thought by ID (GET /thoughts/:id).
func (h *Handler) GetThought(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	thought, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, thought)
}

// CreateThought posts a new thought (POST /thoughts).
func (h *Handler) CreateThought(c echo.Context) error {
	var req CreateThoughtRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	thought, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, thought)
}

// UpdateThought edits a thought (PUT /thoughts/:id).
func (h *Handler) UpdateThought(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateThoughtRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	thought, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, thought)
}

// DeleteThought soft-deletes a thought (DELETE /thoughts/:id).
func (h *Handler) DeleteThought(c echo.Context) error {
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

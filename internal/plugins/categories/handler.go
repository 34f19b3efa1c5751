package categories

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/apperror"
)

// Handler handles HTTP requests for categories.
type Handler struct {
	service CategoryService
}

// NewHandler creates a new category handler.
func NewHandler(service CategoryService) *Handler {
	return &Handler{service: service}
}

// ListCategories returns one page of categories (GET /categories).
func (h *Handler) ListCategories(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	result, err := h.service.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// GetCategory returns a single category by ID (GET /categories/:id).
func (h *Handler) GetCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	category, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// GetCategoryBySlug returns a single category by slug (GET /categories/slug/:slug).
func (h *Handler) GetCategoryBySlug(c echo.Context) error {
	category, err := h.service.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory creates a new category (POST /categories).
func (h *Handler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	category, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory updates an existing category (PUT /categories/:id).
func (h *Handler) UpdateCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	category, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory soft-deletes a category (DELETE /categories/:id).
func (h *Handler) DeleteCategory(c echo.Context) error {
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

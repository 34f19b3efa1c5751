package projects

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/apperror"
)

// Handler handles HTTP requests for projects.
type Handler struct {
	service ProjectService
}

// NewHandler creates a new project handler.
func NewHandler(service ProjectService) *Handler {
	return &Handler{service: service}
}

// ListProjects returns all projects (GET /projects).
func (h *Handler) ListProjects(c echo.Context) error {
	list, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []Project{}
	}
	return c.JSON(http.StatusOK, list)
}

// GetProject returns a single project by ID (GET /projects/:id).
func (h *Handler) GetProject(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	project, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// CreateProject creates a new project (POST /projects).
func (h *Handler) CreateProject(c echo.Context) error {
	var req CreateProjectRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	project, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

// UpdateProject updates an existing project (PUT /projects/:id).
func (h *Handler) UpdateProject(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	project, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// DeleteProject soft-deletes a project (DELETE /projects/:id).
func (h *Handler) DeleteProject(c echo.Context) error {
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

package projects

import (
	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/plugins/auth"
)

// RegisterRoutes sets up all project routes on the given API group.
func RegisterRoutes(api *echo.Group, h *Handler, authSvc auth.AuthService) {
	admin := auth.RequireAuth(authSvc)

	api.GET("/projects", h.ListProjects)
	api.GET("/projects/:id", h.GetProject)

	api.POST("/projects", h.CreateProject, admin)
	api.PUT("/projects/:id", h.UpdateProject, admin)
	api.DELETE("/projects/:id", h.DeleteProject, admin)
}

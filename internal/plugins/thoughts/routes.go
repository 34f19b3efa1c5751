package thoughts

import (
	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/plugins/auth"
)

// RegisterRoutes sets up all thought routes on the given API group.
func RegisterRoutes(api *echo.Group, h *Handler, authSvc auth.AuthService) {
	admin := auth.RequireAuth(authSvc)

	api.GET("/thoughts", h.ListThoughts)
	api.GET("/thoughts/:id", h.GetThought)

	api.POST("/thoughts", h.CreateThought, admin)
	api.PUT("/thoughts/:id", h.UpdateThought, admin)
	api.DELETE("/thoughts/:id", h.DeleteThought, admin)
}

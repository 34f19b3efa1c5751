package categories

import (
	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/plugins/auth"
)

// RegisterRoutes sets up all category routes on the given API group.
func RegisterRoutes(api *echo.Group, h *Handler, authSvc auth.AuthService) {
	admin := auth.RequireAuth(authSvc)

	api.GET("/categories", h.ListCategories)
	api.GET("/categories/slug/:slug", h.GetCategoryBySlug)
	api.GET("/categories/:id", h.GetCategory)

	api.POST("/categories", h.CreateCategory, admin)
	api.PUT("/categories/:id", h.UpdateCategory, admin)
	api.DELETE("/categories/:id", h.DeleteCategory, admin)
}

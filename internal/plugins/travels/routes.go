package travels

import (
	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/plugins/auth"
)

// RegisterRoutes sets up all travel routes on the given API group.
func RegisterRoutes(api *echo.Group, h *Handler, authSvc auth.AuthService) {
	admin := auth.RequireAuth(authSvc)

	api.GET("/travels", h.ListTravels)
	api.GET("/travels/:id", h.GetTravel)

	api.POST("/travels", h.CreateTravel, admin)
	api.PUT("/travels/:id", h.UpdateTravel, admin)
	api.DELETE("/travels/:id", h.DeleteTravel, admin)
}

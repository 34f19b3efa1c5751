package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/middleware"
)

// RegisterRoutes sets up the auth routes on the given API group. Login is
// public but rate-limited to slow down brute-force and credential stuffing;
// logout and whoami require an active session.
func RegisterRoutes(api *echo.Group, h *Handler, service AuthService) {
	api.POST("/auth/login", h.Login, middleware.RateLimit(10, time.Minute))
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", h.Me, RequireAuth(service))
}

package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/apperror"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "inkwell_session"

// Handler handles HTTP requests for authentication (login, logout, whoami).
// Handlers are thin: they bind the request, call the service, and render the
// response. No business logic lives here.
type Handler struct {
	service    AuthService
	sessionTTL time.Duration
	secure     bool
}

// NewHandler creates a new auth handler. secure controls the cookie's
// Secure flag and should be true whenever the site is served over HTTPS.
func NewHandler(service AuthService, sessionTTL time.Duration, secure bool) *Handler {
	return &Handler{service: service, sessionTTL: sessionTTL, secure: secure}
}

// Login authenticates the admin and sets the session cookie
// (POST /auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	token, user, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, user)
}

// Logout destroys the session and clears the cookie (POST /auth/logout).
func (h *Handler) Logout(c echo.Context) error {
	if token := getSessionToken(c); token != "" {
		// Destroy the session in Redis. Ignore errors -- the cookie is
		// cleared regardless, so the client ends up logged out either way.
		_ = h.service.DestroySession(c.Request().Context(), token)
	}

	clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Me returns the current session (GET /auth/me). Mounted behind RequireAuth.
func (h *Handler) Me(c echo.Context) error {
	session := GetSession(c)
	if session == nil {
		return apperror.NewUnauthorized("authentication required")
	}
	return c.JSON(http.StatusOK, session)
}

// --- Cookie helpers ---

// setSessionCookie writes the session token cookie.
func (h *Handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

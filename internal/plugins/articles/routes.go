package articles

import (
	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/plugins/auth"
)

// RegisterRoutes sets up all article routes on the given API group. Read
// routes are public except the draft listing; every mutation requires an
// authenticated admin session.
func RegisterRoutes(api *echo.Group, h *Handler, authSvc auth.AuthService) {
	admin := auth.RequireAuth(authSvc)

	// Read routes -- public.
	api.GET("/articles", h.ListArticles)
	api.GET("/articles/slug/:slug", h.GetArticleBySlug)
	api.GET("/articles/:id", h.GetArticle)

	// Admin routes.
	api.GET("/articles/drafts", h.ListDrafts, admin)
	api.POST("/articles", h.CreateArticle, admin)
	api.PUT("/articles/:id", h.UpdateArticle, admin)
	api.DELETE("/articles/:id", h.DeleteArticle, admin)
	api.POST("/articles/:id/publish", h.PublishArticle, admin)
	api.POST("/articles/:id/unpublish", h.UnpublishArticle, admin)
	api.PUT("/articles/:id/tags", h.SetArticleTags, admin)
}

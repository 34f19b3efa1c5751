package tags

import (
	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/plugins/auth"
)

// RegisterRoutes sets up all tag and association routes on the given API
// group. Read routes are public; every mutation requires an authenticated
// admin session.
func RegisterRoutes(api *echo.Group, h *Handler, authSvc auth.AuthService) {
	admin := auth.RequireAuth(authSvc)

	// Read routes -- public.
	api.GET("/tags", h.ListTags)
	api.GET("/tags/popular", h.PopularTags)
	api.GET("/tags/slug/:slug", h.GetTagBySlug)
	api.GET("/tags/:id", h.GetTag)
	api.GET("/tags/:id/articles", h.GetTagArticles)
	api.GET("/articles/:id/tags", h.GetArticleTags)

	// Write routes -- admin only.
	api.POST("/tags", h.CreateTag, admin)
	api.PUT("/tags/:id", h.UpdateTag, admin)
	api.DELETE("/tags/:id", h.DeleteTag, admin)
	api.POST("/tags/usage/increment", h.IncrementUsage, admin)
	api.POST("/tags/usage/decrement", h.DecrementUsage, admin)
	api.POST("/articles/:id/tags", h.AddArticleTags, admin)
	api.DELETE("/articles/:id/tags", h.RemoveArticleTags, admin)

	// PUT /articles/:id/tags is owned by the articles plugin: replacing an
	// article's tag set from the editor also syncs the use counters.
}

package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/plugins/articles"
	"github.com/inkops/inkwell/internal/plugins/auth"
	"github.com/inkops/inkwell/internal/plugins/categories"
	"github.com/inkops/inkwell/internal/plugins/projects"
	"github.com/inkops/inkwell/internal/plugins/tags"
	"github.com/inkops/inkwell/internal/plugins/thoughts"
	"github.com/inkops/inkwell/internal/plugins/travels"
)

// RegisterRoutes builds every service from the shared infrastructure and
// registers all plugin routes under /api/v1. This is the single place where
// routes are aggregated; a new plugin gets wired here.
//
// It returns the auth service so main.go can bootstrap the admin account.
func (a *App) RegisterRoutes() auth.AuthService {
	e := a.Echo

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", a.healthz)

	api := e.Group("/api/v1")

	// auth
	userRepo := auth.NewUserRepository(a.DB)
	authSvc := auth.NewAuthService(userRepo, a.Redis, a.Config.Auth.SessionTTL)
	authHandler := auth.NewHandler(authSvc, a.Config.Auth.SessionTTL, !a.Config.IsDevelopment())
	auth.RegisterRoutes(api, authHandler, authSvc)

	// tags (CRUD, associations, use counters)
	tagRepo := tags.NewTagRepository(a.DB)
	relationRepo := tags.NewRelationRepository(a.DB)
	tagSvc := tags.NewTagService(tagRepo)
	relationSvc := tags.NewRelationService(relationRepo)
	tags.RegisterRoutes(api, tags.NewHandler(tagSvc, relationSvc), authSvc)

	// articles (composes the tag services for counter-synced tag sets)
	articleRepo := articles.NewArticleRepository(a.DB)
	articleSvc := articles.NewArticleService(articleRepo, tagSvc, relationSvc)
	articles.RegisterRoutes(api, articles.NewHandler(articleSvc), authSvc)

	// categories
	categoryRepo := categories.NewCategoryRepository(a.DB)
	categories.RegisterRoutes(api, categories.NewHandler(categories.NewCategoryService(categoryRepo)), authSvc)

	// projects
	projectRepo := projects.NewProjectRepository(a.DB)
	projects.RegisterRoutes(api, projects.NewHandler(projects.NewProjectService(projectRepo)), authSvc)

	// thoughts
	thoughtRepo := thoughts.NewThoughtRepository(a.DB)
	thoughts.RegisterRoutes(api, thoughts.NewHandler(thoughts.NewThoughtService(thoughtRepo)), authSvc)

	// travels
	travelRepo := travels.NewTravelRepository(a.DB)
	travels.RegisterRoutes(api, travels.NewHandler(travels.NewTravelService(travelRepo)), authSvc)

	return authSvc
}

// healthz reports liveness of the process and its two backing stores.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := a.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded", "database": err.Error(),
		})
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded", "redis": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

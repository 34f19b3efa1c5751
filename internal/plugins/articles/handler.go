package articles

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/apperror"
)

// Handler handles HTTP requests for articles.
type Handler struct {
	service ArticleService
}

// NewHandler creates a new article handler.
func NewHandler(service ArticleService) *Handler {
	return &Handler{service: service}
}

// ListArticles returns one page of published articles (GET /articles).
// Query params: page, pageSize, sort (create_time|update_time|view_count),
// category.
func (h *Handler) ListArticles(c echo.Context) error {
	opts := h.bindListOptions(c)
	opts.Status = StatusPublished

	page, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// ListDrafts returns one page of draft articles (GET /articles/drafts).
func (h *Handler) ListDrafts(c echo.Context) error {
	opts := h.bindListOptions(c)
	opts.Status = StatusDraft

	page, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// GetArticle returns a single article by ID (GET /articles/:id).
func (h *Handler) GetArticle(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	article, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// GetArticleBySlug returns a single article by slug and bumps its view
// counter (GET /articles/slug/:slug).
func (h *Handler) GetArticleBySlug(c echo.Context) error {
	article, err := h.service.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// CreateArticle creates a new article (POST /articles).
func (h *Handler) CreateArticle(c echo.Context) error {
	var req CreateArticleRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	article, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, article)
}

// UpdateArticle updates an existing article (PUT /articles/:id).
func (h *Handler) UpdateArticle(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateArticleRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	article, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// DeleteArticle soft-deletes an article (DELETE /articles/:id).
func (h *Handler) DeleteArticle(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PublishArticle publishes a draft (POST /articles/:id/publish).
func (h *Handler) PublishArticle(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Publish(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UnpublishArticle returns an article to draft (POST /articles/:id/unpublish).
func (h *Handler) UnpublishArticle(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Unpublish(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetArticleTags replaces the article's tag set and syncs the tag use
// counters (PUT /articles/:id/tags).
func (h *Handler) SetArticleTags(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req SetTagsRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	if err := h.service.SetTags(c.Request().Context(), id, req.TagIDs); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// bindListOptions reads pagination and ordering query parameters.
func (h *Handler) bindListOptions(c echo.Context) ListOptions {
	opts := DefaultListOptions()

	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if size, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && size > 0 {
		opts.PageSize = size
	}
	if sort := c.QueryParam("sort"); sort != "" {
		opts.Sort = SortKey(sort)
	}
	if category, err := strconv.ParseInt(c.QueryParam("category"), 10, 64); err == nil && category > 0 {
		opts.Category = category
	}

	return opts
}

// paramID parses a positive int64 path parameter.
func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequest("invalid " + name + " parameter")
	}
	return id, nil
}

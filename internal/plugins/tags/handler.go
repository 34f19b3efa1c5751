package tags

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkops/inkwell/internal/apperror"
)

// Handler handles HTTP requests for tag and association operations.
// Handlers are thin: bind request, call service, render response. No
// business logic lives here.
type Handler struct {
	tags      TagService
	relations RelationService
}

// NewHandler creates a new tag handler backed by the given services.
func NewHandler(tags TagService, relations RelationService) *Handler {
	return &Handler{tags: tags, relations: relations}
}

// ListTags returns all live tags as JSON (GET /tags).
func (h *Handler) ListTags(c echo.Context) error {
	list, err := h.tags.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	// Return empty array instead of null when no tags exist.
	if list == nil {
		list = []Tag{}
	}

	return c.JSON(http.StatusOK, list)
}

// PopularTags returns a popularity ranking (GET /tags/popular).
// ?by=use_count (default) ranks by the denormalized counter and returns
// full tag rows; ?by=articles ranks by live association count and returns
// tag IDs. The two rankings are independent and may disagree.
func (h *Handler) PopularTags(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	switch c.QueryParam("by") {
	case "", "use_count":
		list, err := h.tags.ListByUseCount(c.Request().Context(), limit)
		if err != nil {
			return err
		}
		if list == nil {
			list = []Tag{}
		}
		return c.JSON(http.StatusOK, list)

	case "articles":
		ids, err := h.relations.PopularTagIDs(c.Request().Context(), limit)
		if err != nil {
			return err
		}
		if ids == nil {
			ids = []int64{}
		}
		return c.JSON(http.StatusOK, map[string][]int64{"tagIds": ids})

	default:
		return apperror.NewBadRequest("unknown ranking: use by=use_count or by=articles")
	}
}

// GetTag returns a single tag by ID (GET /tags/:id).
func (h *Handler) GetTag(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	tag, err := h.tags.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

// GetTagBySlug returns a single tag by slug (GET /tags/slug/:slug).
func (h *Handler) GetTagBySlug(c echo.Context) error {
	tag, err := h.tags.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

// CreateTag creates a new tag (POST /tags).
func (h *Handler) CreateTag(c echo.Context) error {
	var req CreateTagRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	tag, err := h.tags.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tag)
}

// UpdateTag updates an existing tag (PUT /tags/:id).
func (h *Handler) UpdateTag(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateTagRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	tag, err := h.tags.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

// DeleteTag soft-deletes a tag (DELETE /tags/:id). The tag's associations
// are left in place but stop surfacing in reads.
func (h *Handler) DeleteTag(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.tags.SoftDelete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// IncrementUsage bumps use counters for a batch of tag IDs
// (POST /tags/usage/increment).
func (h *Handler) IncrementUsage(c echo.Context) error {
	var req TagIDsRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	if err := h.tags.IncrementUseCount(c.Request().Context(), req.TagIDs); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// DecrementUsage lowers use counters for a batch of tag IDs, floored at zero
// (POST /tags/usage/decrement).
func (h *Handler) DecrementUsage(c echo.Context) error {
	var req TagIDsRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	if err := h.tags.DecrementUseCount(c.Request().Context(), req.TagIDs); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetArticleTags lists the live tags attached to an article
// (GET /articles/:id/tags).
func (h *Handler) GetArticleTags(c echo.Context) error {
	articleID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	list, err := h.relations.TagsForArticle(c.Request().Context(), articleID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []Tag{}
	}
	return c.JSON(http.StatusOK, list)
}

// AddArticleTags attaches tags to an article (POST /articles/:id/tags).
// Already-attached tags are skipped; the call is idempotent.
func (h *Handler) AddArticleTags(c echo.Context) error {
	articleID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req TagIDsRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	if err := h.relations.AddTags(c.Request().Context(), articleID, req.TagIDs); err != nil {
		return err
	}
	return h.respondArticleTags(c, articleID)
}

// RemoveArticleTags detaches tags from an article (DELETE /articles/:id/tags).
// With a tagIds body the listed tags are removed; with an empty body every
// tag is removed. Removing a tag that isn't attached is not an error.
func (h *Handler) RemoveArticleTags(c echo.Context) error {
	articleID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	// An empty body is allowed here and means "remove everything".
	var req TagIDsRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return apperror.NewBadRequest("invalid JSON body")
	}

	ctx := c.Request().Context()
	if len(req.TagIDs) == 0 {
		if err := h.relations.RemoveAllForArticle(ctx, articleID); err != nil {
			return err
		}
	} else {
		if err := h.relations.RemoveTags(ctx, articleID, req.TagIDs); err != nil {
			return err
		}
	}
	return h.respondArticleTags(c, articleID)
}

// GetTagArticles lists the article IDs a tag is attached to
// (GET /tags/:id/articles).
func (h *Handler) GetTagArticles(c echo.Context) error {
	tagID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ids, err := h.relations.ArticleIDsForTag(c.Request().Context(), tagID)
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []int64{}
	}
	return c.JSON(http.StatusOK, map[string][]int64{"articleIds": ids})
}

// respondArticleTags renders the article's current tag set after a mutation.
func (h *Handler) respondArticleTags(c echo.Context, articleID int64) error {
	list, err := h.relations.TagsForArticle(c.Request().Context(), articleID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []Tag{}
	}
	return c.JSON(http.StatusOK, list)
}

// paramID parses a positive int64 path parameter.
func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequest("invalid " + name)
	}
	return id, nil
}

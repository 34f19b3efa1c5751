package articles

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/inkops/inkwell/internal/apperror"
	"github.com/inkops/inkwell/internal/sanitize"
)

const (
	maxTitleLen   = 120
	maxSummaryLen = 500
	maxSlugLen    = 120

	defaultPageSize = 10
	maxPageSize     = 50
)

// slugFormatPattern validates explicit article slugs: lowercase alphanumeric
// runs joined by single hyphens.
var slugFormatPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// slugReplacePattern matches runs of characters that become a hyphen during
// slug generation.
var slugReplacePattern = regexp.MustCompile(`[^a-z0-9]+`)

// ArticleService defines the business logic contract for articles.
type ArticleService interface {
	Create(ctx context.Context, req CreateArticleRequest) (*Article, error)
	Update(ctx context.Context, id int64, req UpdateArticleRequest) (*Article, error)

	// Delete soft-deletes the article, clears its tag associations, and
	// decrements the use counter of every tag that was attached.
	Delete(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (*Article, error)

	// GetBySlug retrieves an article for public reading and bumps its view
	// counter. A failed counter bump is logged, not surfaced.
	GetBySlug(ctx context.Context, slug string) (*Article, error)

	List(ctx context.Context, opts ListOptions) (*ArticlePage, error)

	// Publish transitions a draft to published. Publishing an already
	// published article is an idempotent success.
	Publish(ctx context.Context, id int64) error

	// Unpublish transitions an article back to draft.
	Unpublish(ctx context.Context, id int64) error

	// SetTags replaces the article's tag set and keeps the tag use counters
	// in step: tags entering the set are incremented, tags leaving it are
	// decremented, tags staying put are untouched.
	SetTags(ctx context.Context, articleID int64, tagIDs []int64) error
}

// TagCounter is the slice of the tags plugin that maintains the denormalized
// use counters. Satisfied by tags.TagService.
type TagCounter interface {
	IncrementUseCount(ctx context.Context, ids []int64) error
	DecrementUseCount(ctx context.Context, ids []int64) error
}

// TagRelations is the slice of the tags plugin that manages the article/tag
// association set. Satisfied by tags.RelationService.
type TagRelations interface {
	TagIDsForArticle(ctx context.Context, articleID int64) ([]int64, error)
	ReplaceTags(ctx context.Context, articleID int64, tagIDs []int64) error
	RemoveAllForArticle(ctx context.Context, articleID int64) error
}

// articleService implements ArticleService. It owns validation and slug
// handling and delegates tag-set changes to the tags plugin.
type articleService struct {
	repo      ArticleRepository
	tagSvc    TagCounter
	relations TagRelations
}

// NewArticleService creates an ArticleService with the given dependencies.
func NewArticleService(repo ArticleRepository, tagSvc TagCounter, relations TagRelations) ArticleService {
	return &articleService{
		repo:      repo,
		tagSvc:    tagSvc,
		relations: relations,
	}
}

// Create validates the request, derives a slug when absent, sanitizes the
// submitted HTML, and persists the article.
func (s *articleService) Create(ctx context.Context, req CreateArticleRequest) (*Article, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = generateSlug(title)
		if slug == "" {
			return nil, apperror.NewValidation("slug is required when the title has no latin characters")
		}
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	summary := strings.TrimSpace(req.Summary)
	if len(summary) > maxSummaryLen {
		return nil, apperror.NewValidation("summary must be at most 500 characters")
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	if status != StatusDraft && status != StatusPublished {
		return nil, apperror.NewValidation("status must be draft or published")
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	if taken, err := s.repo.SlugExists(ctx, slug, 0); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking article slug: %w", err))
	} else if taken {
		return nil, apperror.NewConflict("an article with this slug already exists")
	}

	article := &Article{
		CategoryID:  req.CategoryID,
		Title:       title,
		Slug:        slug,
		Summary:     summary,
		ContentMD:   req.ContentMD,
		ContentHTML: sanitize.HTML(req.ContentHTML),
		Status:      status,
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating article: %w", err))
	}

	return s.repo.FindByID(ctx, article.ID)
}

// Update applies the supplied fields to an existing article. Unsupplied
// (nil) fields keep their current value.
func (s *articleService) Update(ctx context.Context, id int64, req UpdateArticleRequest) (*Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		article.Title = title
	}

	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if err := validateSlug(slug); err != nil {
			return nil, err
		}
		if taken, err := s.repo.SlugExists(ctx, slug, id); err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("checking article slug: %w", err))
		} else if taken {
			return nil, apperror.NewConflict("an article with this slug already exists")
		}
		article.Slug = slug
	}

	if req.Summary != nil {
		summary := strings.TrimSpace(*req.Summary)
		if len(summary) > maxSummaryLen {
			return nil, apperror.NewValidation("summary must be at most 500 characters")
		}
		article.Summary = summary
	}

	if req.ContentMD != nil {
		article.ContentMD = *req.ContentMD
	}

	if req.ContentHTML != nil {
		article.ContentHTML = sanitize.HTML(*req.ContentHTML)
	}

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		article.CategoryID = req.CategoryID
	}

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

// Delete soft-deletes the article and unwinds its tag state: associations
// are removed and each previously attached tag's use counter drops by one.
func (s *articleService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidation("article id must be positive")
	}

	attached, err := s.relations.TagIDsForArticle(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	if err := s.relations.RemoveAllForArticle(ctx, id); err != nil {
		return err
	}
	if err := s.tagSvc.DecrementUseCount(ctx, attached); err != nil {
		return err
	}

	return nil
}

// GetByID retrieves an article without touching the view counter.
func (s *articleService) GetByID(ctx context.Context, id int64) (*Article, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("article id must be positive")
	}
	return s.repo.FindByID(ctx, id)
}

// GetBySlug retrieves an article for reading and bumps its view counter.
func (s *articleService) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperror.NewValidation("slug is required")
	}

	article, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViewCount(ctx, article.ID); err != nil {
		slog.Warn("failed to bump article view count",
			slog.Int64("article_id", article.ID),
			slog.Any("error", err),
		)
	} else {
		article.ViewCount++
	}

	return article, nil
}

// List returns one page of articles. Page size and sort key are normalized
// before reaching the repository.
func (s *articleService) List(ctx context.Context, opts ListOptions) (*ArticlePage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}
	if _, ok := sortColumns[opts.Sort]; !ok {
		opts.Sort = SortByCreateTime
	}
	if opts.Status != "" && opts.Status != StatusDraft && opts.Status != StatusPublished {
		return nil, apperror.NewValidation("status must be draft or published")
	}

	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if items == nil {
		items = []Article{}
	}

	return &ArticlePage{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}, nil
}

// Publish transitions an article to published.
func (s *articleService) Publish(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidation("article id must be positive")
	}
	return s.repo.UpdateStatus(ctx, id, StatusPublished)
}

// Unpublish transitions an article back to draft.
func (s *articleService) Unpublish(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidation("article id must be positive")
	}
	return s.repo.UpdateStatus(ctx, id, StatusDraft)
}

// SetTags replaces the article's tag set and adjusts the use counters by
// the diff. The replacement itself is transactional in the tags plugin; the
// counter adjustments follow it as separate single-statement updates, so a
// crash between the two leaves the counters behind by the diff rather than
// corrupting the association set.
func (s *articleService) SetTags(ctx context.Context, articleID int64, tagIDs []int64) error {
	if articleID <= 0 {
		return apperror.NewValidation("article id must be positive")
	}

	exists, err := s.repo.Exists(ctx, articleID)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("checking article existence: %w", err))
	}
	if !exists {
		return apperror.NewNotFound("article not found")
	}

	current, err := s.relations.TagIDsForArticle(ctx, articleID)
	if err != nil {
		return err
	}

	if err := s.relations.ReplaceTags(ctx, articleID, tagIDs); err != nil {
		return err
	}

	added, removed := diffIDs(current, tagIDs)
	if err := s.tagSvc.IncrementUseCount(ctx, added); err != nil {
		return err
	}
	if err := s.tagSvc.DecrementUseCount(ctx, removed); err != nil {
		return err
	}

	return nil
}

// checkCategory validates an optional category reference.
func (s *articleService) checkCategory(ctx context.Context, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	if *categoryID <= 0 {
		return apperror.NewValidation("category id must be positive")
	}
	exists, err := s.repo.CategoryExists(ctx, *categoryID)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("checking category: %w", err))
	}
	if !exists {
		return apperror.NewValidation("category does not exist")
	}
	return nil
}

// diffIDs returns the IDs present in next but not in prev (added) and the
// IDs present in prev but not in next (removed). Duplicates in either input
// count once.
func diffIDs(prev, next []int64) (added, removed []int64) {
	prevSet := make(map[int64]bool, len(prev))
	for _, id := range prev {
		prevSet[id] = true
	}
	nextSet := make(map[int64]bool, len(next))
	for _, id := range next {
		nextSet[id] = true
	}

	emitted := make(map[int64]bool, len(next))
	for _, id := range next {
		if !prevSet[id] && !emitted[id] {
			emitted[id] = true
			added = append(added, id)
		}
	}
	// prev comes from the association table, which holds each pair once.
	for _, id := range prev {
		if !nextSet[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// validateTitle checks the article title.
func validateTitle(title string) error {
	if title == "" {
		return apperror.NewValidation("article title is required")
	}
	if len(title) > maxTitleLen {
		return apperror.NewValidation("article title must be at most 120 characters")
	}
	return nil
}

// validateSlug checks the slug format and length.
func validateSlug(slug string) error {
	if slug == "" {
		return apperror.NewValidation("article slug is required")
	}
	if len(slug) > maxSlugLen {
		return apperror.NewValidation("article slug must be at most 120 characters")
	}
	if !slugFormatPattern.MatchString(slug) {
		return apperror.NewValidation("article slug must be lowercase letters, digits, and single hyphens")
	}
	return nil
}

// generateSlug creates a URL-safe slug from a title. Returns "" when nothing
// survives (e.g. a fully CJK title).
func generateSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugReplacePattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}

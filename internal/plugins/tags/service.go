package tags

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/inkops/inkwell/internal/apperror"
)

// namePattern allows 1-20 letters, digits, CJK characters, underscores, or
// hyphens. Rune classes make the length limit count characters, not bytes.
var namePattern = regexp.MustCompile(`^[0-9A-Za-z\p{Han}\p{Hiragana}\p{Katakana}\p{Hangul}_-]{1,20}$`)

// slugFormatPattern enforces lowercase letters/digits/hyphens with no
// leading, trailing, or doubled hyphen. Length is checked separately.
var slugFormatPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// hexColorPattern validates #RGB and #RRGGBB color strings.
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// slugReplacePattern matches one or more non-alphanumeric characters for
// slug generation.
var slugReplacePattern = regexp.MustCompile(`[^a-z0-9]+`)

// maxSlugLen is the maximum slug length in characters.
const maxSlugLen = 50

// namedColors is the closed set of accepted CSS color keywords for tags
// that don't use a hex value.
var namedColors = map[string]bool{
	"black": true, "silver": true, "gray": true, "white": true,
	"maroon": true, "red": true, "purple": true, "fuchsia": true,
	"green": true, "lime": true, "olive": true, "yellow": true,
	"navy": true, "blue": true, "teal": true, "aqua": true,
	"orange": true, "pink": true, "brown": true, "cyan": true,
}

// TagService defines the business logic contract for tag operations.
// Handlers call these methods -- they never touch the repository directly.
type TagService interface {
	// Create validates input, checks name/slug uniqueness among non-deleted
	// tags, and creates a new tag with use_count 0.
	Create(ctx context.Context, req CreateTagRequest) (*Tag, error)

	// Update re-validates each supplied field and, for name/slug, re-checks
	// uniqueness excluding the tag's own row.
	Update(ctx context.Context, id int64, req UpdateTagRequest) (*Tag, error)

	// SoftDelete marks a tag deleted. Its association rows are left alone;
	// read paths filter them out.
	SoftDelete(ctx context.Context, id int64) error

	// GetByID retrieves a single live tag.
	GetByID(ctx context.Context, id int64) (*Tag, error)

	// GetBySlug retrieves a single live tag by slug.
	GetBySlug(ctx context.Context, slug string) (*Tag, error)

	// ListAll returns all live tags.
	ListAll(ctx context.Context) ([]Tag, error)

	// ListByUseCount returns the top limit tags ranked by the use counter.
	// Non-positive limits fall back to the default.
	ListByUseCount(ctx context.Context, limit int) ([]Tag, error)

	// ExistsByName reports whether a live tag with the name exists.
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsBySlug reports whether a live tag with the slug exists.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// IncrementUseCount bumps the use counter for each tag in ids. IDs with
	// no live tag are skipped silently; empty input is a no-op.
	IncrementUseCount(ctx context.Context, ids []int64) error

	// DecrementUseCount lowers the use counter for each tag in ids,
	// clamping at zero. Same no-op semantics as IncrementUseCount.
	DecrementUseCount(ctx context.Context, ids []int64) error
}

// defaultPopularLimit replaces non-positive limits on popularity queries.
const defaultPopularLimit = 10

// maxPopularLimit caps popularity queries so a caller can't page the whole table.
const maxPopularLimit = 100

// tagService implements TagService with validation and slug generation.
type tagService struct {
	repo TagRepository
}

// NewTagService creates a new TagService backed by the given repository.
func NewTagService(repo TagRepository) TagService {
	return &tagService{repo: repo}
}

// Create validates the name, slug, and color, checks uniqueness, and
// persists the new tag. An empty slug is derived from the name (lowercase,
// hyphens replace non-alphanumeric runs); names with no ASCII content must
// supply a slug explicitly.
func (s *tagService) Create(ctx context.Context, req CreateTagRequest) (*Tag, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = generateSlug(name)
		if slug == "" {
			return nil, apperror.NewValidation("slug is required when the name has no latin characters")
		}
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	color, err := normalizeColor(req.Color)
	if err != nil {
		return nil, err
	}

	if taken, err := s.repo.NameExists(ctx, name, 0); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking tag name: %w", err))
	} else if taken {
		return nil, apperror.NewConflict("a tag with this name already exists")
	}

	if taken, err := s.repo.SlugExists(ctx, slug, 0); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking tag slug: %w", err))
	} else if taken {
		return nil, apperror.NewConflict("a tag with this slug already exists")
	}

	tag := &Tag{
		Name:  name,
		Slug:  slug,
		Color: color,
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating tag: %w", err))
	}

	return s.repo.FindByID(ctx, tag.ID)
}

// Update applies the supplied fields to an existing tag. Unsupplied (nil)
// fields keep their current value.
func (s *tagService) Update(ctx context.Context, id int64, req UpdateTagRequest) (*Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		if taken, err := s.repo.NameExists(ctx, name, id); err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("checking tag name: %w", err))
		} else if taken {
			return nil, apperror.NewConflict("a tag with this name already exists")
		}
		tag.Name = name
	}

	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if err := validateSlug(slug); err != nil {
			return nil, err
		}
		if taken, err := s.repo.SlugExists(ctx, slug, id); err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("checking tag slug: %w", err))
		} else if taken {
			return nil, apperror.NewConflict("a tag with this slug already exists")
		}
		tag.Slug = slug
	}

	if req.Color != nil {
		color, err := normalizeColor(*req.Color)
		if err != nil {
			return nil, err
		}
		tag.Color = color
	}

	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

// SoftDelete marks the tag deleted. By design it does not check or block on
// outstanding associations.
func (s *tagService) SoftDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidation("tag id must be positive")
	}
	return s.repo.SoftDelete(ctx, id)
}

// GetByID retrieves a single live tag by its primary key.
func (s *tagService) GetByID(ctx context.Context, id int64) (*Tag, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("tag id must be positive")
	}
	return s.repo.FindByID(ctx, id)
}

// GetBySlug retrieves a single live tag by slug.
func (s *tagService) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperror.NewValidation("slug is required")
	}
	return s.repo.FindBySlug(ctx, slug)
}

// ListAll returns every live tag.
func (s *tagService) ListAll(ctx context.Context) ([]Tag, error) {
	return s.repo.ListAll(ctx)
}

// ListByUseCount returns the top tags ranked by the denormalized counter.
func (s *tagService) ListByUseCount(ctx context.Context, limit int) ([]Tag, error) {
	return s.repo.ListByUseCount(ctx, clampLimit(limit))
}

// ExistsByName reports live-tag name existence.
func (s *tagService) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.repo.NameExists(ctx, strings.TrimSpace(name), 0)
}

// ExistsBySlug reports live-tag slug existence.
func (s *tagService) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return s.repo.SlugExists(ctx, strings.TrimSpace(slug), 0)
}

// IncrementUseCount bumps the counters for the given tag IDs.
func (s *tagService) IncrementUseCount(ctx context.Context, ids []int64) error {
	ids, err := normalizeIDBatch(ids)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.repo.IncrementUseCount(ctx, ids); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// DecrementUseCount lowers the counters for the given tag IDs, floored at zero.
func (s *tagService) DecrementUseCount(ctx context.Context, ids []int64) error {
	ids, err := normalizeIDBatch(ids)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.repo.DecrementUseCount(ctx, ids); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// --- Validation helpers ---

// validateName checks the tag name format and length.
func validateName(name string) error {
	if name == "" {
		return apperror.NewValidation("tag name is required")
	}
	if !namePattern.MatchString(name) {
		return apperror.NewValidation("tag name must be 1-20 letters, digits, CJK characters, underscores, or hyphens")
	}
	return nil
}

// validateSlug checks the slug format and length.
func validateSlug(slug string) error {
	if slug == "" {
		return apperror.NewValidation("tag slug is required")
	}
	if len(slug) > maxSlugLen {
		return apperror.NewValidation("tag slug must be at most 50 characters")
	}
	if !slugFormatPattern.MatchString(slug) {
		return apperror.NewValidation("tag slug must be lowercase letters, digits, and single hyphens")
	}
	return nil
}

// normalizeColor validates the optional display color: empty, #RGB/#RRGGBB
// hex, or one of the accepted CSS color keywords (lowercased on the way in).
func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return "", nil
	}
	if hexColorPattern.MatchString(color) {
		return strings.ToLower(color), nil
	}
	lower := strings.ToLower(color)
	if namedColors[lower] {
		return lower, nil
	}
	return "", apperror.NewValidation("color must be a hex value (e.g. #ff5733) or a known color name")
}

// normalizeIDBatch rejects non-positive IDs and de-duplicates the batch
// while preserving order.
func normalizeIDBatch(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, apperror.NewValidation("tag ids must be positive")
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// clampLimit replaces non-positive limits with the default and caps the rest.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPopularLimit
	}
	if limit > maxPopularLimit {
		return maxPopularLimit
	}
	return limit
}

// generateSlug creates a URL-safe slug from a tag name. Converts to
// lowercase, replaces sequences of non-alphanumeric characters with a single
// hyphen, and trims leading/trailing hyphens. Returns "" when nothing
// survives (e.g. a fully CJK name).
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugReplacePattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}

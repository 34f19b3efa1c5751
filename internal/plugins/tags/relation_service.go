package tags

import (
	"context"
	"fmt"

	"github.com/inkops/inkwell/internal/apperror"
)

// RelationService orchestrates the article/tag association set. It owns the
// de-duplication and existence checks that keep (article, tag) pairs unique,
// but holds no state of its own; concurrent calls are safe because every
// multi-row mutation runs inside a repository transaction and the join table
// carries a unique index as a backstop.
//
// None of these operations touch the tag use counter. Callers that want the
// counter adjusted pair these calls with TagService.IncrementUseCount /
// DecrementUseCount (see the articles plugin).
type RelationService interface {
	// AddTags attaches the given tags to the article. Tags already attached
	// are skipped; attaching an identical set twice is an idempotent
	// success. An empty tagIDs is a no-op success.
	AddTags(ctx context.Context, articleID int64, tagIDs []int64) error

	// RemoveTags detaches the given tags from the article. Detaching a pair
	// that doesn't exist is not an error.
	RemoveTags(ctx context.Context, articleID int64, tagIDs []int64) error

	// ReplaceTags makes the article's association set exactly tagIDs. The
	// whole set is deleted and rewritten, so every retained tag gets a
	// fresh association timestamp.
	ReplaceTags(ctx context.Context, articleID int64, tagIDs []int64) error

	// RemoveAllForArticle detaches every tag from the article. Succeeds
	// even when the article has no tags.
	RemoveAllForArticle(ctx context.Context, articleID int64) error

	// RemoveAllForTag detaches the tag from every article. Succeeds even
	// when the tag has no articles.
	RemoveAllForTag(ctx context.Context, tagID int64) error

	// TagIDsForArticle lists the live tags attached to an article.
	TagIDsForArticle(ctx context.Context, articleID int64) ([]int64, error)

	// TagsForArticle lists the live tags attached to an article as full rows.
	TagsForArticle(ctx context.Context, articleID int64) ([]Tag, error)

	// ArticleIDsForTag lists the articles a tag is attached to.
	ArticleIDsForTag(ctx context.Context, tagID int64) ([]int64, error)

	// ExistsRelation reports whether the (article, tag) pair is present.
	ExistsRelation(ctx context.Context, articleID, tagID int64) (bool, error)

	// CountTagsForArticle counts the live tags attached to an article.
	CountTagsForArticle(ctx context.Context, articleID int64) (int64, error)

	// CountArticlesForTag counts the articles a tag is attached to.
	CountArticlesForTag(ctx context.Context, tagID int64) (int64, error)

	// PopularTagIDs ranks tags by live association count, descending.
	// Non-positive limits fall back to the default of 10.
	PopularTagIDs(ctx context.Context, limit int) ([]int64, error)
}

// relationService implements RelationService on top of RelationRepository.
type relationService struct {
	repo RelationRepository
}

// NewRelationService creates a RelationService backed by the given repository.
func NewRelationService(repo RelationRepository) RelationService {
	return &relationService{repo: repo}
}

// AddTags de-duplicates the batch, drops pairs that already exist, and
// bulk-inserts the remainder with one shared timestamp. The read-before-
// write existence check is evaluated per call; a concurrent writer that
// races past it is absorbed by the join table's unique index.
func (s *relationService) AddTags(ctx context.Context, articleID int64, tagIDs []int64) error {
	if articleID <= 0 {
		return apperror.NewValidation("article id must be positive")
	}

	tagIDs, err := normalizeIDBatch(tagIDs)
	if err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	// Drop pairs that are already attached.
	toInsert := make([]int64, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		exists, err := s.repo.Exists(ctx, articleID, tagID)
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("checking association: %w", err))
		}
		if !exists {
			toInsert = append(toInsert, tagID)
		}
	}

	// Everything already attached: idempotent success.
	if len(toInsert) == 0 {
		return nil
	}

	if _, err := s.repo.InsertPairs(ctx, articleID, toInsert); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// RemoveTags deletes the matching pairs. Zero rows removed is still success.
func (s *relationService) RemoveTags(ctx context.Context, articleID int64, tagIDs []int64) error {
	if articleID <= 0 {
		return apperror.NewValidation("article id must be positive")
	}

	tagIDs, err := normalizeIDBatch(tagIDs)
	if err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	if _, err := s.repo.DeleteByArticleAndTags(ctx, articleID, tagIDs); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// ReplaceTags unconditionally clears the article's set and inserts the new
// one in a single repository transaction.
func (s *relationService) ReplaceTags(ctx context.Context, articleID int64, tagIDs []int64) error {
	if articleID <= 0 {
		return apperror.NewValidation("article id must be positive")
	}

	tagIDs, err := normalizeIDBatch(tagIDs)
	if err != nil {
		return err
	}

	if err := s.repo.ReplaceForArticle(ctx, articleID, tagIDs); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// RemoveAllForArticle clears an article's association set.
func (s *relationService) RemoveAllForArticle(ctx context.Context, articleID int64) error {
	if articleID <= 0 {
		return apperror.NewValidation("article id must be positive")
	}
	if _, err := s.repo.DeleteByArticle(ctx, articleID); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// RemoveAllForTag detaches a tag everywhere. Used when a tag's associations
// should be cleaned up independently of the tag row itself.
func (s *relationService) RemoveAllForTag(ctx context.Context, tagID int64) error {
	if tagID <= 0 {
		return apperror.NewValidation("tag id must be positive")
	}
	if _, err := s.repo.DeleteByTag(ctx, tagID); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// TagIDsForArticle lists live tag IDs for an article.
func (s *relationService) TagIDsForArticle(ctx context.Context, articleID int64) ([]int64, error) {
	if articleID <= 0 {
		return nil, apperror.NewValidation("article id must be positive")
	}
	ids, err := s.repo.TagIDsForArticle(ctx, articleID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return ids, nil
}

// TagsForArticle lists live tags for an article as full rows.
func (s *relationService) TagsForArticle(ctx context.Context, articleID int64) ([]Tag, error) {
	if articleID <= 0 {
		return nil, apperror.NewValidation("article id must be positive")
	}
	tags, err := s.repo.TagsForArticle(ctx, articleID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return tags, nil
}

// ArticleIDsForTag lists article IDs for a tag.
func (s *relationService) ArticleIDsForTag(ctx context.Context, tagID int64) ([]int64, error) {
	if tagID <= 0 {
		return nil, apperror.NewValidation("tag id must be positive")
	}
	ids, err := s.repo.ArticleIDsForTag(ctx, tagID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return ids, nil
}

// ExistsRelation reports pair existence.
func (s *relationService) ExistsRelation(ctx context.Context, articleID, tagID int64) (bool, error) {
	if articleID <= 0 {
		return false, apperror.NewValidation("article id must be positive")
	}
	if tagID <= 0 {
		return false, apperror.NewValidation("tag id must be positive")
	}
	return s.repo.Exists(ctx, articleID, tagID)
}

// CountTagsForArticle counts live tags on an article.
func (s *relationService) CountTagsForArticle(ctx context.Context, articleID int64) (int64, error) {
	if articleID <= 0 {
		return 0, apperror.NewValidation("article id must be positive")
	}
	return s.repo.CountByArticle(ctx, articleID)
}

// CountArticlesForTag counts articles carrying a tag.
func (s *relationService) CountArticlesForTag(ctx context.Context, tagID int64) (int64, error) {
	if tagID <= 0 {
		return 0, apperror.NewValidation("tag id must be positive")
	}
	return s.repo.CountByTag(ctx, tagID)
}

// PopularTagIDs delegates to the live-association ranking. This ranking and
// the use-count ranking (TagService.ListByUseCount) are independent and can
// diverge, since nothing forces the counter to track the association set.
func (s *relationService) PopularTagIDs(ctx context.Context, limit int) ([]int64, error) {
	ids, err := s.repo.PopularTagIDs(ctx, clampLimit(limit))
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return ids, nil
}

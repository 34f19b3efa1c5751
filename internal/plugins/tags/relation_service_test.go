package tags

import (
	"context"
	"errors"
	"testing"
)

// --- Mock Repository ---

// mockRelationRepo implements RelationRepository for testing.
type mockRelationRepo struct {
	existsFn                 func(ctx context.Context, articleID, tagID int64) (bool, error)
	insertPairsFn            func(ctx context.Context, articleID int64, tagIDs []int64) (int64, error)
	replaceForArticleFn      func(ctx context.Context, articleID int64, tagIDs []int64) error
	deleteByArticleFn        func(ctx context.Context, articleID int64) (int64, error)
	deleteByTagFn            func(ctx context.Context, tagID int64) (int64, error)
	deleteByArticleAndTagsFn func(ctx context.Context, articleID int64, tagIDs []int64) (int64, error)
	tagIDsForArticleFn       func(ctx context.Context, articleID int64) ([]int64, error)
	tagsForArticleFn         func(ctx context.Context, articleID int64) ([]Tag, error)
	articleIDsForTagFn       func(ctx context.Context, tagID int64) ([]int64, error)
	countByArticleFn         func(ctx context.Context, articleID int64) (int64, error)
	countByTagFn             func(ctx context.Context, tagID int64) (int64, error)
	popularTagIDsFn          func(ctx context.Context, limit int) ([]int64, error)
}

func (m *mockRelationRepo) Exists(ctx context.Context, articleID, tagID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, articleID, tagID)
	}
	return false, nil
}

func (m *mockRelationRepo) InsertPairs(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
	if m.insertPairsFn != nil {
		return m.insertPairsFn(ctx, articleID, tagIDs)
	}
	return int64(len(tagIDs)), nil
}

func (m *mockRelationRepo) ReplaceForArticle(ctx context.Context, articleID int64, tagIDs []int64) error {
	if m.replaceForArticleFn != nil {
		return m.replaceForArticleFn(ctx, articleID, tagIDs)
	}
	return nil
}

func (m *mockRelationRepo) DeleteByArticle(ctx context.Context, articleID int64) (int64, error) {
	if m.deleteByArticleFn != nil {
		return m.deleteByArticleFn(ctx, articleID)
	}
	return 0, nil
}

func (m *mockRelationRepo) DeleteByTag(ctx context.Context, tagID int64) (int64, error) {
	if m.deleteByTagFn != nil {
		return m.deleteByTagFn(ctx, tagID)
	}
	return 0, nil
}

func (m *mockRelationRepo) DeleteByArticleAndTags(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
	if m.deleteByArticleAndTagsFn != nil {
		return m.deleteByArticleAndTagsFn(ctx, articleID, tagIDs)
	}
	return 0, nil
}

func (m *mockRelationRepo) TagIDsForArticle(ctx context.Context, articleID int64) ([]int64, error) {
	if m.tagIDsForArticleFn != nil {
		return m.tagIDsForArticleFn(ctx, articleID)
	}
	return nil, nil
}

func (m *mockRelationRepo) TagsForArticle(ctx context.Context, articleID int64) ([]Tag, error) {
	if m.tagsForArticleFn != nil {
		return m.tagsForArticleFn(ctx, articleID)
	}
	return nil, nil
}

func (m *mockRelationRepo) ArticleIDsForTag(ctx context.Context, tagID int64) ([]int64, error) {
	if m.articleIDsForTagFn != nil {
		return m.articleIDsForTagFn(ctx, tagID)
	}
	return nil, nil
}

func (m *mockRelationRepo) CountByArticle(ctx context.Context, articleID int64) (int64, error) {
	if m.countByArticleFn != nil {
		return m.countByArticleFn(ctx, articleID)
	}
	return 0, nil
}

func (m *mockRelationRepo) CountByTag(ctx context.Context, tagID int64) (int64, error) {
	if m.countByTagFn != nil {
		return m.countByTagFn(ctx, tagID)
	}
	return 0, nil
}

func (m *mockRelationRepo) PopularTagIDs(ctx context.Context, limit int) ([]int64, error) {
	if m.popularTagIDsFn != nil {
		return m.popularTagIDsFn(ctx, limit)
	}
	return nil, nil
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- AddTags Tests ---

func TestAddTags_SkipsExistingPairs(t *testing.T) {
	attached := map[int64]bool{2: true}
	var inserted []int64
	repo := &mockRelationRepo{
		existsFn: func(ctx context.Context, articleID, tagID int64) (bool, error) {
			return attached[tagID], nil
		},
		insertPairsFn: func(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
			inserted = tagIDs
			return int64(len(tagIDs)), nil
		},
	}

	svc := NewRelationService(repo)
	if err := svc.AddTags(context.Background(), 10, []int64{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(inserted, []int64{1, 3}) {
		t.Errorf("expected inserts [1 3], got %v", inserted)
	}
}

func TestAddTags_AllAttachedIsIdempotentSuccess(t *testing.T) {
	insertCalled := false
	repo := &mockRelationRepo{
		existsFn: func(ctx context.Context, articleID, tagID int64) (bool, error) {
			return true, nil
		},
		insertPairsFn: func(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
			insertCalled = true
			return 0, nil
		},
	}

	svc := NewRelationService(repo)
	if err := svc.AddTags(context.Background(), 10, []int64{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insertCalled {
		t.Error("no insert should happen when every pair already exists")
	}
}

func TestAddTags_DeduplicatesInput(t *testing.T) {
	var inserted []int64
	repo := &mockRelationRepo{
		insertPairsFn: func(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
			inserted = tagIDs
			return int64(len(tagIDs)), nil
		},
	}

	svc := NewRelationService(repo)
	if err := svc.AddTags(context.Background(), 10, []int64{4, 4, 5, 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(inserted, []int64{4, 5}) {
		t.Errorf("expected inserts [4 5], got %v", inserted)
	}
}

func TestAddTags_EmptyBatchIsNoop(t *testing.T) {
	insertCalled := false
	repo := &mockRelationRepo{
		insertPairsFn: func(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
			insertCalled = true
			return 0, nil
		},
	}

	svc := NewRelationService(repo)
	if err := svc.AddTags(context.Background(), 10, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insertCalled {
		t.Error("repository should not be touched for an empty batch")
	}
}

func TestAddTags_InvalidArticleID(t *testing.T) {
	svc := NewRelationService(&mockRelationRepo{})
	assertAppError(t, svc.AddTags(context.Background(), 0, []int64{1}), 422)
}

func TestAddTags_InvalidTagID(t *testing.T) {
	svc := NewRelationService(&mockRelationRepo{})
	assertAppError(t, svc.AddTags(context.Background(), 10, []int64{1, -1}), 422)
}

func TestAddTags_RepositoryFailure(t *testing.T) {
	repo := &mockRelationRepo{
		insertPairsFn: func(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
			return 0, errors.New("connection reset")
		},
	}

	svc := NewRelationService(repo)
	assertAppError(t, svc.AddTags(context.Background(), 10, []int64{1}), 500)
}

// --- RemoveTags Tests ---

func TestRemoveTags_MissingPairsStillSucceed(t *testing.T) {
	repo := &mockRelationRepo{
		deleteByArticleAndTagsFn: func(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
			return 0, nil
		},
	}

	svc := NewRelationService(repo)
	if err := svc.RemoveTags(context.Background(), 10, []int64{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemoveTags_PassesNormalizedBatch(t *testing.T) {
	var captured []int64
	repo := &mockRelationRepo{
		deleteByArticleAndTagsFn: func(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
			captured = tagIDs
			return int64(len(tagIDs)), nil
		},
	}

	svc := NewRelationService(repo)
	if err := svc.RemoveTags(context.Background(), 10, []int64{3, 3, 8}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(captured, []int64{3, 8}) {
		t.Errorf("expected [3 8], got %v", captured)
	}
}

func TestRemoveTags_EmptyBatchIsNoop(t *testing.T) {
	called := false
	repo := &mockRelationRepo{
		deleteByArticleAndTagsFn: func(ctx context.Context, articleID int64, tagIDs []int64) (int64, error) {
			called = true
			return 0, nil
		},
	}

	svc := NewRelationService(repo)
	if err := svc.RemoveTags(context.Background(), 10, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("repository should not be touched for an empty batch")
	}
}

// --- ReplaceTags Tests ---

func TestReplaceTags_ForwardsExactSet(t *testing.T) {
	var gotArticle int64
	var gotTags []int64
	repo := &mockRelationRepo{
		replaceForArticleFn: func(ctx context.Context, articleID int64, tagIDs []int64) error {
			gotArticle = articleID
			gotTags = tagIDs
			return nil
		},
	}

	svc := NewRelationService(repo)
	if err := svc.ReplaceTags(context.Background(), 10, []int64{7, 7, 9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotArticle != 10 {
		t.Errorf("expected article 10, got %d", gotArticle)
	}
	if !equalIDs(gotTags, []int64{7, 9}) {
		t.Errorf("expected [7 9], got %v", gotTags)
	}
}

func TestReplaceTags_EmptySetClearsArticle(t *testing.T) {
	var gotTags []int64
	called := false
	repo := &mockRelationRepo{
		replaceForArticleFn: func(ctx context.Context, articleID int64, tagIDs []int64) error {
			called = true
			gotTags = tagIDs
			return nil
		},
	}

	svc := NewRelationService(repo)
	if err := svc.ReplaceTags(context.Background(), 10, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected replace to run even with an empty set")
	}
	if len(gotTags) != 0 {
		t.Errorf("expected empty set, got %v", gotTags)
	}
}

// --- Remove-all / Lookup Tests ---

func TestRemoveAllForArticle_InvalidID(t *testing.T) {
	svc := NewRelationService(&mockRelationRepo{})
	assertAppError(t, svc.RemoveAllForArticle(context.Background(), -5), 422)
}

func TestRemoveAllForTag_Success(t *testing.T) {
	var gotTag int64
	repo := &mockRelationRepo{
		deleteByTagFn: func(ctx context.Context, tagID int64) (int64, error) {
			gotTag = tagID
			return 4, nil
		},
	}

	svc := NewRelationService(repo)
	if err := svc.RemoveAllForTag(context.Background(), 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTag != 6 {
		t.Errorf("expected tag 6, got %d", gotTag)
	}
}

func TestExistsRelation_Validation(t *testing.T) {
	svc := NewRelationService(&mockRelationRepo{})
	if _, err := svc.ExistsRelation(context.Background(), 0, 1); err == nil {
		t.Error("expected error for article id 0")
	}
	if _, err := svc.ExistsRelation(context.Background(), 1, 0); err == nil {
		t.Error("expected error for tag id 0")
	}
}

func TestPopularTagIDs_ClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockRelationRepo{
		popularTagIDsFn: func(ctx context.Context, limit int) ([]int64, error) {
			gotLimit = limit
			return []int64{3, 1, 2}, nil
		},
	}

	svc := NewRelationService(repo)
	ids, err := svc.PopularTagIDs(context.Background(), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != defaultPopularLimit {
		t.Errorf("expected default limit %d, got %d", defaultPopularLimit, gotLimit)
	}
	if !equalIDs(ids, []int64{3, 1, 2}) {
		t.Errorf("unexpected ranking order: %v", ids)
	}
}

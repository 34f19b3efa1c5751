package articles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkops/inkwell/internal/apperror"
)

// --- Mock Repository ---

// mockArticleRepo implements ArticleRepository for testing.
type mockArticleRepo struct {
	createFn             func(ctx context.Context, article *Article) error
	findByIDFn           func(ctx context.Context, id int64) (*Article, error)
	findBySlugFn         func(ctx context.Context, slug string) (*Article, error)
	listFn               func(ctx context.Context, opts ListOptions) ([]Article, int, error)
	updateFn             func(ctx context.Context, article *Article) error
	updateStatusFn       func(ctx context.Context, id int64, status string) error
	softDeleteFn         func(ctx context.Context, id int64) error
	slugExistsFn         func(ctx context.Context, slug string, excludeID int64) (bool, error)
	existsFn             func(ctx context.Context, id int64) (bool, error)
	incrementViewCountFn func(ctx context.Context, id int64) error
	categoryExistsFn     func(ctx context.Context, id int64) (bool, error)
}

func (m *mockArticleRepo) Create(ctx context.Context, article *Article) error {
	if m.createFn != nil {
		return m.createFn(ctx, article)
	}
	return nil
}

func (m *mockArticleRepo) FindByID(ctx context.Context, id int64) (*Article, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("article not found")
}

func (m *mockArticleRepo) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, apperror.NewNotFound("article not found")
}

func (m *mockArticleRepo) List(ctx context.Context, opts ListOptions) ([]Article, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, opts)
	}
	return nil, 0, nil
}

func (m *mockArticleRepo) Update(ctx context.Context, article *Article) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, article)
	}
	return nil
}

func (m *mockArticleRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockArticleRepo) SoftDelete(ctx context.Context, id int64) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, id)
	}
	return nil
}

func (m *mockArticleRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	if m.slugExistsFn != nil {
		return m.slugExistsFn(ctx, slug, excludeID)
	}
	return false, nil
}

func (m *mockArticleRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

func (m *mockArticleRepo) IncrementViewCount(ctx context.Context, id int64) error {
	if m.incrementViewCountFn != nil {
		return m.incrementViewCountFn(ctx, id)
	}
	return nil
}

func (m *mockArticleRepo) CategoryExists(ctx context.Context, id int64) (bool, error) {
	if m.categoryExistsFn != nil {
		return m.categoryExistsFn(ctx, id)
	}
	return true, nil
}

// --- Mock tag collaborators ---

// mockTagCounter records counter adjustments.
type mockTagCounter struct {
	incremented [][]int64
	decremented [][]int64
}

func (m *mockTagCounter) IncrementUseCount(ctx context.Context, ids []int64) error {
	if len(ids) > 0 {
		m.incremented = append(m.incremented, ids)
	}
	return nil
}

func (m *mockTagCounter) DecrementUseCount(ctx context.Context, ids []int64) error {
	if len(ids) > 0 {
		m.decremented = append(m.decremented, ids)
	}
	return nil
}

// mockTagRelations serves a fixed current set and records replacements.
type mockTagRelations struct {
	current  []int64
	replaced []int64
	cleared  bool
}

func (m *mockTagRelations) TagIDsForArticle(ctx context.Context, articleID int64) ([]int64, error) {
	return m.current, nil
}

func (m *mockTagRelations) ReplaceTags(ctx context.Context, articleID int64, tagIDs []int64) error {
	m.replaced = tagIDs
	return nil
}

func (m *mockTagRelations) RemoveAllForArticle(ctx context.Context, articleID int64) error {
	m.cleared = true
	return nil
}

// --- Test Helpers ---

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func sampleArticle() *Article {
	now := time.Now()
	return &Article{
		ID:          5,
		Title:       "Hello World",
		Slug:        "hello-world",
		Summary:     "A first post",
		ContentMD:   "# Hello",
		ContentHTML: "<h1>Hello</h1>",
		Status:      StatusPublished,
		ViewCount:   10,
		CreateTime:  now,
		UpdateTime:  now,
	}
}

func newService(repo ArticleRepository) (ArticleService, *mockTagCounter, *mockTagRelations) {
	counter := &mockTagCounter{}
	relations := &mockTagRelations{}
	return NewArticleService(repo, counter, relations), counter, relations
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

// --- Create Tests ---

func TestCreateArticle_Success(t *testing.T) {
	var created *Article
	repo := &mockArticleRepo{
		createFn: func(ctx context.Context, article *Article) error {
			article.ID = 1
			created = article
			return nil
		},
		findByIDFn: func(ctx context.Context, id int64) (*Article, error) {
			return created, nil
		},
	}

	svc, _, _ := newService(repo)
	article, err := svc.Create(context.Background(), CreateArticleRequest{
		Title:     "My First Post",
		ContentMD: "# Hi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Slug != "my-first-post" {
		t.Errorf("expected generated slug my-first-post, got %s", article.Slug)
	}
	if article.Status != StatusDraft {
		t.Errorf("expected default status draft, got %s", article.Status)
	}
}

func TestCreateArticle_SanitizesHTML(t *testing.T) {
	var captured string
	repo := &mockArticleRepo{
		createFn: func(ctx context.Context, article *Article) error {
			article.ID = 1
			captured = article.ContentHTML
			return nil
		},
		findByIDFn: func(ctx context.Context, id int64) (*Article, error) {
			return &Article{ID: id}, nil
		},
	}

	svc, _, _ := newService(repo)
	_, err := svc.Create(context.Background(), CreateArticleRequest{
		Title:       "XSS",
		ContentHTML: `<p>ok</p><script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured != "<p>ok</p>" {
		t.Errorf("expected script tag stripped, got %q", captured)
	}
}

func TestCreateArticle_EmptyTitle(t *testing.T) {
	svc, _, _ := newService(&mockArticleRepo{})
	_, err := svc.Create(context.Background(), CreateArticleRequest{Title: "  "})
	assertAppError(t, err, 422)
}

func TestCreateArticle_InvalidStatus(t *testing.T) {
	svc, _, _ := newService(&mockArticleRepo{})
	_, err := svc.Create(context.Background(), CreateArticleRequest{Title: "ok", Status: "archived"})
	assertAppError(t, err, 422)
}

func TestCreateArticle_DuplicateSlug(t *testing.T) {
	repo := &mockArticleRepo{
		slugExistsFn: func(ctx context.Context, slug string, excludeID int64) (bool, error) {
			return true, nil
		},
	}

	svc, _, _ := newService(repo)
	_, err := svc.Create(context.Background(), CreateArticleRequest{Title: "Taken"})
	assertAppError(t, err, 409)
}

func TestCreateArticle_UnknownCategory(t *testing.T) {
	repo := &mockArticleRepo{
		categoryExistsFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}

	category := int64(77)
	svc, _, _ := newService(repo)
	_, err := svc.Create(context.Background(), CreateArticleRequest{Title: "ok", CategoryID: &category})
	assertAppError(t, err, 422)
}

// --- GetBySlug Tests ---

func TestGetArticleBySlug_BumpsViewCount(t *testing.T) {
	article := sampleArticle()
	var bumped int64
	repo := &mockArticleRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*Article, error) {
			return article, nil
		},
		incrementViewCountFn: func(ctx context.Context, id int64) error {
			bumped = id
			return nil
		},
	}

	svc, _, _ := newService(repo)
	got, err := svc.GetBySlug(context.Background(), "hello-world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bumped != article.ID {
		t.Errorf("expected view bump for %d, got %d", article.ID, bumped)
	}
	if got.ViewCount != 11 {
		t.Errorf("expected returned view count 11, got %d", got.ViewCount)
	}
}

func TestGetArticleBySlug_ViewBumpFailureIsNotFatal(t *testing.T) {
	repo := &mockArticleRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*Article, error) {
			return sampleArticle(), nil
		},
		incrementViewCountFn: func(ctx context.Context, id int64) error {
			return errors.New("connection reset")
		},
	}

	svc, _, _ := newService(repo)
	got, err := svc.GetBySlug(context.Background(), "hello-world")
	if err != nil {
		t.Fatalf("expected read to survive a failed view bump: %v", err)
	}
	if got.ViewCount != 10 {
		t.Errorf("expected view count unchanged at 10, got %d", got.ViewCount)
	}
}

// --- List Tests ---

func TestListArticles_NormalizesOptions(t *testing.T) {
	var captured ListOptions
	repo := &mockArticleRepo{
		listFn: func(ctx context.Context, opts ListOptions) ([]Article, int, error) {
			captured = opts
			return nil, 0, nil
		},
	}

	svc, _, _ := newService(repo)
	page, err := svc.List(context.Background(), ListOptions{
		Page:     -3,
		PageSize: 9999,
		Sort:     SortKey("name; DROP TABLE article"),
		Status:   StatusPublished,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Page != 1 {
		t.Errorf("expected page normalized to 1, got %d", captured.Page)
	}
	if captured.PageSize != maxPageSize {
		t.Errorf("expected page size capped at %d, got %d", maxPageSize, captured.PageSize)
	}
	if captured.Sort != SortByCreateTime {
		t.Errorf("expected unknown sort key replaced with create_time, got %s", captured.Sort)
	}
	if page.Items == nil {
		t.Error("expected empty items slice, got nil")
	}
}

func TestListArticles_InvalidStatus(t *testing.T) {
	svc, _, _ := newService(&mockArticleRepo{})
	_, err := svc.List(context.Background(), ListOptions{Status: "archived"})
	assertAppError(t, err, 422)
}

// --- SetTags Tests ---

func TestSetTags_AdjustsCountersByDiff(t *testing.T) {
	repo := &mockArticleRepo{}
	counter := &mockTagCounter{}
	relations := &mockTagRelations{current: []int64{1, 2, 3}}
	svc := NewArticleService(repo, counter, relations)

	if err := svc.SetTags(context.Background(), 5, []int64{2, 3, 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !equalIDs(relations.replaced, []int64{2, 3, 4}) {
		t.Errorf("expected replacement set [2 3 4], got %v", relations.replaced)
	}
	if len(counter.incremented) != 1 || !equalIDs(counter.incremented[0], []int64{4}) {
		t.Errorf("expected increment of [4], got %v", counter.incremented)
	}
	if len(counter.decremented) != 1 || !equalIDs(counter.decremented[0], []int64{1}) {
		t.Errorf("expected decrement of [1], got %v", counter.decremented)
	}
}

func TestSetTags_IdenticalSetLeavesCountersAlone(t *testing.T) {
	counter := &mockTagCounter{}
	relations := &mockTagRelations{current: []int64{1, 2}}
	svc := NewArticleService(&mockArticleRepo{}, counter, relations)

	if err := svc.SetTags(context.Background(), 5, []int64{2, 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counter.incremented) != 0 || len(counter.decremented) != 0 {
		t.Errorf("expected no counter traffic, got +%v -%v", counter.incremented, counter.decremented)
	}
}

func TestSetTags_EmptySetDecrementsEverything(t *testing.T) {
	counter := &mockTagCounter{}
	relations := &mockTagRelations{current: []int64{7, 8}}
	svc := NewArticleService(&mockArticleRepo{}, counter, relations)

	if err := svc.SetTags(context.Background(), 5, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counter.decremented) != 1 || !equalIDs(counter.decremented[0], []int64{7, 8}) {
		t.Errorf("expected decrement of [7 8], got %v", counter.decremented)
	}
}

func TestSetTags_UnknownArticle(t *testing.T) {
	repo := &mockArticleRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}
	svc, _, _ := newService(repo)
	assertAppError(t, svc.SetTags(context.Background(), 99, []int64{1}), 404)
}

// --- Delete Tests ---

func TestDeleteArticle_UnwindsTagState(t *testing.T) {
	deleted := false
	repo := &mockArticleRepo{
		softDeleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	counter := &mockTagCounter{}
	relations := &mockTagRelations{current: []int64{3, 9}}
	svc := NewArticleService(repo, counter, relations)

	if err := svc.Delete(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected article to be soft-deleted")
	}
	if !relations.cleared {
		t.Error("expected associations to be cleared")
	}
	if len(counter.decremented) != 1 || !equalIDs(counter.decremented[0], []int64{3, 9}) {
		t.Errorf("expected decrement of [3 9], got %v", counter.decremented)
	}
}

// --- diffIDs Tests ---

func TestDiffIDs(t *testing.T) {
	cases := []struct {
		prev, next, added, removed []int64
	}{
		{[]int64{1, 2}, []int64{2, 3}, []int64{3}, []int64{1}},
		{nil, []int64{1, 1, 2}, []int64{1, 2}, nil},
		{[]int64{4, 5}, nil, nil, []int64{4, 5}},
		{[]int64{1}, []int64{1}, nil, nil},
	}
	for _, tc := range cases {
		added, removed := diffIDs(tc.prev, tc.next)
		if !equalIDs(added, tc.added) {
			t.Errorf("diffIDs(%v, %v) added = %v, want %v", tc.prev, tc.next, added, tc.added)
		}
		if !equalIDs(removed, tc.removed) {
			t.Errorf("diffIDs(%v, %v) removed = %v, want %v", tc.prev, tc.next, removed, tc.removed)
		}
	}
}

package thoughts

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkops/inkwell/internal/apperror"
)

const (
	maxContentLen = 500
	maxMoodLen    = 20
)

// ThoughtService defines the business logic contract for thoughts.
type ThoughtService interface {
	Create(ctx context.Context, req CreateThoughtRequest) (*Thought, error)
	Update(ctx context.Context, id int64, req UpdateThoughtRequest) (*Thought, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Thought, error)
	ListAll(ctx context.Context) ([]Thought, error)
}

type thoughtService struct {
	repo ThoughtRepository
}

// NewThoughtService creates a ThoughtService backed by the given repository.
func NewThoughtService(repo ThoughtRepository) ThoughtService {
	return &thoughtService{repo: repo}
}

func (s *thoughtService) Create(ctx context.Context, req CreateThoughtRequest) (*Thought, error) {
	content := strings.TrimSpace(req.Content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	mood := strings.TrimSpace(req.Mood)
	if len(mood) > maxMoodLen {
		return nil, apperror.NewValidation("mood must be at most 20 characters")
	}

	thought := &Thought{Content: content, Mood: mood}

	if err := s.repo.Create(ctx, thought); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating thought: %w", err))
	}

	return s.repo.FindByID(ctx, thought.ID)
}

func (s *thoughtService) Update(ctx context.Context, id int64, req UpdateThoughtRequest) (*Thought, error) {
	thought, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if err := validateContent(content); err != nil {
			return nil, err
		}
		thought.Content = content
	}

	if req.Mood != nil {
		mood := strings.TrimSpace(*req.Mood)
		if len(mood) > maxMoodLen {
			return nil, apperror.NewValidation("mood must be at most 20 characters")
		}
		thought.Mood = mood
	}

	if err := s.repo.Update(ctx, thought); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *thoughtService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidation("thought id must be positive")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *thoughtService) GetByID(ctx context.Context, id int64) (*Thought, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("thought id must be positive")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *thoughtService) ListAll(ctx context.Context) ([]Thought, error) {
	return s.repo.ListAll(ctx)
}

func validateContent(content string) error {
	if content == "" {
		return apperror.NewValidation("content is required")
	}
	if len(content) > maxContentLen {
		return apperror.NewValidation("content must be at most 500 characters")
	}
	return nil
}

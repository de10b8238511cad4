package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/models"
)

const (
	SlugTypo        = "typo_prompt"
	SlugWeekSummary = "week_summary_prompt"
)

var defaultPrompts = map[string]string{
	SlugTypo:        defaultTypoPrompt,
	SlugWeekSummary: defaultWeekSummaryPrompt,
}

// PromptStore is the persistence used by PromptService.
type PromptStore interface {
	FindActive(ctx context.Context, slug string) (*models.PromptVersion, error)
	History(ctx context.Context, slug string) ([]models.PromptVersion, error)
	SaveVersion(ctx context.Context, v *models.PromptVersion) error
}

// PromptService manages versioned prompt templates.
type PromptService struct {
	repo         PromptStore
	defaultModel string
}

func NewPromptService(repo PromptStore, defaultModel string) *PromptService {
	if defaultModel == "" {
		defaultModel = config.DefaultGeminiModel
	}
	return &PromptService{repo: repo, defaultModel: defaultModel}
}

type SavePromptInput struct {
	Content     string
	Comment     string
	Model       string
	Temperature float64
}

func checkSlug(slug string) error {
	if _, ok := defaultPrompts[slug]; !ok {
		return fmt.Errorf("%w: unknown prompt slug %q", ErrInvalidInput, slug)
	}
	return nil
}

// GetActive returns the active version of slug. Without any saved version the
// built-in template is returned as version 0.
func (s *PromptService) GetActive(ctx context.Context, slug string) (*models.PromptVersion, error) {
	if err := checkSlug(slug); err != nil {
		return nil, err
	}
	v, err := s.repo.FindActive(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return &models.PromptVersion{
			Slug:        slug,
			Version:     0,
			Content:     defaultPrompts[slug],
			Comment:     "default",
			ModelConfig: models.ModelConfig{Model: s.defaultModel, Temperature: 0.7},
			IsActive:    true,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *PromptService) History(ctx context.Context, slug string) ([]models.PromptVersion, error) {
	if err := checkSlug(slug); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, slug)
}

// Save stores content as the next active version of slug.
func (s *PromptService) Save(ctx context.Context, userID, slug string, in SavePromptInput) (*models.PromptVersion, error) {
	if err := checkSlug(slug); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if in.Temperature < 0 || in.Temperature > 2 {
		return nil, fmt.Errorf("%w: temperature must be within [0, 2]", ErrInvalidInput)
	}
	model := in.Model
	if model == "" {
		model = s.defaultModel
	}
	v := &models.PromptVersion{
		Slug:        slug,
		Content:     in.Content,
		Comment:     in.Comment,
		ModelConfig: models.ModelConfig{Model: model, Temperature: in.Temperature},
		CreatedBy:   userID,
	}
	if err := s.repo.SaveVersion(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

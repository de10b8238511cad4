package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/models"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
)

// BatchRunner runs one refinement batch.
type BatchRunner interface {
	Run(ctx context.Context, userID string, posts []models.Post, promptTemplate string, onProgress refinement.ProgressFunc) (*refinement.Outcome, error)
}

// ReviewApplier writes reviewed results back.
type ReviewApplier interface {
	Apply(ctx context.Context, batchID int64, items []refinement.ReviewItem) error
}

// RefinementService selects posts and a prompt for the pipeline and guards
// reconciliation by ownership.
type RefinementService struct {
	posts   PostStore
	batches BatchReader
	prompts *PromptService
	runner  BatchRunner
	applier ReviewApplier
}

func NewRefinementService(posts PostStore, batches BatchReader, prompts *PromptService, runner BatchRunner, applier ReviewApplier) *RefinementService {
	return &RefinementService{posts: posts, batches: batches, prompts: prompts, runner: runner, applier: applier}
}

type RunBatchInput struct {
	UserID string
	Start  time.Time
	End    time.Time
	// PostIDs 가 비어 있으면 기간 내 모든 포스트를 보낸다.
	PostIDs    []int64
	PromptSlug string
	// Prompt 가 있으면 저장된 템플릿 대신 사용한다.
	Prompt string
}

// SelectPosts returns the posts of the period, restricted to PostIDs when given.
func (s *RefinementService) SelectPosts(ctx context.Context, in RunBatchInput) ([]models.Post, error) {
	if in.Start.After(in.End) {
		return nil, fmt.Errorf("%w: start must not be after end", ErrInvalidInput)
	}
	posts, err := s.posts.FindByDateRange(ctx, in.UserID, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	if len(in.PostIDs) == 0 {
		return posts, nil
	}
	wanted := make(map[int64]struct{}, len(in.PostIDs))
	for _, id := range in.PostIDs {
		wanted[id] = struct{}{}
	}
	selected := make([]models.Post, 0, len(in.PostIDs))
	for _, p := range posts {
		if _, ok := wanted[p.ID]; ok {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

// Run resolves posts and prompt, then runs the batch.
func (s *RefinementService) Run(ctx context.Context, in RunBatchInput, onProgress refinement.ProgressFunc) (*refinement.Outcome, error) {
	posts, err := s.SelectPosts(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, refinement.ErrNoPosts
	}

	template := in.Prompt
	if template == "" {
		slug := in.PromptSlug
		if slug == "" {
			slug = SlugTypo
		}
		v, err := s.prompts.GetActive(ctx, slug)
		if err != nil {
			return nil, err
		}
		template = v.Content
	}
	return s.runner.Run(ctx, in.UserID, posts, template, onProgress)
}

// Apply checks that the batch and every applied post belong to userID before
// reconciling.
func (s *RefinementService) Apply(ctx context.Context, userID string, batchID int64, items []refinement.ReviewItem) error {
	b, err := s.batches.FindByID(ctx, batchID)
	if IsNotFound(err) || (err == nil && b.UserID != userID) {
		return fmt.Errorf("%w: %d", refinement.ErrBatchNotFound, batchID)
	}
	if err != nil {
		return err
	}
	for _, item := range items {
		if !item.ShouldApply {
			continue
		}
		p, err := s.posts.FindByID(ctx, item.PostID)
		if IsNotFound(err) || (err == nil && p.UserID != userID) {
			return fmt.Errorf("%w: post %d is not yours", ErrInvalidInput, item.PostID)
		}
		if err != nil {
			return err
		}
	}
	return s.applier.Apply(ctx, batchID, items)
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

type BatchReader interface {
	FindByID(ctx context.Context, id int64) (*models.AIBatch, error)
	ListByPeriod(ctx context.Context, userID string, start, end time.Time) ([]models.AIBatch, error)
}

type ExecutionLogReader interface {
	ListByBatch(ctx context.Context, batchID int64) ([]models.AIExecutionLog, error)
}

type HistoryReader interface {
	ListByBatch(ctx context.Context, batchID int64) ([]models.AIRefinementHistory, error)
	ListByPostIDs(ctx context.Context, postIDs []int64) ([]models.AIRefinementHistory, error)
}

// AILogService exposes the refinement audit trail read-only.
type AILogService struct {
	batches   BatchReader
	logs      ExecutionLogReader
	histories HistoryReader
	posts     PostStore
}

func NewAILogService(batches BatchReader, logs ExecutionLogReader, histories HistoryReader, posts PostStore) *AILogService {
	return &AILogService{batches: batches, logs: logs, histories: histories, posts: posts}
}

func (s *AILogService) ListBatches(ctx context.Context, userID string, start, end time.Time) ([]models.AIBatch, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start must not be after end", ErrInvalidInput)
	}
	return s.batches.ListByPeriod(ctx, userID, start, end)
}

func (s *AILogService) GetBatch(ctx context.Context, userID string, batchID int64) (*models.AIBatch, error) {
	b, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *AILogService) ExecutionLogs(ctx context.Context, userID string, batchID int64) ([]models.AIExecutionLog, error) {
	if _, err := s.GetBatch(ctx, userID, batchID); err != nil {
		return nil, err
	}
	return s.logs.ListByBatch(ctx, batchID)
}

func (s *AILogService) Histories(ctx context.Context, userID string, batchID int64) ([]models.AIRefinementHistory, error) {
	if _, err := s.GetBatch(ctx, userID, batchID); err != nil {
		return nil, err
	}
	return s.histories.ListByBatch(ctx, batchID)
}

// HistoriesByPosts returns the histories of the user's posts among postIDs.
func (s *AILogService) HistoriesByPosts(ctx context.Context, userID string, postIDs []int64) ([]models.AIRefinementHistory, error) {
	if len(postIDs) == 0 {
		return nil, fmt.Errorf("%w: post_id is required", ErrInvalidInput)
	}
	owned := make([]int64, 0, len(postIDs))
	for _, id := range postIDs {
		p, err := s.posts.FindByID(ctx, id)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if p.UserID == userID {
			owned = append(owned, id)
		}
	}
	return s.histories.ListByPostIDs(ctx, owned)
}

package handlers

import (
	"context"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/gemini"
	"github.com/sickboy0001/ZeSecThinkV2/models"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

// 핸들러는 서비스 구현 대신 필요한 메서드만 받는다.

type PostAPI interface {
	ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Post, error)
	Create(ctx context.Context, userID string, in services.CreatePostInput) (*models.Post, error)
	Update(ctx context.Context, userID string, id int64, u models.PostUpdate) (*models.Post, error)
	SoftDelete(ctx context.Context, userID string, id int64) error
	DeletePermanently(ctx context.Context, userID string, id int64) error
	DailySummary(ctx context.Context, userID string, days int, now time.Time) ([]models.DailySummary, error)
}

type TagAPI interface {
	List(ctx context.Context, userID string) ([]models.Tag, error)
	Snapshot(ctx context.Context, userID string) (string, error)
	Create(ctx context.Context, userID string, in services.TagInput) (*models.Tag, error)
	Update(ctx context.Context, userID string, id int64, in services.TagInput) (*models.Tag, error)
	Delete(ctx context.Context, userID string, id int64) error
	Reorder(ctx context.Context, userID string, orders []models.TagOrder) error
}

type PromptAPI interface {
	GetActive(ctx context.Context, slug string) (*models.PromptVersion, error)
	History(ctx context.Context, slug string) ([]models.PromptVersion, error)
	Save(ctx context.Context, userID, slug string, in services.SavePromptInput) (*models.PromptVersion, error)
}

type RefinementAPI interface {
	Run(ctx context.Context, in services.RunBatchInput, onProgress refinement.ProgressFunc) (*refinement.Outcome, error)
	Apply(ctx context.Context, userID string, batchID int64, items []refinement.ReviewItem) error
}

type AILogAPI interface {
	ListBatches(ctx context.Context, userID string, start, end time.Time) ([]models.AIBatch, error)
	ExecutionLogs(ctx context.Context, userID string, batchID int64) ([]models.AIExecutionLog, error)
	Histories(ctx context.Context, userID string, batchID int64) ([]models.AIRefinementHistory, error)
	HistoriesByPosts(ctx context.Context, userID string, postIDs []int64) ([]models.AIRefinementHistory, error)
}

type GeminiAPI interface {
	Generate(ctx context.Context, prompt string) (*gemini.Generation, error)
}

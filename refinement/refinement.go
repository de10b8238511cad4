// Package refinement runs the AI typo-correction pipeline: posts are sent to the
// generative-language API in sequential chunks, every exchange is recorded in the
// audit collections, and reviewed suggestions are written back to the posts.
package refinement

import (
	"context"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/gemini"
	"github.com/sickboy0001/ZeSecThinkV2/models"
)

// RefinementResult is one element of the response's refinement_results array.
type RefinementResult struct {
	ID           int64    `json:"id"`
	OriginalText string   `json:"original_text"`
	FixedTitle   string   `json:"fixed_title"`
	FixedText    string   `json:"fixed_text"`
	FixedTags    []string `json:"fixed_tags,omitempty"`
	Changes      []string `json:"changes"`
}

// Response is the document the prompt asks the model to return.
type Response struct {
	RefinementResults []RefinementResult `json:"refinement_results"`
}

// Outcome is what a finished batch run hands back to the caller.
type Outcome struct {
	RawText string             `json:"raw_text"`
	Results []RefinementResult `json:"results"`
	BatchID int64              `json:"batch_id"`
}

// ProgressFunc receives human readable progress lines in issuing order.
type ProgressFunc func(message string)

// Generator is the external generative-language endpoint.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*gemini.Generation, error)
}

// TagSource lists the tags a user allows to be sent to the API.
type TagSource interface {
	ListActiveSendable(ctx context.Context, userID string) ([]models.Tag, error)
}

// BatchFinder looks up a batch by id.
type BatchFinder interface {
	FindByID(ctx context.Context, id int64) (*models.AIBatch, error)
}

// BatchStore persists batch lifecycle state.
type BatchStore interface {
	BatchFinder
	Create(ctx context.Context, b *models.AIBatch) (int64, error)
	UpdateProgress(ctx context.Context, id int64, completedChunks int) error
	UpdateStatus(ctx context.Context, id int64, status models.BatchStatus) error
}

// ExecutionLogStore appends execution logs.
type ExecutionLogStore interface {
	Insert(ctx context.Context, log *models.AIExecutionLog) (int64, error)
}

// HistoryStore persists per-post before/after records.
type HistoryStore interface {
	InsertMany(ctx context.Context, rows []models.AIRefinementHistory) error
	FindByBatchAndPost(ctx context.Context, batchID, postID int64) (*models.AIRefinementHistory, error)
	MarkApplied(ctx context.Context, id int64, c models.AppliedContent, isEdited bool, at time.Time) error
}

// PostUpdater writes partial post updates.
type PostUpdater interface {
	UpdateFields(ctx context.Context, id int64, u models.PostUpdate) error
}

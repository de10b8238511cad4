package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/gemini"
	"github.com/sickboy0001/ZeSecThinkV2/models"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

var errBoom = errors.New("boom")

type fakePosts struct {
	posts      []models.Post
	listStart  time.Time
	listEnd    time.Time
	created    services.CreatePostInput
	updated    models.PostUpdate
	err        error
	summaryLen int
}

func (f *fakePosts) ListByDateRange(_ context.Context, _ string, start, end time.Time) ([]models.Post, error) {
	f.listStart, f.listEnd = start, end
	return f.posts, f.err
}

func (f *fakePosts) Create(_ context.Context, userID string, in services.CreatePostInput) (*models.Post, error) {
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Post{ID: 1, UserID: userID, Title: in.Title, Content: in.Content, Tags: in.Tags}, nil
}

func (f *fakePosts) Update(_ context.Context, userID string, id int64, u models.PostUpdate) (*models.Post, error) {
	f.updated = u
	if f.err != nil {
		return nil, f.err
	}
	return &models.Post{ID: id, UserID: userID}, nil
}

func (f *fakePosts) SoftDelete(context.Context, string, int64) error        { return f.err }
func (f *fakePosts) DeletePermanently(context.Context, string, int64) error { return f.err }

func (f *fakePosts) DailySummary(_ context.Context, _ string, days int, _ time.Time) ([]models.DailySummary, error) {
	f.summaryLen = days
	return make([]models.DailySummary, days), f.err
}

// fakeRefinement 은 progress 를 그대로 흘려 보낸 뒤 outcome/err 을 돌려준다.
type fakeRefinement struct {
	lines    []string
	outcome  *refinement.Outcome
	err      error
	runInput services.RunBatchInput

	applyErr   error
	applyItems []refinement.ReviewItem
}

func (f *fakeRefinement) Run(_ context.Context, in services.RunBatchInput, onProgress refinement.ProgressFunc) (*refinement.Outcome, error) {
	f.runInput = in
	for _, l := range f.lines {
		onProgress(l)
	}
	return f.outcome, f.err
}

func (f *fakeRefinement) Apply(_ context.Context, _ string, _ int64, items []refinement.ReviewItem) error {
	f.applyItems = items
	return f.applyErr
}

type fakeGemini struct {
	gen    *gemini.Generation
	err    error
	prompt string
}

func (f *fakeGemini) Generate(_ context.Context, prompt string) (*gemini.Generation, error) {
	f.prompt = prompt
	return f.gen, f.err
}

type fakeAILogs struct {
	postIDs []int64
}

func (f *fakeAILogs) ListBatches(context.Context, string, time.Time, time.Time) ([]models.AIBatch, error) {
	return []models.AIBatch{}, nil
}

func (f *fakeAILogs) ExecutionLogs(_ context.Context, _ string, batchID int64) ([]models.AIExecutionLog, error) {
	if batchID != 1 {
		return nil, services.ErrNotFound
	}
	return []models.AIExecutionLog{{ID: 10, BatchID: 1}}, nil
}

func (f *fakeAILogs) Histories(context.Context, string, int64) ([]models.AIRefinementHistory, error) {
	return []models.AIRefinementHistory{}, nil
}

func (f *fakeAILogs) HistoriesByPosts(_ context.Context, _ string, postIDs []int64) ([]models.AIRefinementHistory, error) {
	f.postIDs = postIDs
	return []models.AIRefinementHistory{}, nil
}

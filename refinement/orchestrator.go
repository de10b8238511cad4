package refinement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/events"
	"github.com/sickboy0001/ZeSecThinkV2/gemini"
	"github.com/sickboy0001/ZeSecThinkV2/models"
)

// Stores groups the persistence the orchestrator writes to.
type Stores struct {
	Tags      TagSource
	Batches   BatchStore
	Logs      ExecutionLogStore
	Histories HistoryStore
}

// Orchestrator drives a batch across all of its chunks, strictly in order.
type Orchestrator struct {
	snapshots   *TagSnapshotProvider
	executor    *Executor
	batches     BatchStore
	logs        ExecutionLogStore
	histories   HistoryStore
	chunkSize   int
	chunkDelay  time.Duration
	strictParse bool
	settings    settings
}

func NewOrchestrator(stores Stores, generator Generator, cfg config.RefinementConfig, opts ...Option) *Orchestrator {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}
	chunkDelay := cfg.ChunkDelay
	if chunkDelay < 0 {
		chunkDelay = 0
	}
	return &Orchestrator{
		snapshots:   NewTagSnapshotProvider(stores.Tags),
		executor:    NewExecutor(generator, cfg, opts...),
		batches:     stores.Batches,
		logs:        stores.Logs,
		histories:   stores.Histories,
		chunkSize:   chunkSize,
		chunkDelay:  chunkDelay,
		strictParse: cfg.StrictParse,
		settings:    newSettings(opts),
	}
}

// TotalChunks returns how many chunks n posts are split into.
func (o *Orchestrator) TotalChunks(n int) int {
	return (n + o.chunkSize - 1) / o.chunkSize
}

// Run processes posts in chunks and returns the concatenated raw texts, the
// aggregated results and the batch id. onProgress may be nil.
//
// A chunk that exhausts its retries marks the batch failed and returns
// *ChunkError, joined with the write error when its failed execution log
// cannot be saved. Persistence errors and context cancellation are returned as is
// and leave the batch in processing.
func (o *Orchestrator) Run(ctx context.Context, userID string, posts []models.Post, promptTemplate string, onProgress ProgressFunc) (*Outcome, error) {
	if len(posts) == 0 {
		return nil, ErrNoPosts
	}
	progress := o.progress(onProgress)

	tagSnapshot, err := o.snapshots.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalChunks := o.TotalChunks(len(posts))
	batch := &models.AIBatch{UserID: userID, TotalChunks: totalChunks, TotalMemos: len(posts)}
	batchID, err := o.batches.Create(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}
	batch.ID = batchID
	o.settings.logger.Infof("batch %d started: user=%s posts=%d chunks=%d", batchID, userID, len(posts), totalChunks)
	progress(fmt.Sprintf("started: %d posts split into %d chunk(s).", len(posts), totalChunks))

	outcome := &Outcome{BatchID: batchID, Results: []RefinementResult{}}
	var raw strings.Builder
	completed := 0

	for start := 0; start < len(posts); start += o.chunkSize {
		chunkIndex := start/o.chunkSize + 1
		chunk := posts[start:min(start+o.chunkSize, len(posts))]

		if chunkIndex > 1 {
			progress(fmt.Sprintf("waiting... (%d/%d)", chunkIndex, totalChunks))
			if err := o.settings.sleep(ctx, o.chunkDelay); err != nil {
				return nil, err
			}
			progress(fmt.Sprintf("resuming (%d/%d)", chunkIndex, totalChunks))
		}

		progress(fmt.Sprintf("sending chunk %d/%d...", chunkIndex, totalChunks))
		req, err := o.executor.Prepare(chunkIndex, chunk, promptTemplate, tagSnapshot)
		if err != nil {
			return nil, err
		}
		resp, err := o.executor.Send(ctx, req, progress)
		if err != nil {
			var chunkErr *ChunkError
			if !errors.As(err, &chunkErr) {
				return nil, err
			}
			auditErr := o.recordFailedChunk(ctx, batch, req, tagSnapshot, promptTemplate, chunkErr)
			failErr := o.fail(ctx, batch, completed, chunkErr, progress)
			if auditErr != nil {
				return nil, errors.Join(failErr, auditErr)
			}
			return nil, failErr
		}
		progress(fmt.Sprintf("received (model: %s)", resp.Model))

		results, parseErr := ParseResponse(resp.RawText)
		strictFailure := parseErr != nil && o.strictParse

		execLog := &models.AIExecutionLog{
			BatchID:          batchID,
			UserID:           userID,
			ChunkIndex:       chunkIndex,
			PromptTemplate:   promptTemplate,
			RawInputJSON:     req.RequestJSON,
			RawOutputText:    resp.RawText,
			ModelInfo:        resp.Model,
			APIVersion:       resp.APIVersion,
			DurationMs:       resp.Duration.Milliseconds(),
			Status:           models.ExecutionStatusSuccess,
			UsedTagsSnapshot: tagSnapshot,
			TokenUsage:       resp.TokenUsage,
		}
		if strictFailure {
			execLog.Status = models.ExecutionStatusFailed
			execLog.ErrorPayload = errorPayload(parseErr, 0, resp.Attempts)
		}
		logID, err := o.logs.Insert(ctx, execLog)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: save execution log: %w", chunkIndex, err)
		}
		raw.WriteString(resp.RawText)
		raw.WriteString("\n")

		switch {
		case strictFailure:
			return nil, o.fail(ctx, batch, completed, &ChunkError{ChunkIndex: chunkIndex, Attempts: resp.Attempts, Err: parseErr}, progress)
		case parseErr != nil:
			o.settings.logger.Warnf("batch %d chunk %d: %v", batchID, chunkIndex, parseErr)
			progress(fmt.Sprintf("warning: chunk %d response could not be parsed; no history saved.", chunkIndex))
		default:
			kept, rows := o.joinResults(batchID, logID, chunk, results, progress)
			if err := o.histories.InsertMany(ctx, rows); err != nil {
				return nil, fmt.Errorf("chunk %d: save histories: %w", chunkIndex, err)
			}
			outcome.Results = append(outcome.Results, kept...)
			progress(fmt.Sprintf("chunk %d done: %d result(s) saved.", chunkIndex, len(rows)))
		}

		if err := o.batches.UpdateProgress(ctx, batchID, chunkIndex); err != nil {
			return nil, fmt.Errorf("chunk %d: update progress: %w", chunkIndex, err)
		}
		completed = chunkIndex
		progress(fmt.Sprintf("progress: %d/%d chunk(s) completed.", completed, totalChunks))
	}

	if err := o.batches.UpdateStatus(ctx, batchID, models.BatchStatusCompleted); err != nil {
		return nil, fmt.Errorf("complete batch: %w", err)
	}
	outcome.RawText = raw.String()
	o.settings.logger.Infof("batch %d completed: results=%d", batchID, len(outcome.Results))
	progress("all chunks completed.")

	o.settings.publish(ctx, events.BatchCompletedEvent{
		BaseEvent:   events.NewBaseEvent(events.BatchCompleted),
		BatchID:     batchID,
		UserID:      userID,
		TotalChunks: totalChunks,
		TotalMemos:  len(posts),
		ResultCount: len(outcome.Results),
	})
	return outcome, nil
}

// joinResults matches results back to the chunk's posts. Ids that are not in
// the chunk, and repeated ids, are dropped.
func (o *Orchestrator) joinResults(batchID, logID int64, chunk []models.Post, results []RefinementResult, progress ProgressFunc) ([]RefinementResult, []models.AIRefinementHistory) {
	byID := make(map[int64]models.Post, len(chunk))
	for _, p := range chunk {
		byID[p.ID] = p
	}

	seen := make(map[int64]struct{}, len(results))
	kept := make([]RefinementResult, 0, len(results))
	rows := make([]models.AIRefinementHistory, 0, len(results))
	for idx, r := range results {
		post, ok := byID[r.ID]
		if !ok {
			progress(fmt.Sprintf("warning: result id %d is not part of this chunk; skipped.", r.ID))
			continue
		}
		if _, dup := seen[r.ID]; dup {
			progress(fmt.Sprintf("warning: result id %d appears more than once; later entry skipped.", r.ID))
			continue
		}
		seen[r.ID] = struct{}{}

		// fixed_tags 가 없으면 태그는 그대로 둔 것으로 본다.
		afterTags := r.FixedTags
		if afterTags == nil {
			afterTags = post.Tags
		}
		if afterTags == nil {
			afterTags = []string{}
		}
		// 돌려주는 결과도 이력과 같은 태그를 가져야 그대로 반영했을 때 is_edited 가 false 다.
		r.FixedTags = afterTags
		rows = append(rows, models.AIRefinementHistory{
			PostID:         r.ID,
			BatchID:        batchID,
			ExecutionLogID: logID,
			OrderIndex:     idx,
			BeforeTitle:    post.Title,
			BeforeText:     post.Content,
			BeforeTags:     models.EncodeTags(post.Tags),
			AfterTitle:     r.FixedTitle,
			AfterText:      r.FixedText,
			AfterTags:      models.EncodeTags(afterTags),
			ChangesSummary: models.EncodeTags(r.Changes),
		})
		kept = append(kept, r)
	}
	return kept, rows
}

// recordFailedChunk writes the failed execution log of an exhausted chunk. A
// write failure is returned so the caller reports it next to the chunk error.
func (o *Orchestrator) recordFailedChunk(ctx context.Context, batch *models.AIBatch, req ChunkRequest, tagSnapshot, promptTemplate string, chunkErr *ChunkError) error {
	execLog := &models.AIExecutionLog{
		BatchID:          batch.ID,
		UserID:           batch.UserID,
		ChunkIndex:       req.Index,
		PromptTemplate:   promptTemplate,
		RawInputJSON:     req.RequestJSON,
		Status:           models.ExecutionStatusFailed,
		UsedTagsSnapshot: tagSnapshot,
		ErrorPayload:     errorPayload(chunkErr.Err, statusCode(chunkErr.Err), chunkErr.Attempts),
	}
	if _, err := o.logs.Insert(ctx, execLog); err != nil {
		return fmt.Errorf("chunk %d: save failed execution log: %w", req.Index, err)
	}
	return nil
}

// fail marks the batch failed and returns the chunk error.
func (o *Orchestrator) fail(ctx context.Context, batch *models.AIBatch, completed int, chunkErr *ChunkError, progress ProgressFunc) error {
	if err := o.batches.UpdateStatus(ctx, batch.ID, models.BatchStatusFailed); err != nil {
		o.settings.logger.Errorf("batch %d: mark failed: %v", batch.ID, err)
	}
	o.settings.logger.Errorf("batch %d failed: %v", batch.ID, chunkErr)
	progress(fmt.Sprintf("error: %v", chunkErr))

	o.settings.publish(ctx, events.BatchFailedEvent{
		BaseEvent:       events.NewBaseEvent(events.BatchFailed),
		BatchID:         batch.ID,
		UserID:          batch.UserID,
		ChunkIndex:      chunkErr.ChunkIndex,
		CompletedChunks: completed,
		TotalChunks:     batch.TotalChunks,
		Error:           chunkErr.Err.Error(),
	})
	return chunkErr
}

// progress stamps each line with the wall-clock time, e.g. "[15:04:05] msg".
func (o *Orchestrator) progress(onProgress ProgressFunc) ProgressFunc {
	return func(message string) {
		if onProgress == nil {
			return
		}
		onProgress(fmt.Sprintf("[%s] %s", o.settings.now().Format("15:04:05"), message))
	}
}

func statusCode(err error) int {
	var statusErr *gemini.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func errorPayload(err error, status, attempts int) *string {
	payload := map[string]any{"error": err.Error(), "attempts": attempts}
	if status != 0 {
		payload["status"] = status
	}
	out, mErr := marshalIndent(payload)
	if mErr != nil {
		return nil
	}
	return &out
}

package refinement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sickboy0001/ZeSecThinkV2/events"
	"github.com/sickboy0001/ZeSecThinkV2/models"
	"github.com/sickboy0001/ZeSecThinkV2/repositories"
)

// ReviewItem is the reviewer's decision for one result of a batch.
type ReviewItem struct {
	PostID      int64    `json:"post_id"`
	Title       string   `json:"title"`
	Text        string   `json:"text"`
	Tags        []string `json:"tags"`
	PublicFlg   *bool    `json:"public_flg,omitempty"`
	ShouldApply bool     `json:"should_apply"`
}

// Reconciler writes reviewed results back to posts and marks the matching
// history rows applied.
type Reconciler struct {
	batches   BatchFinder
	posts     PostUpdater
	histories HistoryStore
	settings  settings
}

func NewReconciler(batches BatchFinder, posts PostUpdater, histories HistoryStore, opts ...Option) *Reconciler {
	return &Reconciler{
		batches:   batches,
		posts:     posts,
		histories: histories,
		settings:  newSettings(opts),
	}
}

// Apply writes every item with ShouldApply set. Post writes run concurrently and
// are not rolled back: when some fail, the others stay applied and a
// *ReconcileError names the failed posts.
func (r *Reconciler) Apply(ctx context.Context, batchID int64, items []ReviewItem) error {
	if _, err := r.batches.FindByID(ctx, batchID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrBatchNotFound, batchID)
		}
		return fmt.Errorf("find batch %d: %w", batchID, err)
	}

	selected := make([]ReviewItem, 0, len(items))
	for _, item := range items {
		if item.ShouldApply {
			selected = append(selected, item)
		}
	}
	if len(selected) == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		failed  = map[int64]error{}
		applied = make([]int64, 0, len(selected))
	)
	var g errgroup.Group
	g.SetLimit(r.settings.concurrency)
	for _, item := range selected {
		g.Go(func() error {
			err := r.applyOne(ctx, batchID, item)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[item.PostID] = err
			} else {
				applied = append(applied, item.PostID)
			}
			// 한 건의 실패가 다른 쓰기를 취소하지 않도록 항상 nil 을 돌려준다.
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(applied, func(i, j int) bool { return applied[i] < applied[j] })
	var result error
	failedIDs := []int64{}
	if len(failed) > 0 {
		rerr := &ReconcileError{Total: len(selected), Failed: failed}
		failedIDs = rerr.FailedIDs()
		r.settings.logger.Errorf("batch %d: %v", batchID, rerr)
		result = rerr
	}
	r.settings.logger.Infof("batch %d: applied %d of %d reviewed result(s)", batchID, len(applied), len(selected))

	r.settings.publish(ctx, events.ResultsAppliedEvent{
		BaseEvent:      events.NewBaseEvent(events.ResultsApplied),
		BatchID:        batchID,
		AppliedPostIDs: applied,
		FailedPostIDs:  failedIDs,
	})
	return result
}

// applyOne only touches posts that have a history row in the batch.
func (r *Reconciler) applyOne(ctx context.Context, batchID int64, item ReviewItem) error {
	history, err := r.histories.FindByBatchAndPost(ctx, batchID, item.PostID)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: post %d, batch %d", ErrNotInBatch, item.PostID, batchID)
	}
	if err != nil {
		return fmt.Errorf("find history of post %d: %w", item.PostID, err)
	}

	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	title, text := item.Title, item.Text
	update := models.PostUpdate{
		Title:     &title,
		Content:   &text,
		Tags:      &tags,
		PublicFlg: item.PublicFlg,
	}
	if err := r.posts.UpdateFields(ctx, item.PostID, update); err != nil {
		return fmt.Errorf("update post %d: %w", item.PostID, err)
	}

	content := models.AppliedContent{Title: title, Text: text, Tags: tags}
	if err := r.histories.MarkApplied(ctx, history.ID, content, history.IsEditedBy(content), r.settings.now()); err != nil {
		return fmt.Errorf("mark history %d applied: %w", history.ID, err)
	}
	return nil
}

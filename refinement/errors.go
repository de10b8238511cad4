package refinement

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNoPosts       = errors.New("refinement: no posts selected")
	ErrBatchNotFound = errors.New("refinement: batch not found")
	ErrParseResponse = errors.New("refinement: response is not a refinement_results document")
	ErrNotInBatch    = errors.New("refinement: post has no result in this batch")
)

// ChunkError reports a chunk that could not be completed. It aborts the batch.
type ChunkError struct {
	ChunkIndex int
	Attempts   int
	Err        error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d failed after %d attempt(s): %v", e.ChunkIndex, e.Attempts, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// ReconcileError lists the posts whose write-back failed. Writes that succeeded
// are not rolled back.
type ReconcileError struct {
	Total  int
	Failed map[int64]error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconcile: %d of %d posts failed (post ids %v)", len(e.Failed), e.Total, e.FailedIDs())
}

// FailedIDs returns the failed post ids in ascending order.
func (e *ReconcileError) FailedIDs() []int64 {
	ids := make([]int64, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

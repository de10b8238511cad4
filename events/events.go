package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	BatchCompleted EventType = "refinement.batch_completed"
	BatchFailed    EventType = "refinement.batch_failed"
	ResultsApplied EventType = "refinement.results_applied"
)

const (
	eventSource  = "zesecthink"
	eventVersion = "1"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

func NewBaseEvent(t EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
	}
}

// BatchCompletedEvent 배치의 모든 청크가 끝났을 때
type BatchCompletedEvent struct {
	BaseEvent
	BatchID     int64  `json:"batch_id"`
	UserID      string `json:"user_id"`
	TotalChunks int    `json:"total_chunks"`
	TotalMemos  int    `json:"total_memos"`
	ResultCount int    `json:"result_count"`
}

// BatchFailedEvent 청크가 재시도를 모두 소진해 배치가 실패했을 때
type BatchFailedEvent struct {
	BaseEvent
	BatchID         int64  `json:"batch_id"`
	UserID          string `json:"user_id"`
	ChunkIndex      int    `json:"chunk_index"`
	CompletedChunks int    `json:"completed_chunks"`
	TotalChunks     int    `json:"total_chunks"`
	Error           string `json:"error"`
}

// ResultsAppliedEvent 리뷰 결과가 포스트에 반영됐을 때
type ResultsAppliedEvent struct {
	BaseEvent
	BatchID        int64   `json:"batch_id"`
	AppliedPostIDs []int64 `json:"applied_post_ids"`
	FailedPostIDs  []int64 `json:"failed_post_ids"`
}

// Meta 는 이벤트의 id 와 타입을 돌려준다.
func Meta(event any) (string, EventType, error) {
	switch e := event.(type) {
	case BatchCompletedEvent:
		return e.ID, e.Type, nil
	case BatchFailedEvent:
		return e.ID, e.Type, nil
	case ResultsAppliedEvent:
		return e.ID, e.Type, nil
	default:
		return "", "", fmt.Errorf("unknown event type: %T", event)
	}
}

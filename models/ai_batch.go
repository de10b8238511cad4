package models

import "time"

type BatchStatus string

const (
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusFailed
}

// AIBatch is one run of the refinement pipeline over a set of posts.
// Collection: ai_batches
type AIBatch struct {
	ID              int64       `bson:"_id" json:"id"`
	UserID          string      `bson:"user_id" json:"user_id"`
	TotalChunks     int         `bson:"total_chunks" json:"total_chunks"`
	TotalMemos      int         `bson:"total_memos" json:"total_memos"`
	CompletedChunks int         `bson:"completed_chunks" json:"completed_chunks"`
	Status          BatchStatus `bson:"status" json:"status"`
	CreatedAt       time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `bson:"updated_at" json:"updated_at"`
}

package models

import "time"

const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusFailed  = "failed"
)

// AIExecutionLog records one external API round-trip of a batch chunk. Never updated.
// Collection: ai_execution_logs
type AIExecutionLog struct {
	ID             int64  `bson:"_id" json:"id"`
	BatchID        int64  `bson:"batch_id" json:"batch_id"`
	UserID         string `bson:"user_id" json:"user_id"`
	ChunkIndex     int    `bson:"chunk_index" json:"chunk_index"`
	PromptTemplate string `bson:"prompt_template" json:"prompt_template"`
	RawInputJSON   string `bson:"raw_input_json" json:"raw_input_json"`
	RawOutputText  string `bson:"raw_output_text" json:"raw_output_text"`
	ModelInfo      string `bson:"model_info" json:"model_info"`
	APIVersion     string `bson:"api_version" json:"api_version"`
	DurationMs     int64  `bson:"duration_ms" json:"duration_ms"`
	Status         string `bson:"status" json:"status"`
	// 아래 세 필드는 직렬화된 JSON 문자열로 저장한다.
	UsedTagsSnapshot string    `bson:"used_tags_snapshot" json:"used_tags_snapshot"`
	ErrorPayload     *string   `bson:"error_payload,omitempty" json:"error_payload,omitempty"`
	TokenUsage       *string   `bson:"token_usage,omitempty" json:"token_usage,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

package models

import (
	"encoding/json"
	"time"
)

// AIRefinementHistory is the before/after record of one post within one batch.
// Collection: ai_refinement_histories
//
// Tag arrays are stored as serialized JSON strings so that equality checks
// compare exactly what was recorded.
type AIRefinementHistory struct {
	ID             int64      `bson:"_id" json:"id"`
	PostID         int64      `bson:"post_id" json:"post_id"`
	BatchID        int64      `bson:"batch_id" json:"batch_id"`
	ExecutionLogID int64      `bson:"execution_log_id" json:"execution_log_id"`
	OrderIndex     int        `bson:"order_index" json:"order_index"`
	BeforeTitle    string     `bson:"before_title" json:"before_title"`
	BeforeText     string     `bson:"before_text" json:"before_text"`
	BeforeTags     string     `bson:"before_tags" json:"before_tags"`
	AfterTitle     string     `bson:"after_title" json:"after_title"`
	AfterText      string     `bson:"after_text" json:"after_text"`
	AfterTags      string     `bson:"after_tags" json:"after_tags"`
	ChangesSummary string     `bson:"changes_summary" json:"changes_summary"`
	IsEdited       bool       `bson:"is_edited" json:"is_edited"`
	Applied        bool       `bson:"applied" json:"applied"`
	AppliedAt      *time.Time `bson:"applied_at,omitempty" json:"applied_at,omitempty"`
	FixedTitle     *string    `bson:"fixed_title,omitempty" json:"fixed_title,omitempty"`
	FixedText      *string    `bson:"fixed_text,omitempty" json:"fixed_text,omitempty"`
	FixedTags      *string    `bson:"fixed_tags,omitempty" json:"fixed_tags,omitempty"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
}

// AppliedContent is the final content a reviewer wrote back to a post.
type AppliedContent struct {
	Title string
	Text  string
	Tags  []string
}

// IsEditedBy reports whether the applied content differs from the AI suggestion
// recorded at parse time.
func (h AIRefinementHistory) IsEditedBy(c AppliedContent) bool {
	return h.AfterTitle != c.Title || h.AfterText != c.Text || h.AfterTags != EncodeTags(c.Tags)
}

// EncodeTags serializes a tag list. A nil list encodes like an empty one.
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

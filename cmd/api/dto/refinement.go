package dto

import "github.com/sickboy0001/ZeSecThinkV2/refinement"

// RunBatchRequestDTO selects the posts of [start, end] (YYYY-MM-DD), optionally
// narrowed to post_ids.
type RunBatchRequestDTO struct {
	Start      string  `json:"start" binding:"required" example:"2026-03-01"`
	End        string  `json:"end" binding:"required" example:"2026-03-07"`
	PostIDs    []int64 `json:"post_ids"`
	PromptSlug string  `json:"prompt_slug" example:"typo_prompt"`
	Prompt     string  `json:"prompt"`
}

// RunBatchResultDTO is the payload of the final SSE "result" event.
type RunBatchResultDTO struct {
	BatchID int64                         `json:"batch_id"`
	Results []refinement.RefinementResult `json:"refinement_results"`
	RawText string                        `json:"raw_text"`
}

type ReviewItemDTO struct {
	PostID      int64    `json:"post_id" binding:"required"`
	Title       string   `json:"title"`
	Text        string   `json:"text"`
	Tags        []string `json:"tags"`
	PublicFlg   *bool    `json:"public_flg,omitempty"`
	ShouldApply bool     `json:"should_apply"`
}

type ApplyRequestDTO struct {
	Items []ReviewItemDTO `json:"items" binding:"required,dive"`
}

type ApplyResponseDTO struct {
	Applied       int     `json:"applied"`
	FailedPostIDs []int64 `json:"failed_post_ids"`
}

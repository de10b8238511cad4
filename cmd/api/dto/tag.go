package dto

type TagRequestDTO struct {
	TagName     string   `json:"tag_name" binding:"required" example:"life"`
	Name        string   `json:"name" example:"生活"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description"`
	IsActive    bool     `json:"is_active"`
	IsSendAI    bool     `json:"is_send_ai"`
}

type TagSnapshotResponseDTO struct {
	Snapshot string `json:"snapshot"`
}

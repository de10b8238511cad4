package dto

type SavePromptRequestDTO struct {
	Content     string  `json:"content" binding:"required"`
	Comment     string  `json:"comment" example:"shorter instructions"`
	Model       string  `json:"model" example:"gemini-2.0-flash"`
	Temperature float64 `json:"temperature" example:"0.7"`
}

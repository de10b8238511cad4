package dto

type GeminiRequestDTO struct {
	Prompt string `json:"prompt" binding:"required" example:"次の文章の誤字を直して: ..."`
}

// GeminiErrorDTO 는 업스트림 상태 코드와 함께 내려가는 에러 본문이다.
type GeminiErrorDTO struct {
	Error string `json:"error"`
}

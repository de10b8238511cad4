package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/dto"
	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/trace"
	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/gemini"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

// normalizeError 는 서비스 에러를 HTTP 상태와 에러 코드로 바꾼다.
func normalizeError(err error) (status int, errorCode string) {
	var chunkErr *refinement.ChunkError
	var statusErr *gemini.StatusError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, refinement.ErrNoPosts):
		return http.StatusUnprocessableEntity, "no_posts"
	case errors.Is(err, services.ErrNotFound), errors.Is(err, refinement.ErrBatchNotFound):
		return http.StatusNotFound, "not_found"
	case errors.As(err, &chunkErr):
		return http.StatusBadGateway, "refinement_failed"
	case errors.As(err, &statusErr):
		return normalizeGeminiStatus(statusErr.StatusCode)
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func normalizeGeminiStatus(statusCode int) (int, string) {
	switch statusCode {
	case http.StatusTooManyRequests:
		return http.StatusTooManyRequests, "rate_limited"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return http.StatusBadRequest, "invalid_request"
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return http.StatusServiceUnavailable, "gemini_unavailable"
	default:
		return http.StatusInternalServerError, "gemini_failed"
	}
}

func errorBody(status int, code string, err error) dto.ErrorResponseDTO {
	body := dto.ErrorResponseDTO{Error: code}
	// 4xx 는 원인을 그대로 돌려준다. 5xx 는 로그에만 남긴다.
	if status < http.StatusInternalServerError {
		body.Detail = err.Error()
	}
	return body
}

func writeError(c *gin.Context, err error) {
	status, code := normalizeError(err)
	if status >= http.StatusInternalServerError {
		config.ErrorWithFields("request failed", config.Fields{
			"request_id": trace.RequestIDFromContext(c.Request.Context()),
			"path":       c.FullPath(),
			"error":      err.Error(),
		})
		_ = c.Error(err)
	}
	c.JSON(status, errorBody(status, code, err))
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/dto"
	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/trace"
)

const (
	HeaderUserID = "X-User-Id"
	// ContextKeyUserID 는 gin 컨텍스트에 저장되는 사용자 id 키이다.
	ContextKeyUserID = "user_id"
)

var ErrMissingUser = errors.New("missing_user_id")

// ExtractUserID 는 인증 프록시가 넣어 준 X-User-Id 헤더를 읽는다.
func ExtractUserID(c *gin.Context) (string, error) {
	userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
	if userID == "" {
		return "", ErrMissingUser
	}
	return userID, nil
}

// RequireUser 는 사용자 헤더가 없는 요청을 401 로 끊는다.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ExtractUserID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponseDTO{Error: err.Error()})
			return
		}
		c.Set(ContextKeyUserID, userID)
		trace.SetUser(c.Request.Context(), userID)
		c.Next()
	}
}

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/trace"
	"github.com/sickboy0001/ZeSecThinkV2/config"
)

const HeaderRequestID = "X-Request-Id"

const maxBodyLog = 1024

// RequestTrace 는 요청마다 X-Request-Id 를 정하고(없으면 생성) 응답 헤더에 돌려준 뒤
// 완료 시점에 한 줄짜리 구조화 로그를 남긴다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)
		body := captureBody(c.Request)
		query := nonEmptyQuery(c.Request.URL.Query())

		c.Next()

		ctx := c.Request.Context()
		fields := config.Fields{
			"request_id":   requestID,
			"method":       c.Request.Method,
			"path":         c.Request.URL.Path,
			"query_params": query,
			"status":       c.Writer.Status(),
			"duration":     time.Since(start).String(),
			"steps":        trace.Steps(ctx),
		}
		if userID := trace.UserIDFromContext(ctx); userID != "" {
			fields["user_id"] = userID
		}
		if body != "" {
			fields["body"] = body
		}
		config.InfoWithFields("completed request", fields)
	}
}

func ensureRequestID(c *gin.Context) string {
	id := c.GetHeader(HeaderRequestID)
	if id == "" {
		id = trace.GenerateID()
		c.Request.Header.Set(HeaderRequestID, id)
	}
	c.Request = c.Request.WithContext(trace.WithRequest(c.Request.Context(), id))
	c.Header(HeaderRequestID, id)
	return id
}

// captureBody 는 쓰기 요청 본문 앞부분을 돌려주고 핸들러가 다시 읽도록 Body 를 되돌려 놓는다.
func captureBody(req *http.Request) string {
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return ""
	}
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))
	return string(raw[:min(len(raw), maxBodyLog)])
}

// 같은 키가 여러 번 오는 쿼리(ids=1&ids=2)도 그대로 남긴다.
func nonEmptyQuery(values url.Values) map[string][]string {
	out := make(map[string][]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v
		}
	}
	return out
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sickboy0001/ZeSecThinkV2/config"
)

// slowRequest 이상 걸린 요청은 warn 으로 남긴다. SSE 배치 요청은 제외한다.
const slowRequest = 3 * time.Second

// RequestLoggingMiddleware 는 느린 요청과 5xx 응답을 따로 로깅한다.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)
		streaming := c.Writer.Header().Get("Content-Type") == "text/event-stream"

		switch {
		case status >= 500:
			config.Logger.Errorf("api_request method=%s path=%s status=%d duration_ms=%d errors=%q",
				c.Request.Method, c.FullPath(), status, duration.Milliseconds(), c.Errors.String())
		case duration >= slowRequest && !streaming:
			config.Logger.Warnf("slow api_request method=%s path=%s status=%d duration_ms=%d",
				c.Request.Method, c.FullPath(), status, duration.Milliseconds())
		}
	}
}

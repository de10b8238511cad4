// Package trace 는 요청 단위 추적 정보(request id, 사용자, 외부 호출 순번)를 context 로 전달한다.
package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

type traceKey struct{}

// Info 는 요청 하나의 추적 정보다. steps 는 Gemini 같은 외부 호출마다 1 씩 오른다.
type Info struct {
	RequestID string
	UserID    string
	steps     atomic.Int64
}

func GenerateID() string { return uuid.NewString() }

func WithRequest(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, traceKey{}, &Info{RequestID: requestID})
}

func lookup(ctx context.Context) (*Info, bool) {
	if ctx == nil {
		return nil, false
	}
	info, ok := ctx.Value(traceKey{}).(*Info)
	return info, ok && info != nil
}

func RequestIDFromContext(ctx context.Context) string {
	if info, ok := lookup(ctx); ok {
		return info.RequestID
	}
	return ""
}

// SetUser 는 인증 미들웨어가 확인한 사용자 id 를 남긴다.
func SetUser(ctx context.Context, userID string) {
	if info, ok := lookup(ctx); ok {
		info.UserID = userID
	}
}

func UserIDFromContext(ctx context.Context) string {
	if info, ok := lookup(ctx); ok {
		return info.UserID
	}
	return ""
}

// Steps 는 지금까지의 외부 호출 수다.
func Steps(ctx context.Context) string {
	if info, ok := lookup(ctx); ok {
		return strconv.FormatInt(info.steps.Load(), 10)
	}
	return "0"
}

// NextStep 은 외부 호출 순번을 올리고 (requestID, step) 을 돌려준다.
// HTTP 요청 밖(CLI)에서는 새 id 와 "1" 이다.
func NextStep(ctx context.Context) (string, string) {
	info, ok := lookup(ctx)
	if !ok {
		return GenerateID(), "1"
	}
	return info.RequestID, strconv.FormatInt(info.steps.Add(1), 10)
}

package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// ErrQuotaExhausted is returned once the daily request cap is used up.
var ErrQuotaExhausted = errors.New("daily gemini request quota exhausted")

// Quota 는 generateContent 호출의 분당 간격과 일일 한도를 관리한다.
// 프로세스 하나를 전제로 한 인메모리 카운터이며 재시작하면 초기화된다.
type Quota struct {
	mu sync.Mutex

	perDay    int
	usedToday int
	dayKey    string

	interval time.Duration
	lastCall time.Time

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// NewQuota returns nil when both limits are disabled (<= 0).
func NewQuota(perMinute, perDay int) *Quota {
	if perMinute <= 0 && perDay <= 0 {
		return nil
	}
	q := &Quota{now: time.Now, after: time.After}
	if perDay > 0 {
		q.perDay = perDay
	}
	if perMinute > 0 {
		q.interval = time.Minute / time.Duration(perMinute)
	}
	return q
}

// Reserve blocks until the next call is allowed by the per-minute spacing and
// counts it against the daily cap. A nil Quota never limits.
func (q *Quota) Reserve(ctx context.Context) error {
	if q == nil {
		return nil
	}
	for {
		q.mu.Lock()
		now := q.now().UTC()
		if today := now.Format(time.DateOnly); q.dayKey != today {
			q.dayKey = today
			q.usedToday = 0
		}
		if q.perDay > 0 && q.usedToday >= q.perDay {
			q.mu.Unlock()
			return &StatusError{
				StatusCode: http.StatusTooManyRequests,
				Status:     "RESOURCE_EXHAUSTED",
				Message:    ErrQuotaExhausted.Error(),
				Cause:      ErrQuotaExhausted,
			}
		}

		var delay time.Duration
		if q.interval > 0 && !q.lastCall.IsZero() {
			delay = q.lastCall.Add(q.interval).Sub(now)
		}
		if delay <= 0 {
			q.usedToday++
			q.lastCall = now
			q.mu.Unlock()
			return nil
		}
		q.mu.Unlock()

		select {
		case <-q.after(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

package refinement

import (
	"context"
	"errors"
	"time"

	"github.com/gookit/slog"

	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/eventbus"
)

// Option customizes executors, orchestrators and reconcilers.
type Option func(*settings)

type settings struct {
	sleeper     func(time.Duration)
	now         func() time.Time
	logger      *slog.Logger
	publisher   eventbus.Publisher
	topic       string
	concurrency int
}

// WithSleeper overrides how waits are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(s *settings) {
		s.sleeper = sleeper
	}
}

// WithClock overrides the time source used for durations and progress stamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublisher sends lifecycle events to topic.
func WithPublisher(publisher eventbus.Publisher, topic string) Option {
	return func(s *settings) {
		s.publisher = publisher
		s.topic = topic
	}
}

// WithConcurrency bounds the concurrent post writes of a reconciliation.
func WithConcurrency(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		now:         time.Now,
		logger:      config.Logger,
		concurrency: 8,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// sleep waits for delay or until ctx is done.
func (s settings) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx == nil {
		return errors.New("refinement: nil context")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.sleeper != nil {
		s.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

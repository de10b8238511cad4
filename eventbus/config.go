package eventbus

import (
	"context"

	"github.com/gookit/slog"

	"github.com/sickboy0001/ZeSecThinkV2/config"
)

// FromConfig 는 브로커가 설정되어 있으면 Kafka 버스를, 아니면 no-op 버스를 돌려준다.
// Kafka 초기화 실패도 no-op 으로 대체한다. 이벤트는 알림일 뿐이다.
func FromConfig(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) EventBus {
	if cfg.Brokers == "" {
		logger.Info("kafka brokers not configured; refinement events are not published")
		return NopEventBus{}
	}
	if err := EnsureTopic(ctx, cfg.Brokers, cfg.Topic, 1); err != nil {
		logger.Warnf("ensure topic %s: %v", cfg.Topic, err)
	}
	bus, err := NewKafkaEventBus(cfg.Brokers, logger)
	if err != nil {
		logger.Warnf("kafka event bus: %v; falling back to no-op", err)
		return NopEventBus{}
	}
	return bus
}

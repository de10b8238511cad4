package refinement

import (
	"context"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/eventbus"
	"github.com/sickboy0001/ZeSecThinkV2/events"
)

const publishTimeout = 5 * time.Second

// publish sends a lifecycle event. Failures are logged and never change the
// outcome of the operation that produced the event.
func (s settings) publish(ctx context.Context, event any) {
	if s.publisher == nil || s.topic == "" {
		return
	}
	id, eventType, err := events.Meta(event)
	if err != nil {
		s.logger.Errorf("event meta: %v", err)
		return
	}
	evt, err := eventbus.NewJSONEvent(id, string(eventType), event)
	if err != nil {
		s.logger.Errorf("event %s encode: %v", eventType, err)
		return
	}

	// 호출 측 ctx 가 취소돼도 이벤트는 보낸다.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, s.topic, evt); err != nil {
		s.logger.Warnf("event %s publish failed: %v", eventType, err)
	}
}

package eventbus

import (
	"context"
	"encoding/json"
	"time"
)

// Event는 Kafka 메시지의 페이로드로 사용되는 구조체입니다.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EventHandler는 이벤트 처리 함수의 시그니처입니다.
type EventHandler func(ctx context.Context, event Event) error

// Publisher 는 이벤트 발행만 필요한 쪽(파이프라인, 서비스)에서 사용한다.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

// EventBus 인터페이스는 이벤트 발행 및 구독의 추상화를 정의합니다.
type EventBus interface {
	Publisher
	// Subscribe는 토픽을 구독하고 ctx 가 끝날 때까지 handler 를 호출합니다.
	Subscribe(ctx context.Context, groupID string, topic string, handler EventHandler) error
	Close()
}

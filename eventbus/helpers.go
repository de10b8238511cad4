package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewJSONEvent 는 payload 를 JSON 으로 감싼 이벤트를 만든다. id 가 비면 UUID 를 쓴다.
func NewJSONEvent(id string, eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	if id == "" {
		id = uuid.NewString()
	}
	return Event{ID: id, Type: eventType, Payload: raw, OccurredAt: time.Now().UTC()}, nil
}

func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		return *new(T), fmt.Errorf("decode %s payload: %w", evt.Type, err)
	}
	return out, nil
}

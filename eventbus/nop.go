package eventbus

import "context"

// NopEventBus 는 브로커가 설정되지 않았을 때 사용한다. 발행은 버리고 구독은 ctx 종료까지 대기한다.
type NopEventBus struct{}

func (NopEventBus) Publish(context.Context, string, Event) error { return nil }

func (NopEventBus) Subscribe(ctx context.Context, _ string, _ string, _ EventHandler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (NopEventBus) Close() {}

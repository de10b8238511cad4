package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/gookit/slog"
)

const (
	headerEventType = "event_type"
	flushTimeoutMs  = 5000
	pollInterval    = 100 * time.Millisecond
)

// KafkaEventBus 는 배치 알림 이벤트를 Kafka 로 주고받는다.
type KafkaEventBus struct {
	brokers  string
	producer *kafka.Producer
	log      *slog.Logger
}

func NewKafkaEventBus(brokers string, logger *slog.Logger) (*KafkaEventBus, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
		"client.id":         "zesecthink",
	})
	if err != nil {
		return nil, fmt.Errorf("producer 초기화: %w", err)
	}

	bus := &KafkaEventBus{brokers: brokers, producer: producer, log: logger}
	go bus.drainProducerEvents()
	return bus, nil
}

// drainProducerEvents 는 delivery channel 없이 도착한 보고와 클라이언트 오류를 기록한다.
func (k *KafkaEventBus) drainProducerEvents() {
	for e := range k.producer.Events() {
		if ev, ok := e.(kafka.Error); ok {
			k.log.Errorf("kafka client: %v", ev)
			continue
		}
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			k.log.Errorf("delivery to %s: %v", m.TopicPartition, m.TopicPartition.Error)
		}
	}
}

func (k *KafkaEventBus) Close() {
	if k.producer == nil {
		return
	}
	if left := k.producer.Flush(flushTimeoutMs); left > 0 {
		k.log.Warnf("kafka producer closed with %d undelivered message(s)", left)
	}
	k.producer.Close()
	k.log.Info("kafka producer closed")
}

// Publish 는 이벤트 ID 를 키로 보내고 브로커 확인(ack)까지 기다린다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ID),
		Value:          value,
		Headers:        []kafka.Header{{Key: headerEventType, Value: []byte(event.Type)}},
	}
	delivered := make(chan kafka.Event, 1)
	if err := k.producer.Produce(msg, delivered); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return awaitDelivery(ctx, delivered)
}

func awaitDelivery(ctx context.Context, delivered <-chan kafka.Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-delivered:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery report %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery to %s: %w", m.TopicPartition, m.TopicPartition.Error)
		}
		return nil
	}
}

// Subscribe 는 ctx 가 끝날 때까지 topic 을 읽는다.
// 알림 이벤트라 재처리하지 않는다. handler 가 실패해도 오프셋은 커밋한다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic string, handler EventHandler) error {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  k.brokers,
		"group.id":           groupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return fmt.Errorf("consumer 초기화: %w", err)
	}
	defer consumer.Close()

	if err := consumer.SubscribeTopics([]string{topic}, nil); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	k.log.Infof("consumer group %s listening on %s", groupID, topic)

	for ctx.Err() == nil {
		msg, err := consumer.ReadMessage(pollInterval)
		if err != nil {
			if fatal := readError(err); fatal != nil {
				return fatal
			}
			continue
		}

		k.dispatch(ctx, msg, handler)
		if _, err := consumer.CommitMessage(msg); err != nil {
			k.log.Errorf("commit %s: %v", msg.TopicPartition, err)
		}
	}
	k.log.Infof("consumer group %s stopped", groupID)
	return ctx.Err()
}

func (k *KafkaEventBus) dispatch(ctx context.Context, msg *kafka.Message, handler EventHandler) {
	var evt Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		k.log.Errorf("skip undecodable message at %s: %v", msg.TopicPartition, err)
		return
	}
	if err := handler(ctx, evt); err != nil {
		k.log.Errorf("handle event %s (%s): %v", evt.ID, evt.Type, err)
	}
}

// readError 는 poll 타임아웃과 일시 오류에는 nil 을, 치명적 오류에만 error 를 돌려준다.
func readError(err error) error {
	var kerr kafka.Error
	if !errors.As(err, &kerr) {
		return nil
	}
	if kerr.IsFatal() {
		return fmt.Errorf("consumer fatal: %w", err)
	}
	return nil
}

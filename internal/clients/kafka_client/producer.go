package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sethvargo/go-retry"
	"github.com/spacesedan/reviewpulse/internal/clients"
)

type Producer struct {
	producer *kafka.Producer
}

func NewProducer(cfg KafkaConfig) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Producer{producer: p}, nil
}

func (p *Producer) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// Publish serializes value to JSON and blocks until the broker acknowledges
// delivery, retrying transient failures.
func Publish[T any](ctx context.Context, p *Producer, topic, key string, value T) error {
	msg, err := encodeMessage(topic, key, value)
	if err != nil {
		return err
	}

	err = clients.Retry(ctx, "KafkaClient", func(ctx context.Context) error {
		err := p.deliver(ctx, msg)
		if err != nil && isRetriable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to publish to %s: %w", topic, err)
	}

	slog.Debug("[KafkaClient] Published message",
		slog.String("topic", topic),
		slog.String("key", key))
	return nil
}

// encodeMessage builds an unpartitioned message carrying value as JSON.
// An empty key leaves the message unkeyed.
func encodeMessage(topic, key string, value any) (*kafka.Message, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] failed to serialize message: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
	}
	if key != "" {
		msg.Key = []byte(key)
	}
	return msg, nil
}

func (p *Producer) deliver(ctx context.Context, msg *kafka.Message) error {
	deliveryChan := make(chan kafka.Event, 1)
	if err := p.producer.Produce(msg, deliveryChan); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, DELIVERY_TIMEOUT)
	defer cancel()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event: %v", ev)
		}
		return m.TopicPartition.Error
	}
}

// TopicPublisher binds a producer to one topic.
type TopicPublisher[T any] struct {
	producer *Producer
	topic    string
}

func NewTopicPublisher[T any](p *Producer, topic string) *TopicPublisher[T] {
	return &TopicPublisher[T]{producer: p, topic: topic}
}

func (tp *TopicPublisher[T]) Publish(ctx context.Context, key string, value T) error {
	return Publish(ctx, tp.producer, tp.topic, key, value)
}

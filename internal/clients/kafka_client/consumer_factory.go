package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type ConsumerFunc func(context.Context, *kafka.Consumer) error

var consumerRegistry = make(map[string]ConsumerFunc)

func RegisterConsumer(topic string, consumerFunc ConsumerFunc) {
	consumerRegistry[topic] = consumerFunc
}

func StartConsumer(ctx context.Context, cfg KafkaConfig) error {
	consumerFunc, exists := consumerRegistry[cfg.Topic]
	if !exists {
		return fmt.Errorf("[ConsumerFactory] No consumer found for topic: %s", cfg.Topic)
	}

	consumer, err := NewConsumer(cfg)
	if err != nil {
		return fmt.Errorf("[ConsumerFactory] Failed to initialize Kafka consumer: %w", err)
	}
	defer consumer.Close()

	slog.Info("[ConsumerFactory] Starting consumer for topic...", slog.String("topic", cfg.Topic))
	return consumerFunc(ctx, consumer)
}

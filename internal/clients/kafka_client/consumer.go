package kafka_client

import (
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// NewConsumer creates a manually committing consumer subscribed to cfg.Topic.
func NewConsumer(cfg KafkaConfig) (*kafka.Consumer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Consumer...",
		slog.String("broker", cfg.Broker),
		slog.String("group_id", cfg.GroupID),
		slog.String("topic", cfg.Topic))

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
		"isolation.level":    "read_committed",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create consumer: %w", err)
	}

	if err := c.SubscribeTopics([]string{cfg.Topic}, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("[KafkaClient] Failed to subscribe to topic %s: %w", cfg.Topic, err)
	}

	slog.Info("[KafkaClient] Kafka Consumer initialized successfully")
	return c, nil
}

func isRetriable(err error) bool {
	kafkaErr, ok := err.(kafka.Error)
	if !ok {
		return false
	}
	if kafkaErr.Code() == kafka.ErrAllBrokersDown {
		return false
	}
	return kafkaErr.IsRetriable() || kafkaErr.Code() == kafka.ErrQueueFull || kafkaErr.Code() == kafka.ErrTransport
}

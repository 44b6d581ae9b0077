package kafka_client

import (
	"context"
	"errors"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sethvargo/go-retry"
	"github.com/spacesedan/reviewpulse/internal/clients"
)

type KafkaCommitHandler struct {
	consumer *kafka.Consumer
	ctx      context.Context
}

func NewCommitHandler(ctx context.Context, consumer *kafka.Consumer) *KafkaCommitHandler {
	return &KafkaCommitHandler{
		consumer: consumer,
		ctx:      ctx,
	}
}

func (ch *KafkaCommitHandler) Commit(msg *kafka.Message) error {
	if ch.consumer == nil {
		return errors.New("[KafkaCommitHandler] Kafka consumer has not been initialized")
	}

	err := clients.Retry(ch.ctx, "KafkaCommitHandler", func(ctx context.Context) error {
		_, err := ch.consumer.CommitMessage(msg)
		if err != nil && isRetriable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return err
	}

	slog.Debug("[KafkaCommitHandler] Committed offset",
		slog.Int("partition", int(msg.TopicPartition.Partition)),
		slog.Int64("offset", int64(msg.TopicPartition.Offset)))
	return nil
}

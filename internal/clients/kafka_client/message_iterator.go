package kafka_client

import (
	"context"
	"errors"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sethvargo/go-retry"
	"github.com/spacesedan/reviewpulse/internal/clients"
)

type KafkaMessageIterator struct {
	consumer *kafka.Consumer
	ctx      context.Context
}

func NewKafkaMessageIterator(ctx context.Context, consumer *kafka.Consumer) *KafkaMessageIterator {
	return &KafkaMessageIterator{
		consumer: consumer,
		ctx:      ctx,
	}
}

// Next polls for up to POLL_TIMEOUT. It returns (nil, nil) when no message
// arrived so callers can service timers between polls.
func (it *KafkaMessageIterator) Next() (*kafka.Message, error) {
	if it.consumer == nil {
		return nil, errors.New("[KafkaIterator] Kafka consumer has not been initialized")
	}

	var msg *kafka.Message
	err := clients.Retry(it.ctx, "KafkaIterator", func(ctx context.Context) error {
		m, err := it.consumer.ReadMessage(POLL_TIMEOUT)
		if err != nil {
			var kafkaErr kafka.Error
			if errors.As(err, &kafkaErr) && kafkaErr.Code() == kafka.ErrTimedOut {
				return nil
			}
			if isRetriable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		msg = m
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("[KafkaIterator] Context cancelled, stopping iterator")
		}
		return nil, err
	}

	return msg, nil
}

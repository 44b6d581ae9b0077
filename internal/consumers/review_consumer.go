package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/reviewpulse/internal/clients/kafka_client"
	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
	"github.com/spacesedan/reviewpulse/internal/utils"
)

const shutdownFlushTimeout = 10 * time.Second

type MessageSource interface {
	Next() (*kafka.Message, error)
}

type OffsetCommitter interface {
	Commit(msg *kafka.Message) error
}

type ResultPublisher interface {
	Publish(ctx context.Context, key string, batch []models.AnalyzedReview) error
}

type ReviewConsumerOptions struct {
	BatchSize    int
	BatchTimeout time.Duration
}

// ReviewConsumer analyzes raw reviews and publishes the results in batches.
// Offsets are committed only after the batch containing them is published.
type ReviewConsumer struct {
	analyzer  *sentiment.Analyzer
	publisher ResultPublisher
	committer OffsetCommitter
	buffer    *utils.BatchBuffer[models.AnalyzedReview]
	tracker   *utils.MessageTracker
	timeout   time.Duration
	now       func() time.Time
}

func NewReviewConsumer(analyzer *sentiment.Analyzer, publisher ResultPublisher, committer OffsetCommitter, opts ReviewConsumerOptions) *ReviewConsumer {
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 5 * time.Second
	}
	return &ReviewConsumer{
		analyzer:  analyzer,
		publisher: publisher,
		committer: committer,
		buffer:    utils.NewBatchBuffer[models.AnalyzedReview](opts.BatchSize),
		tracker:   utils.NewMessageTracker(),
		timeout:   opts.BatchTimeout,
		now:       time.Now,
	}
}

// Run reads from source until ctx is canceled, then flushes what is buffered.
func (c *ReviewConsumer) Run(ctx context.Context, source MessageSource) error {
	slog.Info("[ReviewConsumer] Listening for messages...")

	ticker := time.NewTicker(c.timeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[ReviewConsumer] Stopping consumer...",
				slog.Int("buffered", c.buffer.Size()))
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
			defer cancel()
			return c.Flush(flushCtx)
		case <-ticker.C:
			if err := c.Flush(ctx); err != nil {
				slog.Error("[ReviewConsumer] Scheduled flush failed",
					slog.String("error", err.Error()))
			}
		default:
			msg, err := source.Next()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				slog.Error("[ReviewConsumer] Kafka consumer error",
					slog.String("error", err.Error()))
				continue
			}
			if msg == nil {
				continue
			}

			if full := c.Handle(msg); full {
				if err := c.Flush(ctx); err != nil {
					slog.Error("[ReviewConsumer] Batch flush failed",
						slog.String("error", err.Error()))
				}
			}
		}
	}
}

// Handle analyzes one message and reports whether the batch is full.
// Undecodable or empty reviews are skipped but still tracked so their offsets
// advance with the next flush.
func (c *ReviewConsumer) Handle(msg *kafka.Message) bool {
	c.tracker.Track(msg)

	raw, err := decodeRawReview(msg)
	if err != nil {
		slog.Warn("[ReviewConsumer] Skipping undecodable message",
			slog.Int64("offset", int64(msg.TopicPartition.Offset)),
			slog.String("error", err.Error()))
		return false
	}

	result, err := c.analyzer.Analyze(raw.Text, false)
	if err != nil {
		slog.Warn("[ReviewConsumer] Skipping review",
			slog.String("review_id", raw.ReviewID),
			slog.String("error", err.Error()))
		return false
	}

	return c.buffer.Add(utils.ToAnalyzedReview(raw, *result, c.now()))
}

// decodeRawReview reads a RawReview from the message value. The message key
// stands in for a missing review id.
func decodeRawReview(msg *kafka.Message) (models.RawReview, error) {
	var raw models.RawReview
	if err := json.Unmarshal(msg.Value, &raw); err != nil {
		return models.RawReview{}, err
	}
	if raw.ReviewID == "" && msg.Key != nil {
		raw.ReviewID = string(msg.Key)
	}
	return raw, nil
}

// Flush publishes buffered results and then commits the tracked offsets. On
// publish failure the batch goes back into the buffer and nothing is committed.
func (c *ReviewConsumer) Flush(ctx context.Context) error {
	if c.buffer.HasData() {
		c.buffer.LogBatchProcessing("analyzed_reviews")
		batch := c.buffer.GetAndClear()
		if err := c.publisher.Publish(ctx, batch[0].ReviewID, batch); err != nil {
			for _, review := range batch {
				c.buffer.Add(review)
			}
			slog.Warn("[ReviewConsumer] Publish failed, batch requeued",
				slog.Int("buffered", c.buffer.Size()))
			return err
		}
	}

	var commitErr error
	for _, msg := range c.tracker.Drain() {
		if err := c.committer.Commit(msg); err != nil {
			slog.Warn("[ReviewConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
			commitErr = errors.Join(commitErr, err)
		}
	}
	return commitErr
}

// StartReviewConsumer wires a ReviewConsumer to a live Kafka consumer.
func StartReviewConsumer(analyzer *sentiment.Analyzer, producer *kafka_client.Producer, cfg kafka_client.KafkaConfig, opts ReviewConsumerOptions) kafka_client.ConsumerFunc {
	return func(ctx context.Context, consumer *kafka.Consumer) error {
		iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
		committer := kafka_client.NewCommitHandler(context.WithoutCancel(ctx), consumer)
		publisher := kafka_client.NewTopicPublisher[[]models.AnalyzedReview](producer, cfg.ResultsTopic)

		return NewReviewConsumer(analyzer, publisher, committer, opts).Run(ctx, iterator)
	}
}

package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchBuffer(t *testing.T) {
	b := NewBatchBuffer[int](3)

	assert.False(t, b.HasData())
	assert.Nil(t, b.GetAndClear())

	assert.False(t, b.Add(1))
	assert.False(t, b.Add(2))
	assert.True(t, b.Add(3))
	assert.Equal(t, 3, b.Size())

	assert.Equal(t, []int{1, 2, 3}, b.GetAndClear())
	assert.False(t, b.HasData())
}

func TestBatchBufferConcurrentAdds(t *testing.T) {
	b := NewBatchBuffer[int](10)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			b.Add(n)
		}(i)
	}
	wg.Wait()

	assert.Len(t, b.GetAndClear(), 100)
}

func message(topic string, partition int32, offset int64) *kafka.Message {
	return &kafka.Message{TopicPartition: kafka.TopicPartition{
		Topic:     &topic,
		Partition: partition,
		Offset:    kafka.Offset(offset),
	}}
}

func TestMessageTrackerKeepsFurthestOffsetPerPartition(t *testing.T) {
	tracker := NewMessageTracker()

	tracker.Track(message("review-raw", 0, 5))
	tracker.Track(message("review-raw", 0, 7))
	tracker.Track(message("review-raw", 0, 6))
	tracker.Track(message("review-raw", 1, 2))
	tracker.Track(nil)

	require.Equal(t, 2, tracker.Pending())

	offsets := map[int32]kafka.Offset{}
	for _, msg := range tracker.Drain() {
		offsets[msg.TopicPartition.Partition] = msg.TopicPartition.Offset
	}
	assert.Equal(t, map[int32]kafka.Offset{0: 7, 1: 2}, offsets)
	assert.Zero(t, tracker.Pending())
	assert.Nil(t, tracker.Drain())
}

func TestToAnalyzedReview(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("PDT", -7*3600))
	raw := models.RawReview{ReviewID: "r-1", Text: "great battery"}
	result := models.AnalysisResult{Relevant: true, Sentiment: models.LabelPositive, Polarity: 0.5}

	out := ToAnalyzedReview(raw, result, at)

	assert.Equal(t, "r-1", out.ReviewID)
	assert.Equal(t, models.LabelPositive, out.Sentiment)
	assert.Equal(t, time.UTC, out.AnalyzedAt.Location())
	assert.True(t, out.AnalyzedAt.Equal(at))
}

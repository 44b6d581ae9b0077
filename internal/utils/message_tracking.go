package utils

import (
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type partitionKey struct {
	topic     string
	partition int32
}

// MessageTracker remembers the furthest message seen on each partition so
// offsets can be committed once the work derived from them is published.
type MessageTracker struct {
	mu       sync.Mutex
	messages map[partitionKey]*kafka.Message
}

func NewMessageTracker() *MessageTracker {
	return &MessageTracker{messages: make(map[partitionKey]*kafka.Message)}
}

func (t *MessageTracker) Track(msg *kafka.Message) {
	if msg == nil {
		return
	}

	key := partitionKey{partition: msg.TopicPartition.Partition}
	if msg.TopicPartition.Topic != nil {
		key.topic = *msg.TopicPartition.Topic
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.messages[key]; ok && prev.TopicPartition.Offset >= msg.TopicPartition.Offset {
		return
	}
	t.messages[key] = msg
}

// Drain returns the tracked messages and forgets them.
func (t *MessageTracker) Drain() []*kafka.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.messages) == 0 {
		return nil
	}

	out := make([]*kafka.Message, 0, len(t.messages))
	for _, msg := range t.messages {
		out = append(out, msg)
	}
	t.messages = make(map[partitionKey]*kafka.Message)
	return out
}

func (t *MessageTracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

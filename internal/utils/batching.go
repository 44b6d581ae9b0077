package utils

import (
	"log/slog"
	"sync"
)

type BatchBuffer[T any] struct {
	buffer     []T
	capacity   int
	bufferLock sync.Mutex
}

func NewBatchBuffer[T any](capacity int) *BatchBuffer[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &BatchBuffer[T]{
		buffer:   make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Add appends item and reports whether the buffer reached capacity.
func (b *BatchBuffer[T]) Add(item T) bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(b.buffer, item)
	return len(b.buffer) >= b.capacity
}

func (b *BatchBuffer[T]) GetAndClear() []T {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	if len(b.buffer) == 0 {
		return nil
	}

	batch := b.buffer
	b.buffer = make([]T, 0, b.capacity)
	return batch
}

func (b *BatchBuffer[T]) Size() int {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer)
}

func (b *BatchBuffer[T]) HasData() bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer) > 0
}

func (b *BatchBuffer[T]) LogBatchProcessing(batchType string) {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	slog.Info("[BatchBuffer] Processing batch",
		slog.String("type", batchType),
		slog.Int("batch_size", len(b.buffer)))
}

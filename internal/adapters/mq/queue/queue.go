// Package queue defines the contract for enqueuing and consuming score updates.
//
// Implementations may use channels or more advanced structures. The default
// is an in-memory bounded queue.
package queue

import (
	"context"
	"sync"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 100000
)

// Update represents the payload type flowing through the queue.
type Update = model.ScoreUpdate

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an update to the queue.
	// Returns false if the queue is full and the update was not enqueued.
	Enqueue(ctx context.Context, u Update) bool

	// Dequeue returns a channel that will receive updates as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Update

	// Len returns the current number of queued updates.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new updates can be enqueued and the dequeue channel
	// will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	updates  chan Update
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	q.updates = make(chan Update, q.capacity)

	// Initialize metrics
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds an update to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, u Update) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.updates <- u:
		metrics.RecordQueueEnqueue()
		size := len(q.updates)
		metrics.UpdateQueueSize(size)
		metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive updates as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Update {
	// Wrap the channel to track dequeue metrics.
	out := make(chan Update)
	go func() {
		defer close(out)
		for u := range q.updates {
			select {
			case out <- u:
				metrics.RecordQueueDequeue()
				size := len(q.updates)
				metrics.UpdateQueueSize(size)
				metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued updates.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.updates)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	close(q.updates)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

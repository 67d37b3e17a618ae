package queue

import (
	"context"
)

// JobQueue is the interface between this engine (publisher) and the
// occurrence generator (consumer)
type JobQueue interface {
	// Enqueue adds a job to the queue
	Enqueue(ctx context.Context, job *Job) error

	// Consume returns a channel of messages from the queue.
	// Messages are delivered asynchronously; the caller must ack each one.
	// Prefetch controls how many unacknowledged messages a consumer holds.
	Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error)

	// HealthCheck verifies the queue connection is healthy
	HealthCheck(ctx context.Context) error

	// Close closes the queue connection
	Close() error
}

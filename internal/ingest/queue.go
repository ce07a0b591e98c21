// Package ingest decouples webhook acceptance from event processing. The
// HTTP handler hands a parsed event to the queue and returns immediately;
// a single background worker drains the queue and runs the processor.
// Callers must not depend on ordering or completion of queued work.
package ingest

import (
	"context"
	"log"
	"sync"

	"autodocgen/internal/trello"
)

const defaultCapacity = 256

// Processor handles one queued event. Errors are logged on this side of
// the boundary and never reach the HTTP acceptance path.
type Processor interface {
	Process(ctx context.Context, event trello.WebhookEvent) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, event trello.WebhookEvent) error

func (f ProcessorFunc) Process(ctx context.Context, event trello.WebhookEvent) error {
	return f(ctx, event)
}

// Queue is a bounded fire-and-forget task queue with one worker goroutine.
type Queue struct {
	processor Processor
	tasks     chan trello.WebhookEvent
	done      chan struct{}
	closeOnce sync.Once
}

// QueueOption customizes queue construction.
type QueueOption func(*queueConfig)

type queueConfig struct {
	capacity int
}

// WithCapacity overrides the buffered channel size.
func WithCapacity(n int) QueueOption {
	return func(c *queueConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewQueue starts the worker and returns the queue. ctx bounds the work the
// processor does for each event, not the lifetime of the queue; stop the
// queue with Close.
func NewQueue(ctx context.Context, processor Processor, opts ...QueueOption) *Queue {
	cfg := queueConfig{capacity: defaultCapacity}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	q := &Queue{
		processor: processor,
		tasks:     make(chan trello.WebhookEvent, cfg.capacity),
		done:      make(chan struct{}),
	}
	go q.run(ctx)
	return q
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.done)
	for event := range q.tasks {
		if err := q.processor.Process(ctx, event); err != nil {
			log.Printf("ingest: event %s dropped: %v", event.Action.ID, err)
		}
	}
}

// Dispatch enqueues an event without blocking. When the queue is saturated
// the event is dropped with a log line; upstream retries redeliver it and
// the dedup key keeps redelivery harmless.
func (q *Queue) Dispatch(event trello.WebhookEvent) bool {
	select {
	case q.tasks <- event:
		return true
	default:
		log.Printf("ingest: queue full, dropping event %s", event.Action.ID)
		return false
	}
}

// Close stops accepting events, lets the worker drain what was already
// queued, and waits for it to exit.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.tasks)
	})
	<-q.done
}

package unit_tests

import (
	"context"
	"errors"
	"testing"

	"autodocgen/internal/ingest"
	"autodocgen/internal/trello"

	"github.com/stretchr/testify/assert"
)

func queuedEvent(id string) trello.WebhookEvent {
	return trello.WebhookEvent{Action: trello.Action{ID: id, Type: "createCard"}}
}

func TestQueue_ProcessesDispatchedEvents(t *testing.T) {
	processed := make(chan string, 8)
	queue := ingest.NewQueue(context.Background(), ingest.ProcessorFunc(
		func(ctx context.Context, event trello.WebhookEvent) error {
			processed <- event.Action.ID
			return nil
		},
	))

	assert.True(t, queue.Dispatch(queuedEvent("a1")))
	assert.True(t, queue.Dispatch(queuedEvent("a2")))
	assert.True(t, queue.Dispatch(queuedEvent("a3")))
	queue.Close()
	close(processed)

	var ids []string
	for id := range processed {
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"a1", "a2", "a3"}, ids)
}

func TestQueue_DispatchDropsWhenSaturated(t *testing.T) {
	entered := make(chan string, 8)
	gate := make(chan struct{})
	queue := ingest.NewQueue(context.Background(), ingest.ProcessorFunc(
		func(ctx context.Context, event trello.WebhookEvent) error {
			entered <- event.Action.ID
			<-gate
			return nil
		},
	), ingest.WithCapacity(1))

	// Worker picks up the first event and blocks inside the processor.
	assert.True(t, queue.Dispatch(queuedEvent("a1")))
	<-entered

	// One buffer slot is free again; the next event fills it, the one after
	// that has nowhere to go.
	assert.True(t, queue.Dispatch(queuedEvent("a2")))
	assert.False(t, queue.Dispatch(queuedEvent("a3")))

	close(gate)
	queue.Close()
	close(entered)

	var ids []string
	for id := range entered {
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"a2"}, ids)
}

func TestQueue_ProcessorErrorsDoNotStopWorker(t *testing.T) {
	processed := make(chan string, 8)
	queue := ingest.NewQueue(context.Background(), ingest.ProcessorFunc(
		func(ctx context.Context, event trello.WebhookEvent) error {
			processed <- event.Action.ID
			if event.Action.ID == "bad" {
				return errors.New("storage unavailable")
			}
			return nil
		},
	))

	assert.True(t, queue.Dispatch(queuedEvent("bad")))
	assert.True(t, queue.Dispatch(queuedEvent("good")))
	queue.Close()
	close(processed)

	var ids []string
	for id := range processed {
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"bad", "good"}, ids)
}

func TestQueue_CloseIsIdempotent(t *testing.T) {
	queue := ingest.NewQueue(context.Background(), ingest.ProcessorFunc(
		func(ctx context.Context, event trello.WebhookEvent) error { return nil },
	))
	queue.Close()
	queue.Close()
}

package snapshot

import (
	"context"
	"fmt"
)

// BufferedQueue is a single-producer, one-element look-ahead stage in front of a Sink: each
// Enqueue first pushes any previously held element, then holds the new one. This lets Flush
// rewrite the *last* event's offset (to carry the LAST snapshot marker) without re-emitting or
// reordering anything already pushed to the sink.
//
// Contract: Enqueue is FIFO; at most one element is held at a time; Flush is called exactly once,
// at end-of-snapshot, on a successful run, and never on an aborted run.
type BufferedQueue struct {
	sink Sink
	held any
	has  bool
}

func NewBufferedQueue(sink Sink) *BufferedQueue {
	return &BufferedQueue{sink: sink}
}

// Enqueue pushes the previously held element (if any) to the sink, then holds x.
func (q *BufferedQueue) Enqueue(ctx context.Context, x any) error {
	if q.has {
		if err := q.sink.Enqueue(ctx, q.held); err != nil {
			return fmt.Errorf("failed to push held element: %w", err)
		}
	}

	q.held = x
	q.has = true
	return nil
}

// Flush applies transform to the held element (if any) and pushes it to the sink. It is the only
// way the held element's offset can be rewritten before it reaches the sink.
func (q *BufferedQueue) Flush(ctx context.Context, transform func(any) any) error {
	if !q.has {
		return nil
	}

	final := q.held
	if transform != nil {
		final = transform(final)
	}

	if err := q.sink.Enqueue(ctx, final); err != nil {
		return fmt.Errorf("failed to push final element: %w", err)
	}

	q.held = nil
	q.has = false
	return nil
}

// Close discards the held element without pushing it, for use on an aborted run where the partial
// stream already pushed to the sink remains the valid IN_PROGRESS record set.
func (q *BufferedQueue) Close() {
	q.held = nil
	q.has = false
}

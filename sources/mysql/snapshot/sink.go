package snapshot

import (
	"context"
	"fmt"
	"sync"
)

// Sink is the downstream transport the snapshot core writes into. Enqueue is expected to apply
// backpressure by blocking; it must return ctx.Err() promptly once ctx is cancelled so the
// orchestrator's cooperative-cancellation checks are not defeated by a stuck sink.
type Sink interface {
	Enqueue(ctx context.Context, event any) error
}

// MemorySink is an in-memory Sink used by tests and by any caller that wants to inspect the
// emitted stream directly rather than routing it through Kafka.
type MemorySink struct {
	mu     sync.Mutex
	Events []any
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Enqueue(ctx context.Context, event any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sink enqueue cancelled: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
	return nil
}

func (s *MemorySink) Snapshot() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.Events...)
}

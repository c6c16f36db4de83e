package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemorySink_Enqueue(t *testing.T) {
	sink := NewMemorySink()

	assert.NoError(t, sink.Enqueue(context.Background(), "event-1"))
	assert.NoError(t, sink.Enqueue(context.Background(), "event-2"))

	assert.Equal(t, []any{"event-1", "event-2"}, sink.Snapshot())
}

func TestMemorySink_Enqueue_CancelledContext(t *testing.T) {
	sink := NewMemorySink()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.Enqueue(ctx, "event-1")
	assert.ErrorContains(t, err, "cancelled")
	assert.Empty(t, sink.Snapshot())
}

func TestMemorySink_Snapshot_IsACopy(t *testing.T) {
	sink := NewMemorySink()
	assert.NoError(t, sink.Enqueue(context.Background(), "event-1"))

	snap := sink.Snapshot()
	snap[0] = "mutated"

	assert.Equal(t, []any{"event-1"}, sink.Snapshot())
}

package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedQueue_HoldsOneElementBack(t *testing.T) {
	sink := NewMemorySink()
	queue := NewBufferedQueue(sink)

	assert.NoError(t, queue.Enqueue(context.Background(), "a"))
	assert.Empty(t, sink.Snapshot(), "first element should be held, not pushed yet")

	assert.NoError(t, queue.Enqueue(context.Background(), "b"))
	assert.Equal(t, []any{"a"}, sink.Snapshot(), "enqueueing a second element pushes the first")

	assert.NoError(t, queue.Flush(context.Background(), nil))
	assert.Equal(t, []any{"a", "b"}, sink.Snapshot())
}

func TestBufferedQueue_FlushAppliesTransform(t *testing.T) {
	sink := NewMemorySink()
	queue := NewBufferedQueue(sink)

	assert.NoError(t, queue.Enqueue(context.Background(), "a"))
	assert.NoError(t, queue.Flush(context.Background(), func(x any) any {
		return x.(string) + "-rewritten"
	}))

	assert.Equal(t, []any{"a-rewritten"}, sink.Snapshot())
}

func TestBufferedQueue_FlushOnEmptyIsNoop(t *testing.T) {
	sink := NewMemorySink()
	queue := NewBufferedQueue(sink)

	assert.NoError(t, queue.Flush(context.Background(), nil))
	assert.Empty(t, sink.Snapshot())
}

func TestBufferedQueue_Close_DiscardsHeldElement(t *testing.T) {
	sink := NewMemorySink()
	queue := NewBufferedQueue(sink)

	assert.NoError(t, queue.Enqueue(context.Background(), "a"))
	queue.Close()

	assert.NoError(t, queue.Flush(context.Background(), nil))
	assert.Empty(t, sink.Snapshot(), "closed queue should not flush anything")
}

package snapshot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTypes_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("boom")

	{
		err := NewConfigError("bad config: %w", cause)
		assert.Equal(t, "config error: bad config: boom", err.Error())
		assert.ErrorIs(t, err, cause)
	}
	{
		err := NewPreconditionError("no rows: %w", cause)
		assert.Equal(t, "precondition error: no rows: boom", err.Error())
		assert.ErrorIs(t, err, cause)
	}
	{
		err := NewTransientError("skip me: %w", cause)
		assert.Equal(t, "transient error: skip me: boom", err.Error())
		assert.ErrorIs(t, err, cause)
	}
	{
		err := NewFatalError("abort: %w", cause)
		assert.Equal(t, "fatal error: abort: boom", err.Error())
		assert.ErrorIs(t, err, cause)
	}
	{
		err := NewCancellationError("stopped: %w", cause)
		assert.Equal(t, "cancellation error: stopped: boom", err.Error())
		assert.ErrorIs(t, err, cause)
	}
}

func TestErrorTypes_AsDiscrimination(t *testing.T) {
	wrapped := fmt.Errorf("wrapping: %w", NewTransientError("table enumeration failed"))

	var transient TransientError
	assert.True(t, errors.As(wrapped, &transient))

	var fatal FatalError
	assert.False(t, errors.As(wrapped, &fatal))
}

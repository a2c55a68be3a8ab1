package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailure_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	f := NewModelInvocationFailure("researcher", cause)

	assert.Contains(t, f.Error(), "model_invocation_error")
	assert.Contains(t, f.Error(), "researcher")
	assert.ErrorIs(t, f, cause)
}

func TestAsFailure(t *testing.T) {
	f := NewHandoffFailure("triage", "billing")
	wrapped := fmt.Errorf("run of agent %q: %w", "triage", f)

	got, ok := AsFailure(wrapped)
	assert.True(t, ok)
	assert.Equal(t, FailureHandoff, got.Kind)

	_, ok = AsFailure(errors.New("plain"))
	assert.False(t, ok)
}

func TestFailureIs(t *testing.T) {
	assert.True(t, FailureIs(NewTurnLimitFailure(10), FailureTurnLimit))
	assert.False(t, FailureIs(NewTurnLimitFailure(10), FailureHandoff))
	assert.False(t, FailureIs(nil, FailureTurnLimit))
}

func TestNewCanceledFailure(t *testing.T) {
	cause := errors.New("context canceled")
	f := NewCanceledFailure(cause)
	assert.Equal(t, FailureCanceled, f.Kind)
	assert.ErrorIs(t, f, cause)
}

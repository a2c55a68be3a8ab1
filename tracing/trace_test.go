package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_StampsIdentity(t *testing.T) {
	rec := NewMemoryRecorder()
	trace := New("run-1", []Recorder{rec}, nil)

	trace.Record(Event{Kind: EventAgentStarted, AgentName: "triage"})

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "run-1", events[0].RunID)
	assert.Equal(t, "triage", events[0].AgentName)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.NotEmpty(t, trace.ID())
}

func TestTrace_FanOut(t *testing.T) {
	rec1 := NewMemoryRecorder()
	rec2 := NewMemoryRecorder()
	trace := New("run-1", []Recorder{rec1, rec2}, nil)

	trace.Record(Event{Kind: EventToolStarted, ToolName: "lookup"})

	assert.Len(t, rec1.Events(), 1)
	assert.Len(t, rec2.Events(), 1)
}

type panickingRecorder struct{}

func (panickingRecorder) Record(Event) { panic("recorder exploded") }

func TestTrace_RecorderPanicIsSwallowed(t *testing.T) {
	rec := NewMemoryRecorder()
	trace := New("run-1", []Recorder{panickingRecorder{}, rec}, nil)

	assert.NotPanics(t, func() {
		trace.Record(Event{Kind: EventAgentStarted})
	})
	// The healthy recorder still receives the event.
	assert.Len(t, rec.Events(), 1)
}

func TestTrace_CloseIdempotentAndDropsLateEvents(t *testing.T) {
	rec := NewMemoryRecorder()
	trace := New("run-1", []Recorder{rec}, nil)

	trace.Close()
	trace.Close()
	assert.True(t, trace.Closed())

	trace.Record(Event{Kind: EventAgentEnded})
	assert.Empty(t, rec.Events(), "events after Close must be dropped")
}

func TestTrace_ChildSharesRecordersAndLinksParent(t *testing.T) {
	rec := NewMemoryRecorder()
	parent := New("parent-run", []Recorder{rec}, nil)

	child := parent.Child("nested-run")
	assert.Equal(t, parent.ID(), child.ID(), "nested scope keeps the trace identity")
	assert.Equal(t, "nested-run", child.RunID())
	assert.Equal(t, "parent-run", child.ParentRunID())

	child.Record(Event{Kind: EventAgentStarted, AgentName: "worker"})

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "nested-run", events[0].RunID)
	assert.Equal(t, "parent-run", events[0].ParentRunID)

	// Closing the child must not seal the parent scope.
	child.Close()
	assert.False(t, parent.Closed())
	parent.Record(Event{Kind: EventAgentEnded})
	assert.Len(t, rec.Events(), 2)
}

func TestDisabledTrace(t *testing.T) {
	trace := Disabled()
	assert.NotPanics(t, func() {
		trace.Record(Event{Kind: EventAgentStarted})
		trace.Close()
	})
}

func TestMemoryRecorder_EventsOfKind(t *testing.T) {
	rec := NewMemoryRecorder()
	rec.Record(Event{Kind: EventToolStarted})
	rec.Record(Event{Kind: EventToolEnded})
	rec.Record(Event{Kind: EventToolStarted})

	assert.Len(t, rec.EventsOfKind(EventToolStarted), 2)
	assert.Len(t, rec.EventsOfKind(EventHandoff), 0)
}

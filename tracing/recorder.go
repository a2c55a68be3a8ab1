package tracing

import (
	"sync"

	"github.com/relayworks/agentrelay/logging"
)

// Recorder receives trace events for one or more runs. Implementations must be
// safe for concurrent use: tool events from parallel tool calls may arrive
// interleaved. A Recorder should return quickly; anything slow (network export,
// batching) belongs behind a buffer owned by the implementation.
type Recorder interface {
	Record(ev Event)
}

// MemoryRecorder accumulates events in memory for later inspection. It is the
// primary building block for tests and for exposing the event stream to a
// persistence layer after run completion.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryRecorder returns an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record appends the event.
func (r *MemoryRecorder) Record(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of all recorded events in arrival order.
func (r *MemoryRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// EventsOfKind returns recorded events matching the given kind.
func (r *MemoryRecorder) EventsOfKind(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// ConsoleRecorder writes every event as a structured log line.
type ConsoleRecorder struct {
	logger logging.Logger
}

// NewConsoleRecorder creates a recorder logging through the given Logger.
// A nil logger falls back to slog.Default.
func NewConsoleRecorder(logger logging.Logger) *ConsoleRecorder {
	if logger == nil {
		logger = logging.NewDefaultSlogLogger()
	}
	return &ConsoleRecorder{logger: logger}
}

// Record logs the event.
func (r *ConsoleRecorder) Record(ev Event) {
	args := []any{
		"kind", string(ev.Kind),
		"run_id", ev.RunID,
		"agent", ev.AgentName,
	}
	if ev.ParentRunID != "" {
		args = append(args, "parent_run_id", ev.ParentRunID)
	}
	if ev.ToolName != "" {
		args = append(args, "tool", ev.ToolName, "call_id", ev.CallID)
	}
	if ev.TargetAgent != "" {
		args = append(args, "target_agent", ev.TargetAgent)
	}
	if ev.Error != "" {
		args = append(args, "error", ev.Error)
	}
	r.logger.Info("trace.event", args...)
}

package tracing

import "time"

// EventKind classifies a trace event.
type EventKind string

// Trace event kinds emitted by the step engine.
const (
	EventAgentStarted   EventKind = "agent_started"
	EventAgentEnded     EventKind = "agent_ended"
	EventToolStarted    EventKind = "tool_started"
	EventToolEnded      EventKind = "tool_ended"
	EventHandoff        EventKind = "handoff"
	EventRunFailed      EventKind = "run_failed"
)

// Event is a single entry in a run's activity trail. After emission it should
// be treated as immutable. Payload fields are populated per kind:
//
//	tool events     -> ToolName, CallID (+ Error on failed tool end)
//	handoff events  -> TargetAgent
//	run failure     -> Error
//
// ParentRunID is set on events belonging to a nested agent-tool run, linking
// them back to the run that spawned them.
type Event struct {
	Kind        EventKind `json:"kind"`
	RunID       string    `json:"run_id"`
	ParentRunID string    `json:"parent_run_id,omitempty"`
	AgentName   string    `json:"agent_name"`
	Timestamp   time.Time `json:"timestamp"`

	ToolName    string `json:"tool_name,omitempty"`
	CallID      string `json:"call_id,omitempty"`
	TargetAgent string `json:"target_agent,omitempty"`
	Error       string `json:"error,omitempty"`
}

package runner

import (
	"github.com/relayworks/agentrelay/agent"
	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/model"
	"github.com/relayworks/agentrelay/tracing"
)

// RunResult is the immutable outcome of a run. Failed runs return it alongside
// the error with FinalOutput empty and Items holding the partial log, the
// terminal error item last.
type RunResult struct {
	// FinalOutput is the text of the terminating assistant message.
	FinalOutput string

	// Items is the full item log produced during the run, input included.
	Items []core.Item

	// LastAgent is the agent that produced the final output. After hand-offs
	// this differs from the agent the run started with.
	LastAgent *agent.Agent

	// Usage aggregates token usage across all model invocations of the run.
	Usage model.TokenUsage

	// Turns is the number of model invocations the run consumed.
	Turns int

	// TraceID identifies the trace scope the run's events were recorded under.
	TraceID string

	trace *tracing.Trace
}

// Trace returns the closed trace scope the run recorded under.
func (r *RunResult) Trace() *tracing.Trace { return r.trace }

// ToInputList re-expresses the run's ordered item log as input for a further
// run. Feeding it to Run reproduces this run's entire history as a prefix of
// the next run's context.
func (r *RunResult) ToInputList() []core.Item {
	out := make([]core.Item, len(r.Items))
	copy(out, r.Items)
	return out
}

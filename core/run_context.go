package core

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/relayworks/agentrelay/logging"
	"github.com/relayworks/agentrelay/tracing"
)

// RunContext is the mutable, run-scoped execution state threaded through every
// step of a run. It aggregates:
//   - The ambient cancellation Context
//   - Run identity (RunID, ParentRunID for nested agent-tool runs)
//   - The ordered, append-only item log
//   - An opaque user-context payload passed unchanged to instruction functions
//     and tool invocations
//   - The currently active agent name
//   - The turn limiter and the run's trace scope
//
// The item log is owned exclusively by its single run; appends from parallel
// tool executions within one turn are serialized by an internal mutex, but no
// item is ever rewritten or removed.
type RunContext struct {
	Context     context.Context
	RunID       string
	ParentRunID string

	// UserContext is the caller-supplied payload, opaque to the engine.
	UserContext any

	Limiter *TurnLimiter
	Trace   *tracing.Trace

	mu          sync.Mutex
	items       []Item
	activeAgent string

	*loggerAdapter
}

// NewRunContext constructs a run context seeded with the given input items.
func NewRunContext(
	ctx context.Context,
	input []Item,
	userContext any,
	maxTurns int,
	trace *tracing.Trace,
	logger logging.Logger,
) *RunContext {
	if trace == nil {
		trace = tracing.Disabled()
	}
	rc := &RunContext{
		Context:       ctx,
		RunID:         uuid.NewString(),
		UserContext:   userContext,
		Limiter:       NewTurnLimiter(maxTurns),
		Trace:         trace,
		loggerAdapter: newLoggerAdapter(logger),
	}
	rc.items = append(rc.items, input...)
	return rc
}

// Done mirrors context.Context's Done.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// ActiveAgent returns the name of the agent currently holding the turn.
// Exactly one agent is active at any point in a run.
func (rc *RunContext) ActiveAgent() string {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.activeAgent
}

// SetActiveAgent switches the active agent. Called by the step engine at run
// start and on each hand-off.
func (rc *RunContext) SetActiveAgent(name string) {
	rc.mu.Lock()
	rc.activeAgent = name
	rc.mu.Unlock()
}

// AppendItems appends items to the log in the given order.
func (rc *RunContext) AppendItems(items ...Item) {
	rc.mu.Lock()
	rc.items = append(rc.items, items...)
	rc.mu.Unlock()
}

// Items returns a copy of the item log in append order.
func (rc *RunContext) Items() []Item {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	out := make([]Item, len(rc.items))
	copy(out, rc.items)
	return out
}

// Len returns the current number of logged items.
func (rc *RunContext) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.items)
}

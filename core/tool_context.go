package core

import "context"

// ToolContext scopes a RunContext down to one tool invocation. It is handed to
// every tool's Call so implementations can correlate logs with the originating
// model request, honor per-call deadlines and read the run's user-context
// payload.
type ToolContext struct {
	*RunContext

	// Context carries the per-invocation deadline. It derives from the run's
	// ambient context; blocking tool work should use this one.
	Context context.Context

	callID   string
	toolName string
}

// NewToolContext derives a tool-invocation context from a run context.
func NewToolContext(rc *RunContext, callID, toolName string) *ToolContext {
	return &ToolContext{RunContext: rc, Context: rc.Context, callID: callID, toolName: toolName}
}

// WithContext returns a copy using ctx as the per-invocation context.
func (tc *ToolContext) WithContext(ctx context.Context) *ToolContext {
	cp := *tc
	cp.Context = ctx
	return &cp
}

// CallID returns the model-assigned identifier of this tool call.
func (tc *ToolContext) CallID() string { return tc.callID }

// ToolName returns the name of the tool being invoked.
func (tc *ToolContext) ToolName() string { return tc.toolName }

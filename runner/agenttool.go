package runner

import (
	"fmt"

	"github.com/relayworks/agentrelay/agent"
	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/tool"
)

// AgentToolOptions configures an agent-as-tool wrapper.
type AgentToolOptions struct {
	// Name overrides the exposed tool name. Defaults to the wrapped agent's
	// name.
	Name string

	// Description overrides the exposed tool description. Defaults to the
	// wrapped agent's description.
	Description string

	// MaxTurns overrides the nested run's turn ceiling. 0 uses the runner's
	// configured ceiling; the nested budget is independent of the caller's.
	MaxTurns int
}

// AgentTool exposes an agent as a callable tool of another agent. Unlike a
// hand-off, the calling agent stays in control: the wrapped agent executes a
// complete nested run over just the provided input and only its final output
// returns as the tool result. The nested run records into the parent's trace
// scope so its events share the parent run's identity chain.
type AgentTool struct {
	runner  *Runner
	wrapped *agent.Agent
	opts    AgentToolOptions
}

var _ tool.Tool = (*AgentTool)(nil)

// NewAgentTool wraps the given agent as a tool executed by the given runner.
func NewAgentTool(r *Runner, a *agent.Agent, optFns ...func(o *AgentToolOptions)) *AgentTool {
	var opts AgentToolOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Name == "" {
		opts.Name = a.Name()
	}
	if opts.Description == "" {
		opts.Description = a.Description()
	}
	return &AgentTool{runner: r, wrapped: a, opts: opts}
}

// Name implements tool.Tool.
func (t *AgentTool) Name() string { return t.opts.Name }

// Description implements tool.Tool.
func (t *AgentTool) Description() string { return t.opts.Description }

// ParamSchema implements tool.Tool. A wrapped agent takes one free-form input
// string; the model phrases the sub-task in natural language.
func (t *AgentTool) ParamSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{
				"type":        "string",
				"description": "The task or question for the " + t.wrapped.Name() + " agent",
			},
		},
		"required": []string{"input"},
	}
}

// Call implements tool.Tool by executing a nested run of the wrapped agent.
// The nested run sees only the input argument, not the caller's item log, and
// inherits the caller's user context. Nested failures surface as tool-level
// execution errors so the calling agent can observe and recover from them.
func (t *AgentTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	input, _ := args["input"].(string)
	if input == "" {
		return nil, tool.NewToolError(t.opts.Name, "missing required argument: input", tool.CodeValidation)
	}

	parent := tc.RunContext
	result, err := t.runner.Run(tc.Context, t.wrapped, InputString(input), func(o *RunOptions) {
		o.UserContext = parent.UserContext
		o.MaxTurns = t.opts.MaxTurns
		o.trace = parent.Trace
	})
	if err != nil {
		return nil, fmt.Errorf("nested run of agent %q: %w", t.wrapped.Name(), err)
	}

	return result.FinalOutput, nil
}

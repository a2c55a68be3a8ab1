// Package agentrelay provides a high-level façade over the runner, agent and
// model packages enabling concise construction of multi-agent LLM systems.
// Most applications interact with this package by:
//  1. Creating an AgentRelay via New() with a model client
//  2. Defining agents (tools, hand-off targets, instructions)
//  3. Executing runs with Run, or chains with RunSequence
//
// The façade delegates execution to runner.Runner while keeping setup
// ergonomics concise. Defaults are safe for local development and testing;
// production deployments typically supply a structured logger and trace
// recorders.
package agentrelay

import (
	"context"

	"github.com/relayworks/agentrelay/agent"
	"github.com/relayworks/agentrelay/logging"
	"github.com/relayworks/agentrelay/model"
	"github.com/relayworks/agentrelay/runner"
	"github.com/relayworks/agentrelay/tracing"
)

// Options configures the AgentRelay instance.
type Options struct {
	// Runner configuration (turn ceiling, timeouts, retry policy, parallelism)
	RunnerOptions []func(o *runner.Options)

	// Recorders receive trace events from every run.
	Recorders []tracing.Recorder

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentRelay is the high-level façade aggregating a configured runner.
type AgentRelay struct {
	opts   Options
	runner *runner.Runner
}

// New creates a new AgentRelay bound to the given model client.
func New(m model.Model, optFns ...func(o *Options)) *AgentRelay {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	runnerOpts := append([]func(o *runner.Options){func(o *runner.Options) {
		o.Logger = opts.Logger
		o.Recorders = opts.Recorders
	}}, opts.RunnerOptions...)

	return &AgentRelay{
		opts:   opts,
		runner: runner.New(m, runnerOpts...),
	}
}

// Runner exposes the underlying runner for advanced use (agent-as-tool
// wrapping, per-run option overrides).
func (r *AgentRelay) Runner() *runner.Runner { return r.runner }

// Run executes a single run of the given agent over a plain text input.
func (r *AgentRelay) Run(ctx context.Context, a *agent.Agent, input string, optFns ...func(o *runner.RunOptions)) (*runner.RunResult, error) {
	return r.runner.Run(ctx, a, runner.InputString(input), optFns...)
}

// RunItems executes a single run over an exported item list, typically a
// previous result's ToInputList.
func (r *AgentRelay) RunItems(ctx context.Context, a *agent.Agent, input runner.InputItems, optFns ...func(o *runner.RunOptions)) (*runner.RunResult, error) {
	return r.runner.Run(ctx, a, input, optFns...)
}

// RunSequence chains runs across the given agents, feeding each result's
// exported items into the next agent.
func (r *AgentRelay) RunSequence(ctx context.Context, agents []*agent.Agent, input string, optFns ...func(o *runner.RunOptions)) (*runner.RunResult, error) {
	return r.runner.RunSequence(ctx, agents, runner.InputString(input), optFns...)
}

// AgentTool wraps an agent as a tool executed by this relay's runner.
func (r *AgentRelay) AgentTool(a *agent.Agent, optFns ...func(o *runner.AgentToolOptions)) *runner.AgentTool {
	return runner.NewAgentTool(r.runner, a, optFns...)
}

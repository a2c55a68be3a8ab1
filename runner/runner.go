package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/relayworks/agentrelay/agent"
	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/logging"
	"github.com/relayworks/agentrelay/model"
	"github.com/relayworks/agentrelay/tracing"
)

// DefaultMaxTurns bounds a run's model invocations when no override is given.
const DefaultMaxTurns = 10

// Options configures a Runner.
type Options struct {
	// MaxTurns is the per-run ceiling on model invocations. A run that never
	// reaches a final answer or hand-off fails with TurnLimitExceeded after
	// exactly this many turns. Defaults to DefaultMaxTurns.
	MaxTurns int

	// ModelTimeout bounds each model invocation attempt. 0 disables it.
	ModelTimeout time.Duration

	// ToolTimeout bounds each tool invocation. 0 disables it.
	ToolTimeout time.Duration

	// ModelRetries is how many times a failed model invocation is retried
	// with exponential backoff before the run fails with ModelInvocationError.
	ModelRetries uint64

	// RetryInitialInterval is the first backoff delay between model retries.
	RetryInitialInterval time.Duration

	// MaxParallelTools limits tool calls of one turn executing concurrently.
	// 0 means no explicit limit.
	MaxParallelTools int

	// Recorders receive the run's trace events. Ignored when DisableTracing
	// is set.
	Recorders []tracing.Recorder

	// DisableTracing turns the trace scope into a no-op.
	DisableTracing bool

	// Logger receives structured engine logs. Defaults to no-op.
	Logger logging.Logger
}

// RunOptions carries per-run overrides.
type RunOptions struct {
	// UserContext is an opaque payload passed unchanged to every instruction
	// function and tool invocation of this run.
	UserContext any

	// MaxTurns overrides the runner-level ceiling when > 0.
	MaxTurns int

	// trace, when set, makes the run record into a child of an existing scope
	// instead of opening its own. Used by AgentTool for nested runs; events of
	// the nested run carry the parent run's ID.
	trace *tracing.Trace
}

// Runner drives agents to completion against a single configured model client.
// It is immutable after construction and safe for concurrent runs; concurrent
// runs share no mutable state beyond the read-only agent definitions.
type Runner struct {
	model model.Model
	opts  Options
}

// New creates a Runner bound to the given model client.
func New(m model.Model, optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxTurns:             DefaultMaxTurns,
		ModelRetries:         2,
		RetryInitialInterval: 500 * time.Millisecond,
		Logger:               logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Runner{model: m, opts: opts}
}

// Model returns the model client this runner invokes.
func (r *Runner) Model() model.Model { return r.model }

// Run executes a single run of the given root agent. It returns a RunResult on
// the DONE terminal state, or a *core.Failure describing the run-level error:
// HandoffError, ModelInvocationError, TurnLimitExceeded or Canceled. A failed
// run still returns the partial RunResult so callers can inspect the item log
// up to and including the terminal error item. The run's trace scope is closed
// on every exit path.
func (r *Runner) Run(ctx context.Context, a *agent.Agent, input Input, optFns ...func(o *RunOptions)) (*RunResult, error) {
	if a == nil {
		return nil, core.NewFailure(core.FailureModelInvocation, "nil agent", nil)
	}

	var runOpts RunOptions
	for _, fn := range optFns {
		fn(&runOpts)
	}

	maxTurns := r.opts.MaxTurns
	if runOpts.MaxTurns > 0 {
		maxTurns = runOpts.MaxTurns
	}

	rc := core.NewRunContext(ctx, input.inputItems(), runOpts.UserContext, maxTurns, nil, r.opts.Logger)

	var trace *tracing.Trace
	switch {
	case runOpts.trace != nil:
		trace = runOpts.trace.Child(rc.RunID)
		rc.ParentRunID = runOpts.trace.RunID()
	case r.opts.DisableTracing:
		trace = tracing.Disabled()
	default:
		trace = tracing.New(rc.RunID, r.opts.Recorders, r.opts.Logger)
	}
	rc.Trace = trace
	defer trace.Close()

	rc.LogInfo("run.start", "run_id", rc.RunID, "agent", a.Name(), "max_turns", maxTurns)

	eng := newEngine(r, rc, a)
	result, err := eng.run()
	if err != nil {
		rc.LogError("run.failed", "run_id", rc.RunID, "error", err.Error())
		return result, err
	}

	rc.LogInfo("run.done",
		"run_id", rc.RunID,
		"agent", result.LastAgent.Name(),
		"turns", result.Turns,
		"items", len(result.Items),
	)

	return result, nil
}

// RunSequence chains independent runs: each agent receives the previous
// result's exported item list as input, so an orchestrator's full history
// feeds the synthesizer that follows it. The final agent's result is returned.
func (r *Runner) RunSequence(ctx context.Context, agents []*agent.Agent, input Input, optFns ...func(o *RunOptions)) (*RunResult, error) {
	if len(agents) == 0 {
		return nil, core.NewFailure(core.FailureModelInvocation, "empty agent sequence", nil)
	}

	var result *RunResult
	current := input
	for _, a := range agents {
		var err error
		result, err = r.Run(ctx, a, current, optFns...)
		if err != nil {
			return result, fmt.Errorf("run of agent %q: %w", a.Name(), err)
		}
		current = InputItems(result.ToInputList())
	}
	return result, nil
}

// invokeModel performs one model invocation with per-attempt timeout and
// bounded exponential-backoff retries. Context cancellation stops retrying
// immediately.
func (r *Runner) invokeModel(rc *core.RunContext, req model.Request) (*model.Response, error) {
	operation := func() (*model.Response, error) {
		ctx := rc.Context
		if r.opts.ModelTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.opts.ModelTimeout)
			defer cancel()
		}
		resp, err := r.model.Generate(ctx, req)
		if err != nil {
			rc.LogWarn("model.invoke.error", "run_id", rc.RunID, "error", err.Error())
			return nil, err
		}
		return resp, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.opts.RetryInitialInterval

	return backoff.RetryWithData(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(bo, r.opts.ModelRetries), rc.Context),
	)
}

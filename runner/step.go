package runner

import (
	"encoding/json"
	"strings"

	"github.com/relayworks/agentrelay/agent"
	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/model"
	"github.com/relayworks/agentrelay/tracing"
)

// engineState enumerates the step engine's states.
type engineState int

const (
	stateAwaitingModel engineState = iota
	stateModelResponded
	stateExecutingTools
	stateHandingOff
	stateDone
	stateFailed
)

func (s engineState) String() string {
	switch s {
	case stateAwaitingModel:
		return "AWAITING_MODEL"
	case stateModelResponded:
		return "MODEL_RESPONDED"
	case stateExecutingTools:
		return "EXECUTING_TOOLS"
	case stateHandingOff:
		return "HANDING_OFF"
	case stateDone:
		return "DONE"
	case stateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// engine is the per-run state machine. At each turn it invokes the model with
// the current context, interprets the response (plain answer, tool calls, or
// hand-off) and decides the next step. It is created fresh per run and never
// shared.
type engine struct {
	runner *Runner
	rc     *core.RunContext
	active *agent.Agent

	state engineState
	resp  *model.Response
	usage model.TokenUsage

	pendingCalls   []model.ToolCall
	pendingHandoff *model.ToolCall

	finalOutput string
	failure     error

	executor *toolExecutor
}

func newEngine(r *Runner, rc *core.RunContext, root *agent.Agent) *engine {
	return &engine{
		runner:   r,
		rc:       rc,
		active:   root,
		state:    stateAwaitingModel,
		executor: newToolExecutor(r.opts.MaxParallelTools, r.opts.ToolTimeout),
	}
}

// run drives the state machine from AWAITING_MODEL to a terminal state.
func (e *engine) run() (*RunResult, error) {
	e.rc.SetActiveAgent(e.active.Name())
	e.rc.Trace.Record(tracing.Event{Kind: tracing.EventAgentStarted, AgentName: e.active.Name()})
	e.active.Hooks().OnAgentStart(e.rc, e.active)

	for {
		e.rc.LogDebug("engine.state", "run_id", e.rc.RunID, "state", e.state.String(), "agent", e.active.Name())

		switch e.state {
		case stateAwaitingModel:
			e.awaitModel()
		case stateModelResponded:
			e.classifyResponse()
		case stateExecutingTools:
			e.executeTools()
		case stateHandingOff:
			e.handOff()
		case stateDone:
			e.active.Hooks().OnAgentEnd(e.rc, e.active, e.finalOutput)
			e.rc.Trace.Record(tracing.Event{Kind: tracing.EventAgentEnded, AgentName: e.active.Name()})
			return e.result(e.finalOutput), nil
		case stateFailed:
			e.rc.Trace.Record(tracing.Event{
				Kind:      tracing.EventRunFailed,
				AgentName: e.active.Name(),
				Error:     e.failure.Error(),
			})
			e.rc.Trace.Record(tracing.Event{Kind: tracing.EventAgentEnded, AgentName: e.active.Name()})
			// The partial result carries the item log ending in the terminal
			// error item, so callers can see how far the run got.
			return e.result(""), e.failure
		}
	}
}

func (e *engine) result(finalOutput string) *RunResult {
	return &RunResult{
		FinalOutput: finalOutput,
		Items:       e.rc.Items(),
		LastAgent:   e.active,
		Usage:       e.usage,
		Turns:       e.rc.Limiter.Count(),
		TraceID:     e.rc.Trace.ID(),
		trace:       e.rc.Trace,
	}
}

func (e *engine) fail(err error) {
	e.failure = err
	code := "error"
	if f, ok := core.AsFailure(err); ok {
		code = string(f.Kind)
	}
	e.rc.AppendItems(core.ErrorItem{
		ItemHeader: core.NewItemHeader(e.active.Name()),
		Code:       code,
		Message:    err.Error(),
	})
	e.state = stateFailed
}

// awaitModel performs the AWAITING_MODEL -> MODEL_RESPONDED transition: one
// model invocation with the active agent's resolved instructions, the full
// item log and the agent's tool + hand-off schemas.
func (e *engine) awaitModel() {
	if err := e.rc.Err(); err != nil {
		e.fail(core.NewCanceledFailure(err))
		return
	}

	if err := e.rc.Limiter.Begin(); err != nil {
		e.fail(err)
		return
	}

	instructions, err := e.active.ResolveInstructions(e.rc)
	if err != nil {
		e.fail(core.NewFailure(core.FailureModelInvocation,
			"resolving instructions for agent "+e.active.Name(), err))
		return
	}

	req := model.Request{
		Instructions: instructions,
		Items:        e.rc.Items(),
		Tools:        e.requestTools(),
	}

	resp, err := e.runner.invokeModel(e.rc, req)
	if err != nil {
		if ctxErr := e.rc.Err(); ctxErr != nil {
			e.fail(core.NewCanceledFailure(ctxErr))
			return
		}
		e.fail(core.NewModelInvocationFailure(e.active.Name(), err))
		return
	}

	e.usage.Add(resp.Usage)
	e.resp = resp
	e.state = stateModelResponded
}

// requestTools lists the active agent's function tool schemas followed by one
// synthesized transfer tool per eligible hand-off target.
func (e *engine) requestTools() []model.ToolDefinition {
	var defs []model.ToolDefinition
	for _, d := range e.active.Tools().Definitions() {
		defs = append(defs, model.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	for _, target := range e.active.Handoffs() {
		description := "Hand the conversation off to the " + target.Name() + " agent."
		if target.Description() != "" {
			description += " " + target.Description()
		}
		defs = append(defs, model.ToolDefinition{
			Name:        agent.HandoffToolPrefix + target.Name(),
			Description: description,
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"note": map[string]any{
						"type":        "string",
						"description": "Context to forward to the receiving agent",
					},
				},
			},
		})
	}
	return defs
}

// classifyResponse performs the MODEL_RESPONDED transition: a hand-off
// selection wins over tool calls requested in the same turn (pending calls are
// discarded); tool calls without a hand-off move to EXECUTING_TOOLS; a plain
// answer is the final output.
func (e *engine) classifyResponse() {
	var handoffCall *model.ToolCall
	var toolCalls []model.ToolCall
	for i := range e.resp.ToolCalls {
		call := e.resp.ToolCalls[i]
		if strings.HasPrefix(call.Name, agent.HandoffToolPrefix) {
			if handoffCall == nil {
				handoffCall = &call
			} else {
				e.rc.LogWarn("engine.handoff.extra_discarded", "run_id", e.rc.RunID, "call", call.Name)
			}
			continue
		}
		toolCalls = append(toolCalls, call)
	}

	if handoffCall != nil {
		if len(toolCalls) > 0 {
			e.rc.LogWarn("engine.handoff.tool_calls_discarded",
				"run_id", e.rc.RunID,
				"agent", e.active.Name(),
				"discarded", len(toolCalls),
			)
		}
		e.pendingHandoff = handoffCall
		e.state = stateHandingOff
		return
	}

	if len(toolCalls) > 0 {
		if e.resp.Text != "" {
			e.rc.AppendItems(core.MessageItem{
				ItemHeader: core.NewItemHeader(e.active.Name()),
				Text:       e.resp.Text,
			})
		}
		for _, call := range toolCalls {
			e.rc.AppendItems(core.ToolCallItem{
				ItemHeader: core.NewItemHeader(e.active.Name()),
				CallID:     call.ID,
				ToolName:   call.Name,
				Arguments:  call.Arguments,
			})
		}
		e.pendingCalls = toolCalls
		e.state = stateExecutingTools
		return
	}

	e.rc.AppendItems(core.MessageItem{
		ItemHeader: core.NewItemHeader(e.active.Name()),
		Text:       e.resp.Text,
	})
	e.finalOutput = e.resp.Text
	e.state = stateDone
}

// executeTools performs the EXECUTING_TOOLS transition: the turn's tool calls
// run concurrently, their results are appended in the order the model
// requested them, then control returns to AWAITING_MODEL. Tool-level failures
// become error-bearing result items, not run failures.
func (e *engine) executeTools() {
	results := e.executor.Execute(e.rc, e.active, e.pendingCalls)
	for _, item := range results {
		e.rc.AppendItems(item)
	}
	e.pendingCalls = nil
	e.state = stateAwaitingModel
}

// handOff performs the HANDING_OFF transition: validates the target against
// the active agent's eligible set, records the hand-off, appends the synthetic
// input item carrying forwarded context and switches the active agent.
func (e *engine) handOff() {
	call := e.pendingHandoff
	e.pendingHandoff = nil

	targetName := strings.TrimPrefix(call.Name, agent.HandoffToolPrefix)
	target, ok := e.active.HandoffTarget(targetName)
	if !ok {
		e.fail(core.NewHandoffFailure(e.active.Name(), targetName))
		return
	}

	var args struct {
		Note string `json:"note"`
	}
	if call.Arguments != "" {
		// Forwarded context is best effort; a malformed payload loses the
		// note, not the hand-off.
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			e.rc.LogWarn("engine.handoff.bad_arguments", "run_id", e.rc.RunID, "error", err.Error())
		}
	}

	e.rc.Trace.Record(tracing.Event{
		Kind:        tracing.EventHandoff,
		AgentName:   e.active.Name(),
		TargetAgent: target.Name(),
	})
	e.active.Hooks().OnHandoff(e.rc, e.active, target)

	e.rc.AppendItems(core.HandoffItem{
		ItemHeader: core.NewItemHeader(e.active.Name()),
		From:       e.active.Name(),
		To:         target.Name(),
		Note:       args.Note,
	})

	e.rc.Trace.Record(tracing.Event{Kind: tracing.EventAgentEnded, AgentName: e.active.Name()})
	e.active = target
	e.rc.SetActiveAgent(target.Name())
	e.rc.Trace.Record(tracing.Event{Kind: tracing.EventAgentStarted, AgentName: target.Name()})
	target.Hooks().OnAgentStart(e.rc, target)

	e.state = stateAwaitingModel
}

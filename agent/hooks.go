package agent

import "github.com/relayworks/agentrelay/core"

// Hooks is the lifecycle observer interface invoked synchronously at defined
// step-engine transitions. Implement the subset you care about by embedding
// NoOpHooks; compose multiple observers with CompositeHooks.
//
// Hooks are for side observation (logging, metrics, UI updates). They cannot
// alter the run: panics inside a hook are recovered and logged, never
// propagated.
type Hooks interface {
	// OnAgentStart fires when an agent becomes active, at run start and after
	// each hand-off.
	OnAgentStart(rc *core.RunContext, a *Agent)

	// OnAgentEnd fires when the active agent produces the run's final output.
	OnAgentEnd(rc *core.RunContext, a *Agent, finalOutput string)

	// OnHandoff fires on the outgoing agent's hooks when control transfers.
	OnHandoff(rc *core.RunContext, from, to *Agent)

	// OnToolStart fires before each tool invocation.
	OnToolStart(tc *core.ToolContext, a *Agent)

	// OnToolEnd fires after each tool invocation with its result (nil on
	// tool-level failure).
	OnToolEnd(tc *core.ToolContext, a *Agent, result any)
}

// NoOpHooks implements Hooks with empty methods; embed it to implement only a
// subset of the interface.
type NoOpHooks struct{}

// OnAgentStart implements Hooks.
func (NoOpHooks) OnAgentStart(*core.RunContext, *Agent) {}

// OnAgentEnd implements Hooks.
func (NoOpHooks) OnAgentEnd(*core.RunContext, *Agent, string) {}

// OnHandoff implements Hooks.
func (NoOpHooks) OnHandoff(*core.RunContext, *Agent, *Agent) {}

// OnToolStart implements Hooks.
func (NoOpHooks) OnToolStart(*core.ToolContext, *Agent) {}

// OnToolEnd implements Hooks.
func (NoOpHooks) OnToolEnd(*core.ToolContext, *Agent, any) {}

// CompositeHooks fans every callback out to all members in order. A panicking
// member is logged and skipped; the remaining members still run.
type CompositeHooks []Hooks

// NewCompositeHooks combines multiple observers into one.
func NewCompositeHooks(hooks ...Hooks) CompositeHooks { return CompositeHooks(hooks) }

// OnAgentStart implements Hooks.
func (c CompositeHooks) OnAgentStart(rc *core.RunContext, a *Agent) {
	for _, h := range c {
		safeCall(rc, func() { h.OnAgentStart(rc, a) })
	}
}

// OnAgentEnd implements Hooks.
func (c CompositeHooks) OnAgentEnd(rc *core.RunContext, a *Agent, finalOutput string) {
	for _, h := range c {
		safeCall(rc, func() { h.OnAgentEnd(rc, a, finalOutput) })
	}
}

// OnHandoff implements Hooks.
func (c CompositeHooks) OnHandoff(rc *core.RunContext, from, to *Agent) {
	for _, h := range c {
		safeCall(rc, func() { h.OnHandoff(rc, from, to) })
	}
}

// OnToolStart implements Hooks.
func (c CompositeHooks) OnToolStart(tc *core.ToolContext, a *Agent) {
	for _, h := range c {
		safeCall(tc.RunContext, func() { h.OnToolStart(tc, a) })
	}
}

// OnToolEnd implements Hooks.
func (c CompositeHooks) OnToolEnd(tc *core.ToolContext, a *Agent, result any) {
	for _, h := range c {
		safeCall(tc.RunContext, func() { h.OnToolEnd(tc, a, result) })
	}
}

func safeCall(rc *core.RunContext, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			rc.LogWarn("agent.hook.panic", "recover", r)
		}
	}()
	fn()
}

package agent

import (
	"fmt"
	"strings"

	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/tool"
)

// HandoffToolPrefix prefixes the synthesized transfer tools advertised to the
// model for each eligible hand-off target. Regular tool names must not start
// with it, so a transfer selection can never shadow a real tool.
const HandoffToolPrefix = "transfer_to_"

// Options configures an Agent. Use functional options with New to override
// defaults.
type Options struct {
	// Description is the human-readable summary used when this agent is
	// exposed as a hand-off target or wrapped as a tool for an orchestrator.
	Description string

	// Instruction is the agent's system prompt, static or dynamic.
	// Defaults to a generic assistant prompt derived from the agent name.
	Instruction Instruction

	// Tools is the agent's ordered tool set. Names must be unique.
	Tools []tool.Tool

	// Handoffs lists the agents this one may transfer control to.
	Handoffs []*Agent

	// Hooks observe this agent's lifecycle transitions.
	Hooks []Hooks
}

// Agent is the immutable definition of one participant in a multi-agent
// network. Construct with New; never mutate afterwards — derive a fresh value
// instead. All accessors return defensive copies or read-only views so shared
// agents stay safe under concurrent runs.
type Agent struct {
	name        string
	description string
	instruction Instruction
	registry    *tool.Registry
	handoffs    []*Agent
	handoffSet  map[string]*Agent
	hooks       Hooks
}

// New constructs an Agent. It fails on an empty name, a tool name collision
// within the agent's tool set, or a tool name that starts with
// HandoffToolPrefix.
func New(name string, optFns ...func(o *Options)) (*Agent, error) {
	if name == "" {
		return nil, fmt.Errorf("agent name must not be empty")
	}

	opts := Options{
		Instruction: NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	for _, t := range opts.Tools {
		if strings.HasPrefix(t.Name(), HandoffToolPrefix) {
			return nil, fmt.Errorf("agent %q: tool name %q uses the reserved hand-off prefix %q", name, t.Name(), HandoffToolPrefix)
		}
	}

	registry, err := tool.NewRegistry(opts.Tools...)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", name, err)
	}

	a := &Agent{
		name:        name,
		description: opts.Description,
		instruction: opts.Instruction,
		registry:    registry,
		handoffs:    append([]*Agent(nil), opts.Handoffs...),
		handoffSet:  map[string]*Agent{},
		hooks:       NewCompositeHooks(opts.Hooks...),
	}
	for _, target := range a.handoffs {
		if target == nil {
			return nil, fmt.Errorf("agent %q: nil hand-off target", name)
		}
		a.handoffSet[target.name] = target
	}

	return a, nil
}

// MustNew is New panicking on error, for package-level agent wiring.
func MustNew(name string, optFns ...func(o *Options)) *Agent {
	a, err := New(name, optFns...)
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the agent's unique name.
func (a *Agent) Name() string { return a.name }

// Description returns the agent's hand-off description.
func (a *Agent) Description() string { return a.description }

// Tools returns the agent's tool registry.
func (a *Agent) Tools() *tool.Registry { return a.registry }

// Handoffs returns the agents this one may transfer control to.
func (a *Agent) Handoffs() []*Agent {
	out := make([]*Agent, len(a.handoffs))
	copy(out, a.handoffs)
	return out
}

// HandoffTarget returns the eligible hand-off target with the given name.
func (a *Agent) HandoffTarget(name string) (*Agent, bool) {
	t, ok := a.handoffSet[name]
	return t, ok
}

// Hooks returns the agent's composed lifecycle observers.
func (a *Agent) Hooks() Hooks { return a.hooks }

// ResolveInstructions produces the final system prompt for one model
// invocation, resolving static or dynamic instruction sources.
func (a *Agent) ResolveInstructions(rc *core.RunContext) (string, error) {
	return a.instruction.Resolve(rc)
}

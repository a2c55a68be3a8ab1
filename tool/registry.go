package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/tracing"
)

// ErrDuplicateTool is returned by Register when a tool name collides within
// the owning registry.
var ErrDuplicateTool = errors.New("duplicate tool name")

// ErrUnknownTool is returned by Resolve for names with no registered tool.
var ErrUnknownTool = errors.New("unknown tool")

// Registry holds one agent's tool set. Names are unique within a registry.
// A Registry is populated at agent construction and read-only afterwards, so
// it is safely shared by concurrent runs without locking.
type Registry struct {
	tools map[string]Tool
	order []string // registration order, used for stable schema listings
}

// NewRegistry creates an empty registry and registers the given tools.
// It fails on the first name collision.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: map[string]Tool{}}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool, failing if its name is already taken.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool with empty name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Resolve returns the tool registered under name.
func (r *Registry) Resolve(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return t, nil
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the registered tools in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Invoke resolves name, deserializes rawArgs, validates them against the
// tool's schema and executes the call under the given timeout (0 means no
// deadline). Every invocation emits tool start/end trace events through the
// run's trace scope.
//
// All failure modes come back as *ToolError so the engine can fold them into
// the item log as observations: unknown tool, malformed JSON and schema
// violations carry VALIDATION_ERROR-family codes; an expired deadline carries
// TIMEOUT.
func (r *Registry) Invoke(
	rc *core.RunContext,
	callID, name, rawArgs string,
	timeout time.Duration,
) (any, error) {
	rc.Trace.Record(tracing.Event{
		Kind:      tracing.EventToolStarted,
		AgentName: rc.ActiveAgent(),
		ToolName:  name,
		CallID:    callID,
	})

	result, err := r.invoke(rc, callID, name, rawArgs, timeout)

	endEv := tracing.Event{
		Kind:      tracing.EventToolEnded,
		AgentName: rc.ActiveAgent(),
		ToolName:  name,
		CallID:    callID,
	}
	if err != nil {
		endEv.Error = err.Error()
	}
	rc.Trace.Record(endEv)

	return result, err
}

func (r *Registry) invoke(
	rc *core.RunContext,
	callID, name, rawArgs string,
	timeout time.Duration,
) (any, error) {
	t, err := r.Resolve(name)
	if err != nil {
		return nil, &ToolError{Tool: name, Message: err.Error(), Code: CodeUnknown}
	}

	args := map[string]any{}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return nil, &ToolError{
				Tool:    name,
				Message: fmt.Sprintf("malformed arguments: %v", err),
				Code:    CodeValidation,
			}
		}
	}

	// Schema validation lives here, not in individual Tool implementations,
	// so every tool behind the interface receives already-validated arguments.
	if err := ValidateArgs(name, args, t.ParamSchema()); err != nil {
		return nil, err
	}

	toolCtx := core.NewToolContext(rc, callID, name)
	if timeout > 0 {
		ctx, cancel := context.WithTimeout(rc.Context, timeout)
		defer cancel()
		toolCtx = toolCtx.WithContext(ctx)
	}

	result, err := t.Call(toolCtx, args)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ToolError{
				Tool:    name,
				Message: fmt.Sprintf("invocation exceeded %s", timeout),
				Code:    CodeTimeout,
			}
		}
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return nil, toolErr
		}
		return nil, &ToolError{Tool: name, Message: err.Error(), Code: CodeExecution}
	}

	return result, nil
}

// Definitions returns the schema listing shipped to the model for this
// registry's tools, in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.ParamSchema(),
		})
	}
	return defs
}

// Definition is the declarative shape of a tool exposed to models, decoupled
// from the Tool implementation.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Catalog is a process-wide, read-only after construction catalogue of
// available function tools keyed by name. The definition-binding layer
// resolves an agent record's selected tool names against it.
type Catalog struct {
	tools map[string]Tool
}

// NewCatalog builds a catalogue from the given tools. Later duplicates
// overwrite earlier entries.
func NewCatalog(tools ...Tool) *Catalog {
	c := &Catalog{tools: map[string]Tool{}}
	for _, t := range tools {
		c.tools[t.Name()] = t
	}
	return c
}

// Get returns the named tool, or false when absent.
func (c *Catalog) Get(name string) (Tool, bool) {
	t, ok := c.tools[name]
	return t, ok
}

// Names returns the sorted names of all catalogued tools.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.tools))
	for name := range c.tools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

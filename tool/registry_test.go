package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/tracing"
)

func echoTool(name string) Tool {
	return NewFunctionTool(name, "echoes its input",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
		},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			return args["text"], nil
		},
	)
}

func TestRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry(echoTool("echo"), echoTool("echo"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r, err := NewRegistry(echoTool("echo"))
	require.NoError(t, err)

	_, err = r.Resolve("nope")
	assert.ErrorIs(t, err, ErrUnknownTool)

	got, err := r.Resolve("echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", got.Name())
}

func TestRegistry_DefinitionsOrder(t *testing.T) {
	r, err := NewRegistry(echoTool("zeta"), echoTool("alpha"), echoTool("mid"))
	require.NoError(t, err)

	defs := r.Definitions()
	require.Len(t, defs, 3)
	// Registration order, not lexical.
	assert.Equal(t, "zeta", defs[0].Name)
	assert.Equal(t, "alpha", defs[1].Name)
	assert.Equal(t, "mid", defs[2].Name)
}

func TestRegistry_Invoke_Success(t *testing.T) {
	r, _ := NewRegistry(echoTool("echo"))
	rc := core.NewRunContext(context.Background(), nil, nil, 10, nil, nil)

	result, err := r.Invoke(rc, "call_1", "echo", `{"text":"hi"}`, 0)
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
}

func TestRegistry_Invoke_UnknownTool(t *testing.T) {
	r, _ := NewRegistry()
	rc := core.NewRunContext(context.Background(), nil, nil, 10, nil, nil)

	_, err := r.Invoke(rc, "call_1", "missing", "{}", 0)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeUnknown, toolErr.Code)
}

func TestRegistry_Invoke_MalformedArgs(t *testing.T) {
	r, _ := NewRegistry(echoTool("echo"))
	rc := core.NewRunContext(context.Background(), nil, nil, 10, nil, nil)

	_, err := r.Invoke(rc, "call_1", "echo", `{not json`, 0)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

// directTool implements Tool without going through NewFunctionTool, so its
// Call never validates arguments itself.
type directTool struct {
	executed bool
}

func (d *directTool) Name() string        { return "direct" }
func (d *directTool) Description() string { return "bare implementation" }

func (d *directTool) ParamSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}
}

func (d *directTool) Call(_ *core.ToolContext, args map[string]any) (any, error) {
	d.executed = true
	return args["text"], nil
}

func TestRegistry_Invoke_ValidatesDirectImplementations(t *testing.T) {
	direct := &directTool{}
	r, _ := NewRegistry(direct)
	rc := core.NewRunContext(context.Background(), nil, nil, 10, nil, nil)

	_, err := r.Invoke(rc, "call_1", "direct", `{"bogus":42}`, 0)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.False(t, direct.executed, "tool must not run with invalid arguments")

	result, err := r.Invoke(rc, "call_2", "direct", `{"text":"ok"}`, 0)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestRegistry_Invoke_Timeout(t *testing.T) {
	slow := NewFunctionTool("slow", "sleeps",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			select {
			case <-time.After(time.Second):
				return "done", nil
			case <-tc.Context.Done():
				return nil, tc.Context.Err()
			}
		},
	)
	r, _ := NewRegistry(slow)
	rc := core.NewRunContext(context.Background(), nil, nil, 10, nil, nil)

	_, err := r.Invoke(rc, "call_1", "slow", "{}", 20*time.Millisecond)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeTimeout, toolErr.Code)
}

func TestRegistry_Invoke_ToolErrorAfterDeadlineKeepsCode(t *testing.T) {
	flaky := NewFunctionTool("flaky", "fails after the deadline passed",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			<-tc.Context.Done()
			// A downstream failure surfacing late is still the tool's own
			// error, not a timeout.
			return nil, errors.New("downstream unavailable")
		},
	)
	r, _ := NewRegistry(flaky)
	rc := core.NewRunContext(context.Background(), nil, nil, 10, nil, nil)

	_, err := r.Invoke(rc, "call_1", "flaky", "{}", 10*time.Millisecond)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Contains(t, toolErr.Message, "downstream unavailable")
}

func TestRegistry_Invoke_TraceEvents(t *testing.T) {
	r, _ := NewRegistry(echoTool("echo"))
	rec := tracing.NewMemoryRecorder()
	trace := tracing.New("run-1", []tracing.Recorder{rec}, nil)
	rc := core.NewRunContext(context.Background(), nil, nil, 10, trace, nil)
	rc.SetActiveAgent("triage")

	_, err := r.Invoke(rc, "call_1", "echo", `{"text":"hi"}`, 0)
	require.NoError(t, err)

	started := rec.EventsOfKind(tracing.EventToolStarted)
	ended := rec.EventsOfKind(tracing.EventToolEnded)
	require.Len(t, started, 1)
	require.Len(t, ended, 1)
	assert.Equal(t, "echo", started[0].ToolName)
	assert.Equal(t, "call_1", started[0].CallID)
	assert.Equal(t, "triage", started[0].AgentName)
	assert.Empty(t, ended[0].Error)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog(echoTool("beta"), echoTool("alpha"))

	got, ok := c.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", got.Name())

	_, ok = c.Get("gamma")
	assert.False(t, ok)

	assert.Equal(t, []string{"alpha", "beta"}, c.Names())
}

package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/tool"
)

func namedTool(name string) tool.Tool {
	return tool.NewFunctionTool(name, "test tool",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *core.ToolContext, _ map[string]any) (any, error) { return nil, nil },
	)
}

func TestNew_EmptyName(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestNew_DuplicateToolNames(t *testing.T) {
	_, err := New("triage", func(o *Options) {
		o.Tools = []tool.Tool{namedTool("lookup"), namedTool("lookup")}
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, tool.ErrDuplicateTool)
}

func TestNew_ReservedToolNamePrefix(t *testing.T) {
	_, err := New("triage", func(o *Options) {
		o.Tools = []tool.Tool{namedTool(HandoffToolPrefix + "billing")}
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved hand-off prefix")
}

func TestNew_NilHandoffTarget(t *testing.T) {
	_, err := New("triage", func(o *Options) {
		o.Handoffs = []*Agent{nil}
	})
	assert.Error(t, err)
}

func TestNew_DefaultInstruction(t *testing.T) {
	a := MustNew("triage")
	rc := core.NewRunContext(context.Background(), nil, nil, 10, nil, nil)

	text, err := a.ResolveInstructions(rc)
	require.NoError(t, err)
	assert.Contains(t, text, "triage")
}

func TestAgent_HandoffTargets(t *testing.T) {
	billing := MustNew("billing")
	refunds := MustNew("refunds")
	triage := MustNew("triage", func(o *Options) {
		o.Handoffs = []*Agent{billing, refunds}
	})

	got, ok := triage.HandoffTarget("billing")
	require.True(t, ok)
	assert.Same(t, billing, got)

	_, ok = triage.HandoffTarget("shipping")
	assert.False(t, ok)

	// Handoffs returns a defensive copy.
	list := triage.Handoffs()
	require.Len(t, list, 2)
	list[0] = refunds
	fresh := triage.Handoffs()
	assert.Same(t, billing, fresh[0])
}

func TestAgent_ToolsRegistered(t *testing.T) {
	a := MustNew("researcher", func(o *Options) {
		o.Tools = []tool.Tool{namedTool("search"), namedTool("fetch")}
	})

	assert.Equal(t, 2, a.Tools().Len())
	assert.True(t, a.Tools().Has("search"))
	assert.Equal(t, []string{"search", "fetch"}, a.Tools().Names())
}

func TestMustNew_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() { MustNew("") })
}

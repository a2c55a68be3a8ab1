package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayworks/agentrelay/core"
)

func newToolContextForTest() *core.ToolContext {
	rc := core.NewRunContext(context.Background(), nil, nil, 10, nil, nil)
	return core.NewToolContext(rc, "call_1", "test_tool")
}

var sumSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"a": map[string]any{"type": "number"},
		"b": map[string]any{"type": "number"},
	},
	"required": []string{"a", "b"},
}

func sumFn(_ *core.ToolContext, args map[string]any) (any, error) {
	return args["a"].(float64) + args["b"].(float64), nil
}

func TestFunctionTool_Success(t *testing.T) {
	sum := NewFunctionTool("calculate_sum", "Adds two numbers", sumSchema, sumFn)

	result, err := sum.Call(newToolContextForTest(), map[string]any{"a": 2.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	sum := NewFunctionTool("calculate_sum", "Adds two numbers", sumSchema, sumFn)

	_, err := sum.Call(newToolContextForTest(), map[string]any{"a": 2.0})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Equal(t, "calculate_sum", toolErr.Tool)
}

func TestFunctionTool_ExecutionErrorWrapped(t *testing.T) {
	failing := NewFunctionTool("failing", "always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			return nil, errors.New("downstream unavailable")
		},
	)

	_, err := failing.Call(newToolContextForTest(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Contains(t, toolErr.Message, "downstream unavailable")
}

func TestFunctionTool_CustomToolErrorPassthrough(t *testing.T) {
	custom := &ToolError{Tool: "rate_limited", Message: "slow down", Code: "RATE_LIMITED"}
	limited := NewFunctionTool("rate_limited", "rate limited",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *core.ToolContext, _ map[string]any) (any, error) { return nil, custom },
	)

	_, err := limited.Call(newToolContextForTest(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
}

type lookupArgs struct {
	Query string `json:"query" jsonschema:"description=Search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum results"`
}

func TestNewFunctionToolFromStruct(t *testing.T) {
	lookup, err := NewFunctionToolFromStruct("lookup", "Searches things", lookupArgs{},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			return args["query"], nil
		},
	)
	require.NoError(t, err)

	schema := lookup.ParamSchema()
	assert.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")

	result, err := lookup.Call(newToolContextForTest(), map[string]any{"query": "golang"})
	require.NoError(t, err)
	assert.Equal(t, "golang", result)
}

func TestValidateArgs_WrongType(t *testing.T) {
	err := ValidateArgs("calculate_sum", map[string]any{"a": "two", "b": 3.0}, sumSchema)
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

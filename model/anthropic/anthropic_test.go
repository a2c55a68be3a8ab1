package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/model"
)

func TestBuildMessages_Conversation(t *testing.T) {
	items := []core.Item{
		core.UserMessageItem{ItemHeader: core.NewItemHeader("user"), Text: "hi"},
		core.MessageItem{ItemHeader: core.NewItemHeader("a"), Text: "hello"},
	}

	messages := buildMessages(items)
	require.Len(t, messages, 2)
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, messages[1].Role)
}

func TestBuildMessages_ToolTurn(t *testing.T) {
	items := []core.Item{
		core.UserMessageItem{ItemHeader: core.NewItemHeader("user"), Text: "look up two things"},
		core.ToolCallItem{ItemHeader: core.NewItemHeader("a"), CallID: "c1", ToolName: "lookup", Arguments: `{"q":"one"}`},
		core.ToolCallItem{ItemHeader: core.NewItemHeader("a"), CallID: "c2", ToolName: "lookup", Arguments: `{"q":"two"}`},
		core.ToolResultItem{ItemHeader: core.NewItemHeader("a"), CallID: "c1", ToolName: "lookup", Result: "first"},
		core.ToolResultItem{ItemHeader: core.NewItemHeader("a"), CallID: "c2", ToolName: "lookup", Error: "boom"},
	}

	messages := buildMessages(items)
	// user, assistant with both tool use blocks, user with both result blocks
	require.Len(t, messages, 3)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, messages[1].Role)
	assert.Len(t, messages[1].Content, 2)
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[2].Role)
	assert.Len(t, messages[2].Content, 2)
}

func TestRenderResult(t *testing.T) {
	assert.Equal(t, "plain", renderResult(core.ToolResultItem{Result: "plain"}))
	assert.Equal(t, `[1,2]`, renderResult(core.ToolResultItem{Result: []int{1, 2}}))
	assert.Equal(t, "boom", renderResult(core.ToolResultItem{Error: "boom"}))
}

func TestFinishReason(t *testing.T) {
	assert.Equal(t, "stop", finishReason(""))
	assert.Equal(t, "tool_use", finishReason(anthropic.StopReasonToolUse))
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]model.ToolDefinition{
		{
			Name:        "lookup",
			Description: "finds things",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"q": map[string]any{"type": "string"},
				},
				"required": []string{"q"},
			},
		},
	})

	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "lookup", tools[0].OfTool.Name)
	assert.Equal(t, []string{"q"}, tools[0].OfTool.InputSchema.Required)
}

func TestInfo(t *testing.T) {
	m := NewModelFromClient(nil)
	info := m.Info()
	assert.Equal(t, "anthropic", info.Provider)
	assert.True(t, info.SupportsTools)
}

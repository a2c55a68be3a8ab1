package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayworks/agentrelay/core"
)

func TestTokenUsage_Add(t *testing.T) {
	u := TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	u.Add(TokenUsage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5})

	assert.Equal(t, 13, u.PromptTokens)
	assert.Equal(t, 7, u.CompletionTokens)
	assert.Equal(t, 20, u.TotalTokens)
}

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	m.AddResponse("ping", "pong")

	resp, err := m.Generate(context.Background(), Request{
		Items: []core.Item{core.UserMessageItem{ItemHeader: core.NewItemHeader("user"), Text: "ping"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestMockModel_FallbackResponse(t *testing.T) {
	m := NewMockModel("mock-1", "mock")

	resp, err := m.Generate(context.Background(), Request{
		Items: []core.Item{core.UserMessageItem{ItemHeader: core.NewItemHeader("user"), Text: "anything"}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "anything")
}

func TestMockModel_EmptyItems(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	_, err := m.Generate(context.Background(), Request{})
	assert.Error(t, err)
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	info := m.Info()
	assert.Equal(t, "mock-1", info.Name)
	assert.Equal(t, "mock", info.Provider)
	assert.True(t, info.SupportsTools)
}

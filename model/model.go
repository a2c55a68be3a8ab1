// Package model defines the provider-neutral interface between the step engine
// and language model backends, plus the normalized request/response structures
// exchanged across it. Concrete adapters live in subpackages (openai,
// anthropic).
package model

import (
	"context"
	"fmt"

	"github.com/relayworks/agentrelay/core"
)

// ToolCall represents a function call request surfaced by a model provider.
// Unified across vendors so downstream logic does not need per-provider
// branching. Hand-off selections arrive as tool calls against the synthesized
// transfer tools; the step engine tells them apart by name.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string of arguments
}

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the step engine:
// the active agent's resolved instructions, the full item log and the tool
// schemas (function tools plus hand-off transfer tools) of the active agent.
type Request struct {
	Instructions string           `json:"instructions"`
	Items        []core.Item      `json:"items"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates usage from another response.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// Response is the model's answer to one turn: assistant text, zero or more
// tool calls in the order the model emitted them, and usage metadata.
type Response struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        TokenUsage `json:"usage"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive generation. Generate is the
// run's only model suspension point: it blocks until the provider answers or
// ctx is cancelled.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for examples. For tests,
// prefer the scripted model in internal/testutil which supports tool calls.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel with basic tool support advertised.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider, SupportsTools: true},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input text.
func (m *MockModel) AddResponse(input, response string) { m.responses[input] = response }

// Generate implements Model; answers from the canned table keyed by the text
// of the last message-bearing item.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("no items provided")
	}

	var inputText string
	for _, it := range req.Items {
		if text := core.ItemText(it); text != "" {
			inputText = text
		}
	}

	text := m.responses[inputText]
	if text == "" {
		text = fmt.Sprintf("Mock response to: %s", inputText)
	}

	return &Response{Text: text, FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

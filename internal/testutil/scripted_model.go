// Package testutil provides shared test doubles for the package tests: a
// scripted model that plays back predefined turns so engine behavior can be
// exercised without a live backend.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/relayworks/agentrelay/model"
)

// Turn scripts one model invocation. Exactly one of Text, ToolCalls or Err is
// meaningful per turn; Err short-circuits the invocation.
type Turn struct {
	Text      string
	ToolCalls []model.ToolCall
	Err       error
}

// TextTurn scripts a plain final answer.
func TextTurn(text string) Turn { return Turn{Text: text} }

// ToolTurn scripts a turn requesting the given tool calls.
func ToolTurn(calls ...model.ToolCall) Turn { return Turn{ToolCalls: calls} }

// Call builds a tool call with a generated ID and JSON-encoded arguments.
func Call(name string, args map[string]any) model.ToolCall {
	raw := ""
	if args != nil {
		b, _ := json.Marshal(args)
		raw = string(b)
	}
	return model.ToolCall{ID: "call_" + uuid.NewString()[:8], Name: name, Arguments: raw}
}

// HandoffTurn scripts a hand-off selection to the named target agent.
func HandoffTurn(target, note string) Turn {
	args := map[string]any{}
	if note != "" {
		args["note"] = note
	}
	return Turn{ToolCalls: []model.ToolCall{Call("transfer_to_"+target, args)}}
}

// ErrTurn scripts a backend failure.
func ErrTurn(err error) Turn { return Turn{Err: err} }

// ScriptedModel plays back turns in order, one per Generate call. It records
// every request for later inspection and is safe for concurrent use.
type ScriptedModel struct {
	mu       sync.Mutex
	turns    []Turn
	next     int
	requests []model.Request
}

// NewScriptedModel creates a model that will play the given turns.
func NewScriptedModel(turns ...Turn) *ScriptedModel {
	return &ScriptedModel{turns: turns}
}

// Append adds further turns to the script.
func (m *ScriptedModel) Append(turns ...Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, turns...)
}

// Generate implements model.Model by playing the next scripted turn. Running
// past the script is an error, which surfaces as a run-level model failure in
// engine tests.
func (m *ScriptedModel) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.next >= len(m.turns) {
		return nil, fmt.Errorf("scripted model exhausted after %d turns", len(m.turns))
	}
	turn := m.turns[m.next]
	m.next++

	if turn.Err != nil {
		return nil, turn.Err
	}

	finish := "stop"
	if len(turn.ToolCalls) > 0 {
		finish = "tool_calls"
	}
	return &model.Response{
		ID:           "resp_" + uuid.NewString()[:8],
		Text:         turn.Text,
		ToolCalls:    turn.ToolCalls,
		FinishReason: finish,
		Usage:        model.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

// Info implements model.Model.
func (m *ScriptedModel) Info() model.Info {
	return model.Info{Provider: "testutil", Name: "scripted"}
}

// Calls returns how many times Generate was invoked.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next
}

// Requests returns a copy of every request seen so far.
func (m *ScriptedModel) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or false when none was made.
func (m *ScriptedModel) LastRequest() (model.Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return model.Request{}, false
	}
	return m.requests[len(m.requests)-1], true
}

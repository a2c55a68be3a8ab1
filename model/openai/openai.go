// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API (including function/tool calling). It adapts the
// engine's normalized Request/Response structures into the SDK's message
// format and back.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/model"
)

// Options configure the OpenAI model adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements model.Model. It converts the item log into chat
// messages, performs a single non-streaming completion and normalizes the
// first choice back into a model.Response.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	params := m.buildParams(req, buildMessages(req))

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai api error: no choices returned")
	}

	ch0 := resp.Choices[0]
	out := &model.Response{
		ID:           resp.ID,
		Text:         ch0.Message.Content,
		FinishReason: ch0.FinishReason,
		Usage: model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}
	for _, tc := range ch0.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, model.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

// buildMessages converts the item log into OpenAI chat messages. Consecutive
// tool call items (one model turn) collapse into a single assistant message;
// their results follow as tool messages in call order.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}

	toolResults := collectToolResults(req.Items)

	items := req.Items
	for i := 0; i < len(items); i++ {
		switch it := items[i].(type) {
		case core.UserMessageItem:
			messages = append(messages, openai.UserMessage(it.Text))
		case core.MessageItem:
			messages = append(messages, openai.AssistantMessage(it.Text))
		case core.HandoffItem:
			messages = append(messages, openai.UserMessage(handoffText(it)))
		case core.ToolCallItem:
			var calls []openai.ChatCompletionMessageToolCallParam
			var callIDs []string
			for ; i < len(items); i++ {
				tc, ok := items[i].(core.ToolCallItem)
				if !ok {
					i--
					break
				}
				calls = append(calls, openai.ChatCompletionMessageToolCallParam{
					ID:   tc.CallID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.ToolName,
						Arguments: tc.Arguments,
					},
				})
				callIDs = append(callIDs, tc.CallID)
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: calls,
				},
			})
			for _, id := range callIDs {
				if result, ok := toolResults[id]; ok {
					messages = append(messages, openai.ToolMessage(result, id))
				}
			}
		}
	}
	return messages
}

// collectToolResults indexes tool result payloads by call ID.
func collectToolResults(items []core.Item) map[string]string {
	results := map[string]string{}
	for _, it := range items {
		tr, ok := it.(core.ToolResultItem)
		if !ok || tr.CallID == "" {
			continue
		}
		results[tr.CallID] = renderResult(tr)
	}
	return results
}

func renderResult(tr core.ToolResultItem) string {
	if tr.Error != "" {
		return fmt.Sprintf("error: %s", tr.Error)
	}
	if s, ok := tr.Result.(string); ok {
		return s
	}
	if b, err := json.Marshal(tr.Result); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", tr.Result)
}

func handoffText(it core.HandoffItem) string {
	text := fmt.Sprintf("Conversation transferred from %s to %s.", it.From, it.To)
	if it.Note != "" {
		text += "\n" + it.Note
	}
	return text
}

// buildParams assembles the OpenAI request parameters including tool definitions.
func (m *Model) buildParams(
	req model.Request,
	messages []openai.ChatCompletionMessageParamUnion,
) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
	if len(req.Tools) == 0 {
		return params
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tdef := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Name,
				Description: openai.String(tdef.Description),
				Parameters:  tdef.Parameters,
			},
		}
	}
	params.Tools = tools
	return params
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}

// Package anthropic provides a model wrapper for the Anthropic Claude API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/model"
)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Generate implements model.Model. It adapts the item log into Anthropic
// Messages (with tool use blocks) and normalizes the response.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    buildMessages(req.Items),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}
	if req.Instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Instructions}}
	}
	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	out := &model.Response{
		ID:           resp.ID,
		FinishReason: finishReason(resp.StopReason),
		Usage: model.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}

	var text strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.AsText().Text)
		case "tool_use":
			toolBlock := block.AsToolUse()
			args := ""
			if toolBlock.Input != nil {
				if argsBytes, err := json.Marshal(toolBlock.Input); err == nil {
					args = string(argsBytes)
				}
			}
			out.ToolCalls = append(out.ToolCalls, model.ToolCall{
				ID:        toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: args,
			})
		}
	}
	out.Text = text.String()

	return out, nil
}

func finishReason(stop anthropic.StopReason) string {
	if stop == "" {
		return "stop"
	}
	return string(stop)
}

// buildMessages converts the item log to Anthropic message format. A run of
// consecutive tool call items becomes one assistant message holding the tool
// use blocks; the matching results follow as a user message with tool result
// blocks, as the Messages API requires.
func buildMessages(items []core.Item) []anthropic.MessageParam {
	var messages []anthropic.MessageParam

	toolResults := map[string]core.ToolResultItem{}
	for _, it := range items {
		if tr, ok := it.(core.ToolResultItem); ok && tr.CallID != "" {
			toolResults[tr.CallID] = tr
		}
	}

	for i := 0; i < len(items); i++ {
		switch it := items[i].(type) {
		case core.UserMessageItem:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(it.Text)))
		case core.MessageItem:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(it.Text)))
		case core.HandoffItem:
			text := fmt.Sprintf("Conversation transferred from %s to %s.", it.From, it.To)
			if it.Note != "" {
				text += "\n" + it.Note
			}
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
		case core.ToolCallItem:
			var uses []anthropic.ContentBlockParamUnion
			var results []anthropic.ContentBlockParamUnion
			for ; i < len(items); i++ {
				tc, ok := items[i].(core.ToolCallItem)
				if !ok {
					i--
					break
				}
				var input any
				if tc.Arguments != "" {
					if err := json.Unmarshal([]byte(tc.Arguments), &input); err != nil {
						input = tc.Arguments
					}
				}
				uses = append(uses, anthropic.NewToolUseBlock(tc.CallID, input, tc.ToolName))
				if tr, ok := toolResults[tc.CallID]; ok {
					results = append(results, anthropic.NewToolResultBlock(tc.CallID, renderResult(tr), tr.IsError()))
				}
			}
			messages = append(messages, anthropic.NewAssistantMessage(uses...))
			if len(results) > 0 {
				messages = append(messages, anthropic.NewUserMessage(results...))
			}
		}
	}

	return messages
}

func renderResult(tr core.ToolResultItem) string {
	if tr.Error != "" {
		return tr.Error
	}
	if s, ok := tr.Result.(string); ok {
		return s
	}
	if b, err := json.Marshal(tr.Result); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", tr.Result)
}

// buildTools converts tool definitions to the Anthropic tool format.
func buildTools(tools []model.ToolDefinition) []anthropic.ToolUnionParam {
	anthropicTools := make([]anthropic.ToolUnionParam, len(tools))

	for i, tdef := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}
		if tdef.Parameters != nil {
			if properties, exists := tdef.Parameters["properties"]; exists {
				inputSchema.Properties = properties
			}
			if required, exists := tdef.Parameters["required"]; exists {
				switch req := required.(type) {
				case []string:
					inputSchema.Required = req
				case []any:
					for _, r := range req {
						if s, ok := r.(string); ok {
							inputSchema.Required = append(inputSchema.Required, s)
						}
					}
				}
			}
		}

		anthropicTools[i] = anthropic.ToolUnionParamOfTool(inputSchema, tdef.Name)
	}

	return anthropicTools
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}

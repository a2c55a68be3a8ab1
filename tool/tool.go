// Package tool implements the function calling subsystem that lets agents
// invoke structured capabilities (APIs, computations, side effects) with schema
// validated arguments, consistent error handling and rich metadata for LLM
// guidance.
package tool

import (
	"fmt"

	"github.com/relayworks/agentrelay/core"
)

// Tool defines the interface for extending agent capabilities with external
// functions.
//
// Tools are registered with agents to enable function calling, allowing agents
// to perform actions beyond text generation such as API calls, calculations,
// database queries, or any other programmatic operations. An agent wrapped as
// a tool (see the runner package) satisfies the same contract, so the engine
// never branches on what is behind an invocation.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be thread-safe: one model turn may run several calls concurrently
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the LLM to help it decide when and how to use the tool.
	Description() string

	// ParamSchema returns a JSON schema describing the expected input format.
	// It is used for argument validation and LLM function calling.
	ParamSchema() map[string]any

	// Call executes the tool with already-validated arguments and the
	// invocation-scoped context.
	Call(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// Error codes attached to *ToolError values.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodeTimeout    = "TIMEOUT"
	CodeUnknown    = "UNKNOWN_TOOL"
)

// ToolError represents a tool-level failure. Tool-level failures are reported
// back to the model as observations in the item log, never raised as run-level
// errors; this lets the model retry or pick a different tool.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

package tool

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// ReflectSchema derives a JSON schema from a Go struct. Field names come from
// json tags, descriptions from `jsonschema:"description=..."` tags; fields
// without omitempty are required. It is the convenience path behind
// NewFunctionToolFromStruct.
func ReflectSchema(v any) (map[string]any, error) {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal reflected schema: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal reflected schema: %w", err)
	}
	// The engine only ships the parameter object to providers.
	delete(out, "$schema")
	delete(out, "$id")
	return out, nil
}

// ValidateArgs checks args against a JSON schema and returns a ToolError with
// code VALIDATION_ERROR describing every violation on mismatch.
func ValidateArgs(toolName string, args map[string]any, schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(args),
	)
	if err != nil {
		return &ToolError{
			Tool:    toolName,
			Message: fmt.Sprintf("invalid parameter schema: %v", err),
			Code:    CodeValidation,
		}
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		details = append(details, verr.String())
	}
	return &ToolError{
		Tool:    toolName,
		Message: fmt.Sprintf("parameter validation failed: %v", details),
		Code:    CodeValidation,
		Details: details,
	}
}

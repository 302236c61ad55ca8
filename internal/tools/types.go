// Package tools defines the tool type, argument schema, and thread-safe
// registry behind the MCP dispatch boundary. Each tool takes a validated
// argument map and returns a single string; everything else (transport,
// shaping) lives behind that contract.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Category groups tools by the upstream surface they touch.
type Category string

const (
	// CategoryTickets covers search, retrieval, and conversation tools.
	CategoryTickets Category = "/tickets"

	// CategoryDirectory covers the department and status helper tools.
	CategoryDirectory Category = "/directory"
)

// Property describes one argument in the tool's JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Minimum     *int   `json:"minimum,omitempty"`
	Maximum     *int   `json:"maximum,omitempty"`
}

// Schema declares the arguments a tool accepts. It marshals to a JSON
// Schema object suitable for the MCP tools/list response.
type Schema struct {
	Required   []string
	Properties map[string]Property
}

// MarshalJSON emits the schema as a JSON Schema object.
func (s Schema) MarshalJSON() ([]byte, error) {
	required := s.Required
	if required == nil {
		required = []string{}
	}
	properties := s.Properties
	if properties == nil {
		properties = map[string]Property{}
	}
	return json.Marshal(struct {
		Type       string              `json:"type"`
		Properties map[string]Property `json:"properties"`
		Required   []string            `json:"required"`
	}{
		Type:       "object",
		Properties: properties,
		Required:   required,
	})
}

// ExecuteFunc runs a tool against a validated argument map and returns
// the single output string.
type ExecuteFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool is one callable entry exposed over MCP.
type Tool struct {
	Name        string
	Description string
	Category    Category
	Schema      Schema
	Execute     ExecuteFunc
}

// Validate checks the tool definition.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	return nil
}

// Result wraps a tool execution with timing metadata.
type Result struct {
	ToolName   string
	Output     string
	Err        error
	DurationMs int64
}

// IsSuccess reports whether the tool executed without error.
func (r *Result) IsSuccess() bool {
	return r.Err == nil
}

// Argument accessors. MCP arguments arrive as decoded JSON, so numbers
// are float64 and everything needs a checked coercion.

// StringArg returns args[key] as a string, or fallback when absent.
func StringArg(args map[string]any, key, fallback string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidArgType, key)
	}
	return s, nil
}

// IntArg returns args[key] as an int, or fallback when absent.
func IntArg(args map[string]any, key string, fallback int) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidArgType, key)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidArgType, key)
	}
}

// BoolArg returns args[key] as a bool, or fallback when absent.
func BoolArg(args map[string]any, key string, fallback bool) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidArgType, key)
	}
	return b, nil
}

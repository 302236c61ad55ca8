package ticketing

import (
	"kayakomcp/internal/config"
	"kayakomcp/internal/kayako"
	"kayakomcp/internal/tools"
)

// Toolset binds the Kayako tools to a transport client and the shaping
// limits. All tools share the one stateless client; nothing else is
// shared between invocations.
type Toolset struct {
	client *kayako.Client
	limits config.LimitsConfig
}

// New creates the toolset.
func New(client *kayako.Client, limits config.LimitsConfig) *Toolset {
	return &Toolset{client: client, limits: limits}
}

// RegisterAll registers every Kayako tool with the registry.
func (ts *Toolset) RegisterAll(registry *tools.Registry) error {
	all := []*tools.Tool{
		ts.SearchTicketsTool(),
		ts.GetTicketTool(),
		ts.ListTicketsTool(),
		ts.GetTicketPostsTool(),
		ts.GetDepartmentsTool(),
		ts.GetTicketStatusesTool(),
	}
	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// clampLimit normalizes a caller-requested page size into [1, MaxLimit],
// substituting fallback when the caller passed nothing.
func (ts *Toolset) clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > ts.limits.MaxLimit {
		return ts.limits.MaxLimit
	}
	return limit
}

// formatProperty is the shared response_format schema entry.
func formatProperty() tools.Property {
	return tools.Property{
		Type:        "string",
		Description: "Response format: markdown (human-readable) or json (structured envelope)",
		Default:     "markdown",
		Enum:        []any{"markdown", "json"},
	}
}

func intPtr(v int) *int { return &v }

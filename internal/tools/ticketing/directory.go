package ticketing

import (
	"context"

	"kayakomcp/internal/shape"
	"kayakomcp/internal/tools"
)

// defaultDirectoryLimit covers the full directory in one page for any
// realistic Kayako installation.
const defaultDirectoryLimit = 100

// GetDepartmentsTool lists all departments; their IDs feed the ticket
// filters.
func (ts *Toolset) GetDepartmentsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "kayako_get_departments",
		Description: "List all Kayako departments with their IDs, for use when filtering tickets by department.",
		Category:    tools.CategoryDirectory,
		Execute:     ts.executeGetDepartments,
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"limit": {
					Type:        "integer",
					Description: "Maximum number of departments to return",
					Default:     defaultDirectoryLimit,
					Minimum:     intPtr(1),
					Maximum:     intPtr(100),
				},
				"offset": {
					Type:        "integer",
					Description: "Pagination offset",
					Default:     0,
					Minimum:     intPtr(0),
				},
				"response_format": formatProperty(),
			},
		},
	}
}

func (ts *Toolset) executeGetDepartments(ctx context.Context, args map[string]any) (string, error) {
	format, limit, offset, err := ts.commonArgs(args, defaultDirectoryLimit)
	if err != nil {
		return "", err
	}

	response, err := ts.client.Get(ctx, "/Base/Department", nil)
	if err != nil {
		return "", err
	}

	departments := response.Field("department").Sequence()
	if len(departments) == 0 {
		return "No departments found.", nil
	}

	window, page := shape.Paginate(departments, offset, limit)
	if format == shape.FormatJSON {
		return shape.ListEnvelope("departments", window, page)
	}
	return shape.DepartmentsMarkdown(window, ts.limits.CharacterLimit), nil
}

// GetTicketStatusesTool lists all ticket statuses; their IDs feed the
// ticket filters.
func (ts *Toolset) GetTicketStatusesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "kayako_get_ticket_statuses",
		Description: "List all Kayako ticket statuses with their IDs, for use when filtering tickets by status.",
		Category:    tools.CategoryDirectory,
		Execute:     ts.executeGetTicketStatuses,
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"limit": {
					Type:        "integer",
					Description: "Maximum number of statuses to return",
					Default:     defaultDirectoryLimit,
					Minimum:     intPtr(1),
					Maximum:     intPtr(100),
				},
				"offset": {
					Type:        "integer",
					Description: "Pagination offset",
					Default:     0,
					Minimum:     intPtr(0),
				},
				"response_format": formatProperty(),
			},
		},
	}
}

func (ts *Toolset) executeGetTicketStatuses(ctx context.Context, args map[string]any) (string, error) {
	format, limit, offset, err := ts.commonArgs(args, defaultDirectoryLimit)
	if err != nil {
		return "", err
	}

	response, err := ts.client.Get(ctx, "/Tickets/TicketStatus", nil)
	if err != nil {
		return "", err
	}

	statuses := response.Field("ticketstatus").Sequence()
	if len(statuses) == 0 {
		return "No ticket statuses found.", nil
	}

	window, page := shape.Paginate(statuses, offset, limit)
	if format == shape.FormatJSON {
		return shape.ListEnvelope("ticketstatuses", window, page)
	}
	return shape.StatusesMarkdown(window, ts.limits.CharacterLimit), nil
}

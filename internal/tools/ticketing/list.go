package ticketing

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"kayakomcp/internal/shape"
	"kayakomcp/internal/tools"
)

// ListTicketsTool lists tickets with filtering and sorting via
// /Tickets/Ticket.
func (ts *Toolset) ListTicketsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "kayako_list_tickets",
		Description: "List Kayako tickets filtered by department, status, assigned staff, or customer, with sorting and pagination.",
		Category:    tools.CategoryTickets,
		Execute:     ts.executeListTickets,
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"department_id": {
					Type:        "integer",
					Description: "Filter by department ID",
					Minimum:     intPtr(1),
				},
				"status_id": {
					Type:        "integer",
					Description: "Filter by ticket status ID",
					Minimum:     intPtr(1),
				},
				"owner_staff_id": {
					Type:        "integer",
					Description: "Filter by assigned staff member ID",
					Minimum:     intPtr(1),
				},
				"user_id": {
					Type:        "integer",
					Description: "Filter by customer user ID",
					Minimum:     intPtr(1),
				},
				"sort_field": {
					Type:        "string",
					Description: "Field to sort by",
					Default:     "lastactivity",
				},
				"sort_order": {
					Type:        "string",
					Description: "Sort order: ASC or DESC",
					Default:     "DESC",
					Enum:        []any{"ASC", "DESC"},
				},
				"limit": {
					Type:        "integer",
					Description: "Maximum number of results to return",
					Default:     20,
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

func (ts *Toolset) executeListTickets(ctx context.Context, args map[string]any) (string, error) {
	format, limit, offset, err := ts.commonArgs(args, ts.limits.DefaultLimit)
	if err != nil {
		return "", err
	}

	sortField, err := tools.StringArg(args, "sort_field", "lastactivity")
	if err != nil {
		return "", err
	}
	sortOrder, err := tools.StringArg(args, "sort_order", "DESC")
	if err != nil {
		return "", err
	}
	sortOrder = strings.ToUpper(sortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		return "", fmt.Errorf("%w: sort_order must be ASC or DESC", tools.ErrInvalidArgType)
	}

	params := url.Values{}
	params.Set("sortfield", sortField)
	params.Set("sortorder", sortOrder)

	filters := []struct {
		arg   string
		param string
	}{
		{"department_id", "departmentid"},
		{"status_id", "statusid"},
		{"owner_staff_id", "ownerstaffid"},
		{"user_id", "userid"},
	}
	for _, f := range filters {
		v, err := tools.IntArg(args, f.arg, 0)
		if err != nil {
			return "", err
		}
		if v < 0 {
			return "", fmt.Errorf("%w: %s must be positive", tools.ErrInvalidArgType, f.arg)
		}
		if v > 0 {
			params.Set(f.param, strconv.Itoa(v))
		}
	}

	response, err := ts.client.Get(ctx, "/Tickets/Ticket", params)
	if err != nil {
		return "", err
	}

	items := response.Field("ticket").Sequence()
	if len(items) == 0 {
		return "No tickets found matching the specified criteria.", nil
	}

	window, page := shape.Paginate(items, offset, limit)
	if format == shape.FormatJSON {
		return shape.ListEnvelope("tickets", window, page)
	}
	return shape.TicketListMarkdown(window, ts.limits.CharacterLimit), nil
}

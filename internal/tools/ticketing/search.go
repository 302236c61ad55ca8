package ticketing

import (
	"context"
	"net/url"
	"strings"

	"kayakomcp/internal/shape"
	"kayakomcp/internal/tools"
)

// SearchTicketsTool searches tickets by content, subject, user, or other
// criteria via /Tickets/TicketSearch.
func (ts *Toolset) SearchTicketsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "kayako_search_tickets",
		Description: "Search Kayako tickets by content, subject, staff notes, or user. Returns a paginated list of matching tickets.",
		Category:    tools.CategoryTickets,
		Execute:     ts.executeSearch,
		Schema: tools.Schema{
			Required: []string{"query"},
			Properties: map[string]tools.Property{
				"query": {
					Type:        "string",
					Description: "Search query text",
				},
				"search_contents": {
					Type:        "boolean",
					Description: "Search in ticket body content",
					Default:     true,
				},
				"search_subject": {
					Type:        "boolean",
					Description: "Search in ticket subject line",
					Default:     true,
				},
				"search_notes": {
					Type:        "boolean",
					Description: "Search in staff notes",
					Default:     false,
				},
				"search_user_email": {
					Type:        "boolean",
					Description: "Search by user email address",
					Default:     false,
				},
				"search_user_name": {
					Type:        "boolean",
					Description: "Search by user name",
					Default:     false,
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

func (ts *Toolset) executeSearch(ctx context.Context, args map[string]any) (string, error) {
	query, err := tools.StringArg(args, "query", "")
	if err != nil {
		return "", err
	}
	format, limit, offset, err := ts.commonArgs(args, ts.limits.DefaultLimit)
	if err != nil {
		return "", err
	}

	// Map the search-field flags onto Kayako's searchtype CSV.
	fields := []struct {
		arg      string
		field    string
		fallback bool
	}{
		{"search_contents", "contents", true},
		{"search_subject", "subject", true},
		{"search_notes", "notes", false},
		{"search_user_email", "usergroup", false},
		{"search_user_name", "user", false},
	}
	var searchTypes []string
	for _, f := range fields {
		on, err := tools.BoolArg(args, f.arg, f.fallback)
		if err != nil {
			return "", err
		}
		if on {
			searchTypes = append(searchTypes, f.field)
		}
	}

	params := url.Values{}
	params.Set("query", query)
	if len(searchTypes) > 0 {
		params.Set("searchtype", strings.Join(searchTypes, ","))
	}

	response, err := ts.client.Post(ctx, "/Tickets/TicketSearch", params)
	if err != nil {
		return "", err
	}

	matches := response.Field("ticket").Sequence()
	if len(matches) == 0 {
		return "No tickets found matching your search criteria.", nil
	}

	window, page := shape.Paginate(matches, offset, limit)
	if format == shape.FormatJSON {
		return shape.ListEnvelope("tickets", window, page)
	}
	return shape.TicketListMarkdown(window, ts.limits.CharacterLimit), nil
}

// commonArgs extracts the response_format/limit/offset triple shared by
// the listing tools.
func (ts *Toolset) commonArgs(args map[string]any, defaultLimit int) (shape.Format, int, int, error) {
	rawFormat, err := tools.StringArg(args, "response_format", "")
	if err != nil {
		return "", 0, 0, err
	}
	format, err := shape.ParseFormat(rawFormat)
	if err != nil {
		return "", 0, 0, err
	}
	limit, err := tools.IntArg(args, "limit", 0)
	if err != nil {
		return "", 0, 0, err
	}
	offset, err := tools.IntArg(args, "offset", 0)
	if err != nil {
		return "", 0, 0, err
	}
	if offset < 0 {
		offset = 0
	}
	return format, ts.clampLimit(limit, defaultLimit), offset, nil
}

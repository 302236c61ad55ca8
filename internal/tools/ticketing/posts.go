package ticketing

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"kayakomcp/internal/kayako"
	"kayakomcp/internal/shape"
	"kayakomcp/internal/tools"
)

// defaultPostsLimit is larger than the ticket-list default; conversations
// are usually read whole.
const defaultPostsLimit = 50

// GetTicketPostsTool retrieves the full conversation of a ticket via
// /Tickets/TicketPost/ListAll.
func (ts *Toolset) GetTicketPostsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "kayako_get_ticket_posts",
		Description: "Get all posts and replies in a Kayako ticket conversation, in chronological order.",
		Category:    tools.CategoryTickets,
		Execute:     ts.executeGetTicketPosts,
		Schema: tools.Schema{
			Required: []string{"ticket_id"},
			Properties: map[string]tools.Property{
				"ticket_id": {
					Type:        "string",
					Description: "Ticket ID (display ID or internal ID)",
				},
				"limit": {
					Type:        "integer",
					Description: "Maximum number of posts to return",
					Default:     defaultPostsLimit,
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

func (ts *Toolset) executeGetTicketPosts(ctx context.Context, args map[string]any) (string, error) {
	ticketID, err := tools.StringArg(args, "ticket_id", "")
	if err != nil {
		return "", err
	}
	format, limit, offset, err := ts.commonArgs(args, defaultPostsLimit)
	if err != nil {
		return "", err
	}

	response, err := ts.client.Get(ctx, "/Tickets/TicketPost/ListAll/"+url.PathEscape(ticketID), nil)
	if err != nil {
		if errors.Is(err, kayako.ErrNotFound) {
			return fmt.Sprintf("No posts found for ticket #%s.", ticketID), nil
		}
		return "", err
	}

	posts := response.Field("post").Sequence()
	if len(posts) == 0 {
		return fmt.Sprintf("No posts found for ticket #%s.", ticketID), nil
	}

	window, page := shape.Paginate(posts, offset, limit)
	if format == shape.FormatJSON {
		return shape.ListEnvelope("posts", window, page)
	}
	return shape.PostsMarkdown(window, ticketID, ts.limits.CharacterLimit), nil
}

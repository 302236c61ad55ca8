package ticketing

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"kayakomcp/internal/kayako"
	"kayakomcp/internal/logging"
	"kayakomcp/internal/shape"
	"kayakomcp/internal/tools"
)

// GetTicketTool retrieves a single ticket, optionally with its
// conversation history.
func (ts *Toolset) GetTicketTool() *tools.Tool {
	return &tools.Tool{
		Name:        "kayako_get_ticket",
		Description: "Get complete details of a specific Kayako ticket, optionally including the conversation history.",
		Category:    tools.CategoryTickets,
		Execute:     ts.executeGetTicket,
		Schema: tools.Schema{
			Required: []string{"ticket_id"},
			Properties: map[string]tools.Property{
				"ticket_id": {
					Type:        "string",
					Description: "Ticket ID (display ID or internal ID)",
				},
				"include_posts": {
					Type:        "boolean",
					Description: "Include conversation history in the response",
					Default:     false,
				},
				"response_format": formatProperty(),
			},
		},
	}
}

func (ts *Toolset) executeGetTicket(ctx context.Context, args map[string]any) (string, error) {
	ticketID, err := tools.StringArg(args, "ticket_id", "")
	if err != nil {
		return "", err
	}
	includePosts, err := tools.BoolArg(args, "include_posts", false)
	if err != nil {
		return "", err
	}
	rawFormat, err := tools.StringArg(args, "response_format", "")
	if err != nil {
		return "", err
	}
	format, err := shape.ParseFormat(rawFormat)
	if err != nil {
		return "", err
	}

	// The ticket and its conversation are independent fetches; run them
	// concurrently. A posts failure degrades to a nil conversation and
	// never fails the primary retrieval.
	var (
		ticketResp *kayako.Node
		ticketErr  error
		posts      []*kayako.Node
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticketResp, ticketErr = ts.client.Get(gctx, "/Tickets/Ticket/"+url.PathEscape(ticketID), nil)
		return nil
	})
	if includePosts {
		g.Go(func() error {
			fetched, err := ts.fetchPosts(gctx, ticketID)
			if err != nil {
				logging.ToolsWarn("posts fetch for ticket %s failed, continuing without: %v", ticketID, err)
				return nil
			}
			posts = fetched
			return nil
		})
	}
	_ = g.Wait()

	if ticketErr != nil {
		if errors.Is(ticketErr, kayako.ErrNotFound) {
			return fmt.Sprintf("Ticket #%s not found.", ticketID), nil
		}
		return "", ticketErr
	}

	items := ticketResp.Field("ticket").Sequence()
	if len(items) == 0 {
		return fmt.Sprintf("Ticket #%s not found.", ticketID), nil
	}
	ticket := items[0]

	if format == shape.FormatJSON {
		if !includePosts {
			posts = nil
		}
		return shape.EntityEnvelope("ticket", ticket, posts)
	}
	return shape.TicketMarkdown(ticket, posts, ts.limits.CharacterLimit), nil
}

// fetchPosts retrieves the full conversation for a ticket.
func (ts *Toolset) fetchPosts(ctx context.Context, ticketID string) ([]*kayako.Node, error) {
	response, err := ts.client.Get(ctx, "/Tickets/TicketPost/ListAll/"+url.PathEscape(ticketID), nil)
	if err != nil {
		return nil, err
	}
	return response.Field("post").Sequence(), nil
}

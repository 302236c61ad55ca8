// Package shape converts normalized Kayako data into size-bounded output
// strings: paginated JSON envelopes for machine consumption and Markdown
// renderings with deterministic truncation for humans.
package shape

import (
	"encoding/json"
	"fmt"

	"kayakomcp/internal/kayako"
)

// Format selects the output rendering.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a response_format argument. Empty defaults to
// Markdown.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid response_format %q: expected markdown or json", s)
	}
}

// Page is the pagination metadata attached to structured listings.
type Page struct {
	Total      int  `json:"total"`
	Count      int  `json:"count"`
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	HasMore    bool `json:"has_more"`
	NextOffset int  `json:"next_offset"`
}

// Paginate applies limit/offset locally over the full normalized item
// list, so the returned metadata is exact. Offsets past the end yield an
// empty window, not an error.
func Paginate(items []*kayako.Node, offset, limit int) ([]*kayako.Node, Page) {
	total := len(items)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = total
	}

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	window := items[start:end]
	page := Page{
		Total:      total,
		Count:      len(window),
		Offset:     offset,
		Limit:      limit,
		HasMore:    end < total,
		NextOffset: end,
	}
	return window, page
}

// ListEnvelope renders the fixed structured envelope for listing tools:
// {total, count, offset, limit, has_more, next_offset, <plural>: [...]}.
// The payload items are emitted verbatim; size governance in structured
// mode is the caller's limit/offset, not truncation.
func ListEnvelope(plural string, items []*kayako.Node, page Page) (string, error) {
	env := kayako.NewMapping()
	env.Add("total", kayako.Scalar(int64(page.Total)))
	env.Add("count", kayako.Scalar(int64(page.Count)))
	env.Add("offset", kayako.Scalar(int64(page.Offset)))
	env.Add("limit", kayako.Scalar(int64(page.Limit)))
	env.Add("has_more", kayako.Scalar(page.HasMore))
	env.Add("next_offset", kayako.Scalar(int64(page.NextOffset)))
	env.Add(plural, kayako.NewSequence(items...))

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// EntityEnvelope renders the structured envelope for single-entity
// retrieval: {<entity>: ..., posts: [...] | null}. posts is null when the
// conversation was not requested or could not be fetched.
func EntityEnvelope(entity string, node *kayako.Node, posts []*kayako.Node) (string, error) {
	env := kayako.NewMapping()
	env.Add(entity, node)
	if posts == nil {
		env.Add("posts", kayako.Scalar(nil))
	} else {
		env.Add("posts", kayako.NewSequence(posts...))
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

package shape

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"kayakomcp/internal/kayako"
)

// FormatTimestamp renders a Kayako dateline field. Kayako sends unix
// seconds, which the normalizer has usually coerced to an integer;
// anything non-numeric passes through untouched.
func FormatTimestamp(n *kayako.Node) string {
	if n.IsNull() {
		return "Unknown"
	}
	switch v := n.Value().(type) {
	case int64:
		return time.Unix(v, 0).UTC().Format("2006-01-02 15:04:05")
	case string:
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(secs, 0).UTC().Format("2006-01-02 15:04:05")
		}
		return v
	default:
		return n.Text()
	}
}

// ticketID prefers the human-facing display ID over the internal one.
func ticketID(t *kayako.Node) string {
	if id := t.StringOr("displayid", ""); id != "" {
		return id
	}
	return t.StringOr("id", "Unknown")
}

// TicketMarkdown renders a single ticket, optionally with its
// conversation, bounded by limit characters.
func TicketMarkdown(t *kayako.Node, posts []*kayako.Node, limit int) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# Ticket #%s: %s\n\n", ticketID(t), t.StringOr("subject", "No subject"))
	md.WriteString("## Details\n")
	fmt.Fprintf(&md, "- **Status:** %s\n", t.StringOr("statustype", "Unknown"))
	fmt.Fprintf(&md, "- **Priority:** %s\n", t.StringOr("prioritytitle", "Unknown"))
	fmt.Fprintf(&md, "- **Department:** %s\n", t.StringOr("departmenttitle", "Unknown"))
	fmt.Fprintf(&md, "- **Assigned to:** %s\n", t.StringOr("ownerstaffname", "Unassigned"))

	customer := t.StringOr("userfullname", "Unknown")
	email := t.StringOr("emailqueue", t.StringOr("email", ""))
	if email != "" {
		fmt.Fprintf(&md, "- **Customer:** %s (%s)\n", customer, email)
	} else {
		fmt.Fprintf(&md, "- **Customer:** %s\n", customer)
	}
	fmt.Fprintf(&md, "- **Created:** %s\n", FormatTimestamp(t.Field("dateline")))
	fmt.Fprintf(&md, "- **Last Activity:** %s\n\n", FormatTimestamp(t.Field("lastactivity")))

	if contents := t.StringOr("contents", ""); contents != "" {
		md.WriteString("## Content\n")
		md.WriteString(contents)
		md.WriteString("\n\n")
	}

	if len(posts) > 0 {
		md.WriteString("## Conversation History\n\n")
		for i, post := range posts {
			fmt.Fprintf(&md, "### #%d - %s (%s) - %s\n\n%s\n\n",
				i+1,
				post.StringOr("fullname", "Unknown"),
				creatorType(post),
				FormatTimestamp(post.Field("dateline")),
				post.StringOr("contents", ""),
			)
		}
	}

	return Truncate(md.String(), limit)
}

// TicketListMarkdown renders a page of tickets as a compact digest.
func TicketListMarkdown(tickets []*kayako.Node, limit int) string {
	if len(tickets) == 0 {
		return "No tickets found."
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# Tickets (%d found)\n\n", len(tickets))
	for _, t := range tickets {
		fmt.Fprintf(&md, "## #%s: %s\n", ticketID(t), t.StringOr("subject", "No subject"))
		fmt.Fprintf(&md, "- **Status:** %s | **Priority:** %s | **Dept:** %s\n",
			t.StringOr("statustype", "Unknown"),
			t.StringOr("prioritytitle", "Unknown"),
			t.StringOr("departmenttitle", "Unknown"))
		fmt.Fprintf(&md, "- **Assigned:** %s | **Customer:** %s\n",
			t.StringOr("ownerstaffname", "Unassigned"),
			t.StringOr("userfullname", "Unknown"))
		fmt.Fprintf(&md, "- **Last Activity:** %s\n\n", FormatTimestamp(t.Field("lastactivity")))
	}
	return Truncate(md.String(), limit)
}

// PostsMarkdown renders a ticket conversation in chronological order.
func PostsMarkdown(posts []*kayako.Node, ticketID string, limit int) string {
	if len(posts) == 0 {
		return fmt.Sprintf("No posts found for ticket #%s.", ticketID)
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# Conversation History - Ticket #%s\n\n", ticketID)
	for i, post := range posts {
		fmt.Fprintf(&md, "## #%d - %s (%s)\n", i+1,
			post.StringOr("fullname", "Unknown"), creatorType(post))
		fmt.Fprintf(&md, "**Date:** %s\n\n", FormatTimestamp(post.Field("dateline")))
		md.WriteString(post.StringOr("contents", ""))
		md.WriteString("\n\n---\n\n")
	}
	return Truncate(md.String(), limit)
}

// DepartmentsMarkdown renders the department directory.
func DepartmentsMarkdown(departments []*kayako.Node, limit int) string {
	if len(departments) == 0 {
		return "No departments found."
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# Departments (%d found)\n\n", len(departments))
	for _, dept := range departments {
		fmt.Fprintf(&md, "## %s\n", dept.StringOr("title", "No title"))
		fmt.Fprintf(&md, "- **ID:** %s\n", dept.StringOr("id", "Unknown"))
		fmt.Fprintf(&md, "- **Module:** %s\n", dept.StringOr("module", "Unknown"))
		if parent := dept.StringOr("parentdepartmentid", ""); parent != "" && parent != "0" {
			fmt.Fprintf(&md, "- **Parent ID:** %s\n", parent)
		}
		md.WriteString("\n")
	}
	return Truncate(md.String(), limit)
}

// StatusesMarkdown renders the ticket status directory.
func StatusesMarkdown(statuses []*kayako.Node, limit int) string {
	if len(statuses) == 0 {
		return "No ticket statuses found."
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# Ticket Statuses (%d found)\n\n", len(statuses))
	for _, status := range statuses {
		fmt.Fprintf(&md, "## %s\n", status.StringOr("title", "No title"))
		fmt.Fprintf(&md, "- **ID:** %s\n", status.StringOr("id", "Unknown"))
		fmt.Fprintf(&md, "- **Type:** %s\n", status.StringOr("type", "Unknown"))
		if dept := status.StringOr("departmentid", ""); dept != "" && dept != "0" {
			fmt.Fprintf(&md, "- **Department ID:** %s\n", dept)
		}
		md.WriteString("\n")
	}
	return Truncate(md.String(), limit)
}

// creatorType attributes a post to staff or customer based on staffid.
func creatorType(post *kayako.Node) string {
	staffID := post.Field("staffid")
	if staffID.IsNull() {
		return "Customer"
	}
	if v, ok := staffID.Value().(int64); ok && v == 0 {
		return "Customer"
	}
	return "Staff"
}

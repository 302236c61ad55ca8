package shape

import (
	"strings"
	"testing"

	"kayakomcp/internal/kayako"
)

func mustNormalize(t *testing.T, xml string) *kayako.Node {
	t.Helper()
	node, err := kayako.Normalize(xml)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	return node
}

func sampleTicket(t *testing.T) *kayako.Node {
	return mustNormalize(t, `<ticket id="300">
		<displayid>ABC-300</displayid>
		<subject>Printer jams on every job</subject>
		<statustype>Open</statustype>
		<prioritytitle>High</prioritytitle>
		<departmenttitle>Support</departmenttitle>
		<ownerstaffname>Sam Lee</ownerstaffname>
		<userfullname>Pat Doe</userfullname>
		<email>pat@example.com</email>
		<dateline>1700000000</dateline>
		<lastactivity>1700003600</lastactivity>
		<contents>Paper jams after two pages.</contents>
	</ticket>`)
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		node *kayako.Node
		want string
	}{
		{"unix seconds", kayako.Scalar(int64(1700000000)), "2023-11-14 22:13:20"},
		{"digit string", kayako.Scalar("1700000000"), "2023-11-14 22:13:20"},
		{"non-numeric passthrough", kayako.Scalar("yesterday"), "yesterday"},
		{"null", kayako.Scalar(nil), "Unknown"},
		{"absent field", nil, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.node); got != tt.want {
				t.Errorf("FormatTimestamp = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTicketMarkdown(t *testing.T) {
	out := TicketMarkdown(sampleTicket(t), nil, 25000)

	for _, want := range []string{
		"# Ticket #ABC-300: Printer jams on every job",
		"- **Status:** Open",
		"- **Priority:** High",
		"- **Department:** Support",
		"- **Assigned to:** Sam Lee",
		"- **Customer:** Pat Doe (pat@example.com)",
		"- **Created:** 2023-11-14 22:13:20",
		"## Content\nPaper jams after two pages.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "## Conversation History") {
		t.Error("conversation section rendered without posts")
	}
}

func TestTicketMarkdownMissingFields(t *testing.T) {
	bare := mustNormalize(t, "<ticket><id>5</id></ticket>")
	out := TicketMarkdown(bare, nil, 25000)

	// Missing fields get stable placeholders rather than blanks; the
	// internal id is the fallback when displayid is absent.
	for _, want := range []string{
		"# Ticket #5: No subject",
		"- **Status:** Unknown",
		"- **Assigned to:** Unassigned",
		"- **Created:** Unknown",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestTicketMarkdownWithPosts(t *testing.T) {
	staffPost := mustNormalize(t, `<post>
		<fullname>Sam Lee</fullname>
		<staffid>4</staffid>
		<dateline>1700001000</dateline>
		<contents>Looking into it now.</contents>
	</post>`)
	customerPost := mustNormalize(t, `<post>
		<fullname>Pat Doe</fullname>
		<staffid>0</staffid>
		<dateline>1700002000</dateline>
		<contents>Thanks!</contents>
	</post>`)

	out := TicketMarkdown(sampleTicket(t), []*kayako.Node{staffPost, customerPost}, 25000)

	if !strings.Contains(out, "## Conversation History") {
		t.Fatal("conversation section missing")
	}
	if !strings.Contains(out, "### #1 - Sam Lee (Staff)") {
		t.Error("staff attribution missing")
	}
	if !strings.Contains(out, "### #2 - Pat Doe (Customer)") {
		t.Error("customer attribution missing (staffid 0 must read as Customer)")
	}
	if strings.Index(out, "Looking into it now.") > strings.Index(out, "Thanks!") {
		t.Error("posts not rendered in given order")
	}
}

func TestTicketListMarkdown(t *testing.T) {
	if got := TicketListMarkdown(nil, 25000); got != "No tickets found." {
		t.Errorf("empty list rendering = %q", got)
	}

	out := TicketListMarkdown([]*kayako.Node{sampleTicket(t)}, 25000)
	if !strings.Contains(out, "# Tickets (1 found)") {
		t.Errorf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "## #ABC-300: Printer jams on every job") {
		t.Errorf("ticket entry missing:\n%s", out)
	}
}

func TestPostsMarkdown(t *testing.T) {
	if got := PostsMarkdown(nil, "9", 25000); got != "No posts found for ticket #9." {
		t.Errorf("empty conversation rendering = %q", got)
	}

	post := mustNormalize(t, `<post>
		<fullname>Pat Doe</fullname>
		<dateline>1700002000</dateline>
		<contents>Any update?</contents>
	</post>`)
	out := PostsMarkdown([]*kayako.Node{post}, "9", 25000)
	if !strings.Contains(out, "# Conversation History - Ticket #9") {
		t.Errorf("header missing:\n%s", out)
	}
	// A post with no staffid at all is a customer post.
	if !strings.Contains(out, "## #1 - Pat Doe (Customer)") {
		t.Errorf("attribution wrong:\n%s", out)
	}
}

func TestDepartmentsMarkdown(t *testing.T) {
	parent := mustNormalize(t, `<department>
		<id>1</id><title>Support</title><module>tickets</module>
		<parentdepartmentid>0</parentdepartmentid>
	</department>`)
	child := mustNormalize(t, `<department>
		<id>2</id><title>Billing</title><module>tickets</module>
		<parentdepartmentid>1</parentdepartmentid>
	</department>`)

	out := DepartmentsMarkdown([]*kayako.Node{parent, child}, 25000)
	if !strings.Contains(out, "# Departments (2 found)") {
		t.Errorf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "## Billing\n- **ID:** 2") {
		t.Errorf("child entry missing:\n%s", out)
	}
	// Parent ID appears only for real parents, never for the 0 root marker.
	if strings.Count(out, "- **Parent ID:**") != 1 {
		t.Errorf("parent id line count wrong:\n%s", out)
	}
}

func TestStatusesMarkdown(t *testing.T) {
	status := mustNormalize(t, `<ticketstatus>
		<id>3</id><title>Closed</title><type>public</type>
		<departmentid>0</departmentid>
	</ticketstatus>`)

	out := StatusesMarkdown([]*kayako.Node{status}, 25000)
	if !strings.Contains(out, "# Ticket Statuses (1 found)") {
		t.Errorf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "## Closed") || !strings.Contains(out, "- **Type:** public") {
		t.Errorf("status entry missing:\n%s", out)
	}
	if strings.Contains(out, "- **Department ID:**") {
		t.Error("departmentid 0 means global and must be omitted")
	}
}

func TestMarkdownRespectsBudget(t *testing.T) {
	big := mustNormalize(t, "<ticket><id>1</id><contents>"+strings.Repeat("z", 5000)+"</contents></ticket>")
	out := TicketMarkdown(big, nil, 1000)
	if len([]rune(out)) > 1300 {
		t.Errorf("output length %d exceeds budget plus notice", len([]rune(out)))
	}
	if !strings.Contains(out, "[CONTENT TRUNCATED") {
		t.Error("truncation notice missing")
	}
}

package formats

import (
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/nanoboard/nanoboard/generate"
	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/testutil"
	"github.com/arthur-debert/nanoboard/types"
	"github.com/google/go-cmp/cmp"
)

func TestRegistry(t *testing.T) {
	if diff := cmp.Diff([]string{"markdown", "plaintext"}, List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
	if f, err := Get("markdown"); err != nil || f.Extension != ".md" {
		t.Errorf("Get(markdown) = %+v, %v", f, err)
	}
	if _, err := Get("html"); err == nil {
		t.Error("expected an error for an unknown format")
	}

	tests := []struct {
		name   string
		format *BoardFormat
	}{
		{"uppercase name", &BoardFormat{Name: "Markdown", Render: renderMarkdown}},
		{"empty name", &BoardFormat{Name: "", Render: renderMarkdown}},
		{"no renderer", &BoardFormat{Name: "csv"}},
		{"duplicate", &BoardFormat{Name: "markdown", Render: renderMarkdown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Register(tt.format); err == nil {
				t.Error("expected Register to fail")
			}
		})
	}
}

func TestMarkdownRender(t *testing.T) {
	u := testutil.NewUniverse()
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	u.LaunchEmail.DueDate = &due
	u.PressRelease.Subtasks = []*types.Subtask{{ID: "sub-1", Name: "Proofread", Status: types.StatusDone}}

	got := Markdown.Render(u.Marketing, RenderOptions{Subtasks: true})
	want := `# Marketing Q2

Campaign work

## Backlog

- [ ] Launch email (Not Started, High, due 2025-04-01)
- [ ] Blog refresh (Stuck, Low)

## In Flight

- [ ] Social copy (Working on it, Critical)
- [ ] Email sequence (Working on it, Medium)

## Archive

- [x] Press release (Done, Medium)
  - [x] Proofread
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownRender_Kanban(t *testing.T) {
	got := Markdown.Render(testutil.TodoDoneGraph().Workspaces[0].Boards[0], RenderOptions{Kanban: true})
	want := `# Sprint

## Not Started

- [ ] X (Medium)

## Working on it

_No items_

## Done

_No items_

## Stuck

_No items_
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownRoundTrip(t *testing.T) {
	u := testutil.NewUniverse()
	draft, err := Markdown.Parse(Markdown.Render(u.Marketing, RenderOptions{}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	b, err := generate.BuildBoard(draft, &ids.Sequence{}, testutil.Epoch)
	if err != nil {
		t.Fatalf("BuildBoard: %v", err)
	}
	if b.Name != u.Marketing.Name || b.Description != u.Marketing.Description || len(b.Groups) != 3 {
		t.Fatalf("unexpected board %+v", b)
	}
	for gi, g := range u.Marketing.Groups {
		if b.Groups[gi].Name != g.Name || len(b.Groups[gi].Items) != len(g.Items) {
			t.Fatalf("group %d = %+v", gi, b.Groups[gi])
		}
		for ii, it := range g.Items {
			got := b.Groups[gi].Items[ii]
			if got.Name != it.Name || got.Status != it.Status || got.Priority != it.Priority {
				t.Errorf("item %q came back as %+v", it.Name, got)
			}
		}
	}
}

func TestMarkdownParse(t *testing.T) {
	doc := `# Launch
Spring release
Second line

## To Do
- [ ] Write brief
- [x] Book venue
* [ ] Hire DJ (urgent, critical, due 2025-05-01)
  - [ ] nested subtask is ignored
## Empty
`
	got, err := Markdown.Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := generate.BoardDraft{
		Name:        "Launch",
		Description: "Spring release\nSecond line",
		Groups: []generate.GroupDraft{
			{Name: "To Do", Items: []generate.ItemDraft{
				{Name: "Write brief"},
				{Name: "Book venue", Status: string(types.StatusDone)},
				{Name: "Hire DJ", Priority: string(types.PriorityCritical), DueDate: "2025-05-01"},
			}},
			{Name: "Empty", Items: []generate.ItemDraft{}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownParse_ParenthesisInName(t *testing.T) {
	tests := []struct {
		line string
		want generate.ItemDraft
	}{
		{"- [ ] Launch (beta)", generate.ItemDraft{Name: "Launch (beta)"}},
		{"- [x] Launch (beta)", generate.ItemDraft{Name: "Launch (beta)", Status: string(types.StatusDone)}},
		{"- [ ] Launch (beta) (Stuck)", generate.ItemDraft{Name: "Launch (beta)", Status: string(types.StatusStuck)}},
		{"- [ ] Launch (beta, high)", generate.ItemDraft{Name: "Launch", Priority: string(types.PriorityHigh)}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Markdown.Parse("# Board\n## Group\n" + tt.line + "\n")
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, got.Groups[0].Items[0]); diff != "" {
				t.Errorf("item mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarkdownParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "  \n"},
		{"no title", "## Group\n- [ ] a\n"},
		{"no groups", "# Title\njust text\n"},
		{"item before group", "# Title\n- [ ] a\n## Group\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Markdown.Parse(tt.doc); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPlainTextRender(t *testing.T) {
	u := testutil.NewUniverse()
	got := PlainText.Render(u.Ops, RenderOptions{})
	want := `Ops
---

Queue (1 item)
  [ ] Send invoices  Not Started  Low
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}

	out := PlainText.Render(u.Marketing, RenderOptions{})
	for _, line := range []string{"Marketing Q2\n------------\n", "Backlog (2 items)", "Social copy  Working on it  Critical  1 comment"} {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
	if PlainText.Parse != nil {
		t.Error("plaintext should be write-only")
	}
}

func TestPlainTextRender_RelativeDue(t *testing.T) {
	u := testutil.NewUniverse()
	past := testutil.Epoch.AddDate(0, 0, -3)
	future := testutil.Epoch.AddDate(0, 0, 3)
	u.LaunchEmail.DueDate = &past
	u.BlogRefresh.DueDate = &future

	out := PlainText.Render(u.Marketing, RenderOptions{Now: testutil.Epoch, Kanban: true})
	if !strings.Contains(out, "Launch email  High  due 3 days ago") {
		t.Errorf("missing overdue item:\n%s", out)
	}
	if !strings.Contains(out, "Blog refresh  Low  due 3 days from now") {
		t.Errorf("missing upcoming item:\n%s", out)
	}
	if !strings.Contains(out, "Done (1 item)") {
		t.Errorf("missing Done lane:\n%s", out)
	}
}

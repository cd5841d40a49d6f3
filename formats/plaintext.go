package formats

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/arthur-debert/nanoboard/nanoboard/query"
	"github.com/arthur-debert/nanoboard/types"
)

// PlainText format implementation
// Rendering:
//   - board name underlined with dashes, then the description
//   - one section per group (or per status in kanban mode) with its item count
//   - one indented line per item: checkbox, name, status, priority, due date, comment count
//
// PlainText is write-only.
var PlainText = &BoardFormat{
	Name:      "plaintext",
	Extension: ".txt",
	Render:    renderPlainText,
}

func renderPlainText(b *types.Board, opts RenderOptions) string {
	var sb strings.Builder
	sb.WriteString(b.Name + "\n")
	sb.WriteString(strings.Repeat("-", len([]rune(b.Name))) + "\n")
	if b.Description != "" {
		sb.WriteString(b.Description + "\n")
	}

	if opts.Kanban {
		for _, lane := range query.Kanban(b) {
			writePlainSection(&sb, string(lane.Status), lane.Items, opts, false)
		}
		return sb.String()
	}
	for _, g := range b.Groups {
		writePlainSection(&sb, g.Name, g.Items, opts, true)
	}
	return sb.String()
}

func writePlainSection(sb *strings.Builder, title string, items []*types.Item, opts RenderOptions, withStatus bool) {
	fmt.Fprintf(sb, "\n%s (%s)\n", title, english.Plural(len(items), "item", ""))
	for _, it := range items {
		fields := []string{fmt.Sprintf("[%s] %s", checkbox(it.Status), it.Name)}
		if withStatus {
			fields = append(fields, string(it.Status))
		}
		fields = append(fields, string(it.Priority))
		if due := formatDue(it.DueDate, opts.Now); due != "" {
			fields = append(fields, "due "+due)
		}
		if n := len(it.Comments); n > 0 {
			fields = append(fields, english.Plural(n, "comment", ""))
		}
		sb.WriteString("  " + strings.Join(fields, "  ") + "\n")
		if opts.Subtasks {
			for _, st := range it.Subtasks {
				fmt.Fprintf(sb, "      [%s] %s\n", checkbox(st.Status), st.Name)
			}
		}
	}
}

func init() {
	if err := Register(PlainText); err != nil {
		panic(fmt.Sprintf("failed to register PlainText format: %v", err))
	}
}

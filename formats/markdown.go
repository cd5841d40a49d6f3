package formats

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/nanoboard/nanoboard/generate"
	"github.com/arthur-debert/nanoboard/nanoboard/query"
	"github.com/arthur-debert/nanoboard/types"
)

var (
	// markdownTitleRegex matches markdown h1 headers (must be at very start, no leading space)
	markdownTitleRegex = regexp.MustCompile(`^#\s+(.+?)[\s]*$`)
	// markdownGroupRegex matches h2 headers
	markdownGroupRegex = regexp.MustCompile(`^##\s+(.+?)[\s]*$`)
	// markdownItemRegex matches top-level task lines: "- [x] Name (Status, Priority, due 2025-04-01)"
	markdownItemRegex = regexp.MustCompile(`^[-*]\s+\[([ xX])\]\s+(.+?)(?:\s+\(([^()]*)\))?\s*$`)
)

// Markdown format implementation
// Rendering: # Board, description, then one ## section per group (or per
// status in kanban mode) holding task-list items
// Parsing: reads the grouped layout back into an outline; subtasks are
// ignored. A trailing parenthesis is read as metadata only when it holds a
// status, priority or due date. Kanban output does not parse back: lanes come
// back as groups and items without a status token lose their status.
var Markdown = &BoardFormat{
	Name:      "markdown",
	Extension: ".md",
	Render:    renderMarkdown,
	Parse:     parseMarkdown,
}

func renderMarkdown(b *types.Board, opts RenderOptions) string {
	var sb strings.Builder
	sb.WriteString("# " + b.Name + "\n")
	if b.Description != "" {
		sb.WriteString("\n" + b.Description + "\n")
	}

	if opts.Kanban {
		for _, lane := range query.Kanban(b) {
			writeMarkdownSection(&sb, string(lane.Status), lane.Items, opts, false)
		}
		return sb.String()
	}
	for _, g := range b.Groups {
		writeMarkdownSection(&sb, g.Name, g.Items, opts, true)
	}
	return sb.String()
}

func writeMarkdownSection(sb *strings.Builder, title string, items []*types.Item, opts RenderOptions, withStatus bool) {
	sb.WriteString("\n## " + title + "\n\n")
	if len(items) == 0 {
		sb.WriteString("_No items_\n")
		return
	}
	for _, it := range items {
		meta := []string{}
		if withStatus {
			meta = append(meta, string(it.Status))
		}
		meta = append(meta, string(it.Priority))
		if due := formatDue(it.DueDate, opts.Now); due != "" {
			meta = append(meta, "due "+due)
		}
		fmt.Fprintf(sb, "- [%s] %s (%s)\n", checkbox(it.Status), it.Name, strings.Join(meta, ", "))
		if opts.Subtasks {
			for _, st := range it.Subtasks {
				fmt.Fprintf(sb, "  - [%s] %s\n", checkbox(st.Status), st.Name)
			}
		}
	}
}

func checkbox(s types.Status) string {
	if s == types.StatusDone {
		return "x"
	}
	return " "
}

func parseMarkdown(document string) (generate.BoardDraft, error) {
	var d generate.BoardDraft
	if strings.TrimSpace(document) == "" {
		return d, fmt.Errorf("empty document")
	}

	var description []string
	for n, line := range strings.Split(document, "\n") {
		switch {
		case d.Name == "" && len(d.Groups) == 0 && markdownTitleRegex.MatchString(line) && !strings.HasPrefix(line, "##"):
			d.Name = strings.TrimSpace(markdownTitleRegex.FindStringSubmatch(line)[1])
		case markdownGroupRegex.MatchString(line):
			name := strings.TrimSpace(markdownGroupRegex.FindStringSubmatch(line)[1])
			d.Groups = append(d.Groups, generate.GroupDraft{Name: name, Items: []generate.ItemDraft{}})
		case markdownItemRegex.MatchString(line):
			if len(d.Groups) == 0 {
				return d, fmt.Errorf("line %d: item before the first group", n+1)
			}
			m := markdownItemRegex.FindStringSubmatch(line)
			item, ok := parseItemMeta(m[3])
			item.Name = strings.TrimSpace(m[2])
			if !ok && m[3] != "" {
				item.Name += " (" + m[3] + ")"
			}
			if item.Status == "" && strings.EqualFold(m[1], "x") {
				item.Status = string(types.StatusDone)
			}
			g := &d.Groups[len(d.Groups)-1]
			g.Items = append(g.Items, item)
		case len(d.Groups) == 0 && d.Name != "" && !isBlankLine(line):
			description = append(description, strings.TrimSpace(line))
		}
	}

	if d.Name == "" {
		return d, fmt.Errorf("document has no # title")
	}
	if len(d.Groups) == 0 {
		return d, fmt.Errorf("document has no ## groups")
	}
	d.Description = strings.Join(description, "\n")
	return d, nil
}

// parseItemMeta reads the parenthesised part of an item line. Unknown
// parts are ignored; ok is false when no part was recognized.
func parseItemMeta(meta string) (item generate.ItemDraft, ok bool) {
	for _, part := range strings.Split(meta, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if st, err := types.ParseStatus(part); err == nil {
			item.Status = string(st)
			ok = true
			continue
		}
		if p, err := types.ParsePriority(part); err == nil {
			item.Priority = string(p)
			ok = true
			continue
		}
		if due, found := strings.CutPrefix(part, "due "); found {
			item.DueDate = strings.TrimSpace(due)
			ok = true
		}
	}
	return item, ok
}

func init() {
	if err := Register(Markdown); err != nil {
		panic(fmt.Sprintf("failed to register Markdown format: %v", err))
	}
}

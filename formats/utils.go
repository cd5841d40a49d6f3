package formats

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// isBlankLine checks if a line contains only whitespace
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// formatDue renders a due date, relative to now when now is set
func formatDue(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}
	if now.IsZero() {
		return due.Format("2006-01-02")
	}
	return humanize.RelTime(*due, now, "ago", "from now")
}

package formats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/nanoboard/nanoboard/generate"
	"github.com/arthur-debert/nanoboard/types"
)

// BoardFormat defines how boards are rendered to, and optionally read from, text
type BoardFormat struct {
	// Name is the format identifier (alphanumeric, dashes, underscores, lowercase)
	Name string

	// Extension is the file extension including the dot (e.g., ".txt", ".md")
	Extension string

	// Render converts a board into the formatted document string
	Render func(b *types.Board, opts RenderOptions) string

	// Parse reads a document back into a board outline. Nil when the
	// format is write-only.
	Parse func(document string) (generate.BoardDraft, error)
}

// RenderOptions tunes a render
type RenderOptions struct {
	// Kanban lays items out by status instead of by group
	Kanban bool

	// Subtasks includes each item's subtasks under it
	Subtasks bool

	// Now makes due dates relative ("2 days from now"). Zero prints dates.
	Now time.Time
}

// registry holds all available board formats
var registry = make(map[string]*BoardFormat)

// Register adds a new board format to the registry
func Register(format *BoardFormat) error {
	if !isValidFormatName(format.Name) {
		return fmt.Errorf("invalid format name %q: must be lowercase alphanumeric with dashes and underscores only", format.Name)
	}
	if format.Render == nil {
		return fmt.Errorf("format %q has no renderer", format.Name)
	}

	if !strings.HasPrefix(format.Extension, ".") {
		format.Extension = "." + format.Extension
	}

	if _, exists := registry[format.Name]; exists {
		return fmt.Errorf("format %q already registered", format.Name)
	}

	registry[format.Name] = format
	return nil
}

// Get returns a board format by name
func Get(name string) (*BoardFormat, error) {
	format, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown format %q", name)
	}
	return format, nil
}

// List returns all registered format names, sorted
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isValidFormatName checks if a format name is valid
func isValidFormatName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

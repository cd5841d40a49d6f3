package search

import "github.com/arthur-debert/nanoboard/types"

// Field names an item field that can be searched
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldComments    Field = "comments"
	FieldSubtasks    Field = "subtasks"
	FieldOwner       Field = "owner"
)

// DefaultFields are searched when Options.Fields is empty
func DefaultFields() []Field {
	return []Field{FieldName, FieldDescription, FieldComments, FieldSubtasks}
}

// Options configures search behavior
type Options struct {
	// Query is the search term to look for
	Query string

	// Fields specifies which fields to search in. Empty means DefaultFields.
	Fields []Field

	// BoardID restricts the search to one board when set
	BoardID string

	// CaseSensitive controls whether search is case-sensitive
	CaseSensitive bool

	// ExactMatch requires the entire field to match the query
	// When false, performs partial/substring matching
	ExactMatch bool

	// EnableHighlight includes highlighted match text in results
	EnableHighlight bool

	// HighlightStart and HighlightEnd wrap each match; both default to "**"
	HighlightStart string
	HighlightEnd   string

	// MaxResults limits the number of search results
	// nil means no limit
	MaxResults *int
}

// Result represents a matched item with its position and relevance
type Result struct {
	Entry

	// Score represents match relevance (0.0 to 1.0, higher is better)
	Score float64

	// Highlights contains highlighted text for each matched field
	Highlights map[Field]string

	// MatchType describes where the best match was found
	MatchType MatchType

	// MatchedFields lists all fields that contained matches
	MatchedFields []Field
}

// MatchType indicates the type of match found
type MatchType string

const (
	MatchExactName          MatchType = "exact_name"
	MatchPartialName        MatchType = "partial_name"
	MatchExactDescription   MatchType = "exact_description"
	MatchPartialDescription MatchType = "partial_description"
	MatchComment            MatchType = "comment"
	MatchSubtask            MatchType = "subtask"
	MatchOwner              MatchType = "owner"
)

// Entry is an item together with where it lives
type Entry struct {
	WorkspaceID string
	BoardID     string
	BoardName   string
	GroupID     string
	GroupName   string
	Item        *types.Item
}

// ItemProvider defines the interface for accessing items
// This allows for dependency injection and easy mocking in tests
type ItemProvider interface {
	// Items returns every searchable item, in board order
	Items() ([]Entry, error)
}

// Searcher defines the main search interface
type Searcher interface {
	// Search performs a search and returns ranked results
	Search(options Options) ([]Result, error)
}

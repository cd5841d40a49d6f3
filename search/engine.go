// Package search ranks board items against a text query.
//
// The engine walks the items an ItemProvider hands it and scores each
// searchable field; an item's score is the score of its best field. Name
// matches outrank description matches, which outrank comment, subtask and
// owner matches.
package search

import (
	"fmt"
	"sort"
	"strings"
)

// Engine implements the Searcher interface
type Engine struct {
	provider ItemProvider
}

// NewEngine creates a new search engine with the given item provider
func NewEngine(provider ItemProvider) *Engine {
	return &Engine{
		provider: provider,
	}
}

// Search performs a search and returns ranked results
func (e *Engine) Search(options Options) ([]Result, error) {
	if options.Query == "" {
		return []Result{}, nil
	}

	entries, err := e.provider.Items()
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}

	results := []Result{}
	for _, entry := range entries {
		if options.BoardID != "" && entry.BoardID != options.BoardID {
			continue
		}
		if result := e.searchItem(entry, options); result != nil {
			results = append(results, *result)
		}
	}

	// Sort by score (highest first), keeping board order on ties
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	// Apply max results limit
	if options.MaxResults != nil && *options.MaxResults > 0 && len(results) > *options.MaxResults {
		results = results[:*options.MaxResults]
	}

	return results, nil
}

// fieldValues returns the texts held by one field of an item. Comments and
// subtasks yield one text each.
func fieldValues(entry Entry, field Field) ([]string, MatchType) {
	it := entry.Item
	switch field {
	case FieldName:
		return []string{it.Name}, MatchPartialName
	case FieldDescription:
		return []string{it.Description}, MatchPartialDescription
	case FieldOwner:
		return []string{it.OwnerID}, MatchOwner
	case FieldComments:
		texts := make([]string, 0, len(it.Comments))
		for _, c := range it.Comments {
			texts = append(texts, c.Text)
		}
		return texts, MatchComment
	case FieldSubtasks:
		texts := make([]string, 0, len(it.Subtasks))
		for _, s := range it.Subtasks {
			texts = append(texts, s.Name)
		}
		return texts, MatchSubtask
	}
	return nil, ""
}

// searchItem searches a single item and returns a result if it matches
func (e *Engine) searchItem(entry Entry, options Options) *Result {
	fields := options.Fields
	if len(fields) == 0 {
		fields = DefaultFields()
	}

	var result *Result
	for _, field := range fields {
		values, baseType := fieldValues(entry, field)
		for _, value := range values {
			score, matchType, ok := e.matchField(value, field, baseType, options)
			if !ok {
				continue
			}
			if result == nil {
				result = &Result{Entry: entry}
				if options.EnableHighlight {
					result.Highlights = make(map[Field]string)
				}
			}
			if !containsField(result.MatchedFields, field) {
				result.MatchedFields = append(result.MatchedFields, field)
				if options.EnableHighlight {
					result.Highlights[field] = e.highlight(value, options)
				}
			}
			if score > result.Score {
				result.Score = score
				result.MatchType = matchType
			}
		}
	}
	return result
}

// matchField tests one text against the query
func (e *Engine) matchField(value string, field Field, baseType MatchType, options Options) (float64, MatchType, bool) {
	text, query := value, options.Query
	if !options.CaseSensitive {
		text = strings.ToLower(value)
		query = strings.ToLower(query)
	}

	if options.ExactMatch {
		if text != query {
			return 0, "", false
		}
		switch baseType {
		case MatchPartialName:
			return 1.0, MatchExactName, true
		case MatchPartialDescription:
			return 1.0, MatchExactDescription, true
		}
		return 1.0, baseType, true
	}

	if !strings.Contains(text, query) {
		return 0, "", false
	}
	return calculateScore(text, query, field), baseType, true
}

// calculateScore computes a relevance score for a substring match
func calculateScore(fieldValue, query string, field Field) float64 {
	baseScore := 0.3
	switch field {
	case FieldName:
		baseScore = 0.6
	case FieldDescription:
		baseScore = 0.4
	}

	// Boost if match is at the beginning
	if strings.HasPrefix(fieldValue, query) {
		baseScore += 0.2
	}

	// Boost if query takes up a large portion of the field
	if len(fieldValue) > 0 {
		coverage := float64(len(query)) / float64(len(fieldValue))
		if coverage > 0.5 {
			baseScore += 0.1
		}
	}

	// Ensure score doesn't exceed 1.0
	if baseScore > 1.0 {
		baseScore = 1.0
	}

	return baseScore
}

// highlight wraps every non-overlapping match in the configured markers
func (e *Engine) highlight(text string, options Options) string {
	startMarker, endMarker := options.HighlightStart, options.HighlightEnd
	if startMarker == "" {
		startMarker = "**"
	}
	if endMarker == "" {
		endMarker = "**"
	}

	searchText, searchQuery := text, options.Query
	if !options.CaseSensitive {
		searchText = strings.ToLower(text)
		searchQuery = strings.ToLower(searchQuery)
	}
	if searchQuery == "" || len(searchText) != len(text) {
		// lowercasing changed byte offsets; leave the text unmarked
		return text
	}

	var builder strings.Builder
	lastEnd := 0
	for {
		i := strings.Index(searchText[lastEnd:], searchQuery)
		if i < 0 {
			break
		}
		start := lastEnd + i
		end := start + len(searchQuery)

		builder.WriteString(text[lastEnd:start])
		builder.WriteString(startMarker)
		builder.WriteString(text[start:end])
		builder.WriteString(endMarker)
		lastEnd = end
	}
	builder.WriteString(text[lastEnd:])
	return builder.String()
}

func containsField(fields []Field, f Field) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}

// Package query derives read-only views of a board: filtered groups, sorted
// item lists, per-status summaries and kanban lanes.
//
// Nothing in this package modifies its input. Groups whose item list changes
// are returned as shallow copies; items are always shared with the input.
package query

import (
	"strings"

	"github.com/arthur-debert/nanoboard/types"
)

// Filter is the visible-item selection for a board
type Filter struct {
	// Search is matched case-insensitively against item names. Empty matches everything.
	Search string
	// Statuses restricts items to these statuses. Empty means no restriction.
	Statuses map[types.Status]bool
	// Priorities restricts items to these priorities. Empty means no restriction.
	Priorities map[types.Priority]bool
}

// NewFilter builds a Filter from plain lists
func NewFilter(search string, statuses []types.Status, priorities []types.Priority) Filter {
	f := Filter{Search: search}
	if len(statuses) > 0 {
		f.Statuses = make(map[types.Status]bool, len(statuses))
		for _, s := range statuses {
			f.Statuses[s] = true
		}
	}
	if len(priorities) > 0 {
		f.Priorities = make(map[types.Priority]bool, len(priorities))
		for _, p := range priorities {
			f.Priorities[p] = true
		}
	}
	return f
}

// IsEmpty reports whether the filter lets every item through
func (f Filter) IsEmpty() bool {
	return f.Search == "" && len(f.Statuses) == 0 && len(f.Priorities) == 0
}

// Matches reports whether a single item passes the filter
func (f Filter) Matches(it *types.Item) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Search)) {
		return false
	}
	if len(f.Statuses) > 0 && !f.Statuses[it.Status] {
		return false
	}
	if len(f.Priorities) > 0 && !f.Priorities[it.Priority] {
		return false
	}
	return true
}

// FilterGroups keeps the items of each group that match f, preserving the
// order of groups and items.
//
// A group left with no matching items is dropped only when f.Search is set.
// With an empty search, groups emptied by the status or priority selection
// stay in the result with an empty item list.
func FilterGroups(groups []*types.Group, f Filter) []*types.Group {
	out := make([]*types.Group, 0, len(groups))
	for _, g := range groups {
		items := make([]*types.Item, 0, len(g.Items))
		for _, it := range g.Items {
			if f.Matches(it) {
				items = append(items, it)
			}
		}
		if len(items) == 0 && f.Search != "" {
			continue
		}
		if len(items) == len(g.Items) {
			out = append(out, g)
			continue
		}
		ng := *g
		ng.Items = items
		out = append(out, &ng)
	}
	return out
}

// FilterBoard returns a copy of b whose groups are FilterGroups(b.Groups, f)
func FilterBoard(b *types.Board, f Filter) *types.Board {
	if b == nil {
		return nil
	}
	nb := *b
	nb.Groups = FilterGroups(b.Groups, f)
	return &nb
}

// CountItems returns the number of items across groups
func CountItems(groups []*types.Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}
	return n
}

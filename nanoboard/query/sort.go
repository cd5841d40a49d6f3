package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/nanoboard/types"
)

// OrderClause sorts items by one field
type OrderClause struct {
	Field      string
	Descending bool
}

// Sortable item fields
const (
	FieldName        = "name"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDueDate     = "due"
	FieldLastUpdated = "updated"
	FieldOwner       = "owner"
)

// ParseOrder reads "field" or "-field" (descending) clauses
func ParseOrder(specs []string) ([]OrderClause, error) {
	clauses := make([]OrderClause, 0, len(specs))
	for _, s := range specs {
		c := OrderClause{Field: strings.ToLower(strings.TrimSpace(s))}
		if strings.HasPrefix(c.Field, "-") {
			c.Descending = true
			c.Field = c.Field[1:]
		}
		switch c.Field {
		case FieldName, FieldStatus, FieldPriority, FieldDueDate, FieldLastUpdated, FieldOwner:
		default:
			return nil, fmt.Errorf("unknown sort field %q", s)
		}
		clauses = append(clauses, c)
	}
	return clauses, nil
}

// SortGroups returns groups whose items are ordered by the clauses. Group
// order is kept. Items that compare equal keep their board order.
func SortGroups(groups []*types.Group, orderBy []OrderClause) []*types.Group {
	if len(orderBy) == 0 {
		return groups
	}
	out := make([]*types.Group, len(groups))
	for i, g := range groups {
		items := make([]*types.Item, len(g.Items))
		copy(items, g.Items)
		sortItems(items, orderBy)
		ng := *g
		ng.Items = items
		out[i] = &ng
	}
	return out
}

func sortItems(items []*types.Item, orderBy []OrderClause) {
	sort.SliceStable(items, func(i, j int) bool {
		for _, clause := range orderBy {
			c := compareField(items[i], items[j], clause.Field)
			if c == 0 {
				continue
			}
			if clause.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareField(a, b *types.Item, field string) int {
	switch field {
	case FieldName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case FieldStatus:
		return statusRank(a.Status) - statusRank(b.Status)
	case FieldPriority:
		return a.Priority.Rank() - b.Priority.Rank()
	case FieldDueDate:
		return compareDue(a.DueDate, b.DueDate)
	case FieldLastUpdated:
		return a.LastUpdated.Compare(b.LastUpdated)
	case FieldOwner:
		return strings.Compare(a.OwnerID, b.OwnerID)
	default:
		return 0
	}
}

// compareDue puts items without a due date last
func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

func statusRank(s types.Status) int {
	for i, st := range types.AllStatuses() {
		if st == s {
			return i
		}
	}
	return len(types.AllStatuses())
}

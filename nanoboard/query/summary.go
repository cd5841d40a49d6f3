package query

import (
	"time"

	"github.com/arthur-debert/nanoboard/types"
)

// Summary aggregates the items of one board
type Summary struct {
	Total      int
	ByStatus   map[types.Status]int
	ByPriority map[types.Priority]int
	// Overdue lists items past their due date that are not Done, in board order
	Overdue []*types.Item
}

// DoneRatio is the share of items with status Done, 0 for an empty board
func (s Summary) DoneRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.ByStatus[types.StatusDone]) / float64(s.Total)
}

// Summarize counts the items of b by status and priority. now decides which
// due dates are overdue.
func Summarize(b *types.Board, now time.Time) Summary {
	s := Summary{
		ByStatus:   make(map[types.Status]int),
		ByPriority: make(map[types.Priority]int),
		Overdue:    []*types.Item{},
	}
	if b == nil {
		return s
	}
	for _, g := range b.Groups {
		for _, it := range g.Items {
			s.Total++
			s.ByStatus[it.Status]++
			s.ByPriority[it.Priority]++
			if it.DueDate != nil && it.DueDate.Before(now) && it.Status != types.StatusDone {
				s.Overdue = append(s.Overdue, it)
			}
		}
	}
	return s
}

// Lane is one kanban column
type Lane struct {
	Status types.Status
	Items  []*types.Item
}

// Kanban regroups the items of b by status. Lanes follow AllStatuses order
// and are always all present; items with an unknown status go to a trailing
// lane keyed by that status.
func Kanban(b *types.Board) []Lane {
	lanes := make([]Lane, 0, len(types.AllStatuses()))
	index := make(map[types.Status]int)
	for _, st := range types.AllStatuses() {
		index[st] = len(lanes)
		lanes = append(lanes, Lane{Status: st, Items: []*types.Item{}})
	}
	if b == nil {
		return lanes
	}
	for _, g := range b.Groups {
		for _, it := range g.Items {
			i, ok := index[it.Status]
			if !ok {
				i = len(lanes)
				index[it.Status] = i
				lanes = append(lanes, Lane{Status: it.Status, Items: []*types.Item{}})
			}
			lanes[i].Items = append(lanes[i].Items, it)
		}
	}
	return lanes
}

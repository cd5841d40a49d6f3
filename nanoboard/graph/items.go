package graph

import (
	"time"

	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/types"
)

// ItemPatch lists the item fields to overwrite. Nil fields are left alone.
type ItemPatch struct {
	Name          *string
	OwnerID       *string
	Status        *types.Status
	Priority      *types.Priority
	Timeline      *types.Timeline
	ClearTimeline bool
	DueDate       *time.Time
	ClearDueDate  bool
	Description   *string
}

// IsEmpty reports whether the patch changes nothing
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.OwnerID == nil && p.Status == nil && p.Priority == nil &&
		p.Timeline == nil && !p.ClearTimeline && p.DueDate == nil && !p.ClearDueDate &&
		p.Description == nil
}

// apply returns a copy of it with the patch merged over it
func (p ItemPatch) apply(it *types.Item) *types.Item {
	n := *it
	if p.Name != nil {
		n.Name = *p.Name
	}
	if p.OwnerID != nil {
		n.OwnerID = *p.OwnerID
	}
	if p.Status != nil {
		n.Status = *p.Status
	}
	if p.Priority != nil {
		n.Priority = *p.Priority
	}
	if p.ClearTimeline {
		n.Timeline = nil
	}
	if p.Timeline != nil {
		tl := *p.Timeline
		n.Timeline = &tl
	}
	if p.ClearDueDate {
		n.DueDate = nil
	}
	if p.DueDate != nil {
		d := *p.DueDate
		n.DueDate = &d
	}
	if p.Description != nil {
		n.Description = *p.Description
	}
	return &n
}

// UpdateItem merges patch over one item and refreshes its lastUpdated.
// An unknown board, group or item leaves the graph unchanged.
func (m *Mutator) UpdateItem(g *types.Graph, boardID, groupID, itemID string, patch ItemPatch) *types.Graph {
	return mapRef(g, ItemRef{boardID, groupID, itemID}, func(it *types.Item) *types.Item {
		n := patch.apply(it)
		n.LastUpdated = m.stamp(it.LastUpdated)
		return n
	})
}

// MoveItem removes an item from the source group and appends it, untouched,
// to the end of the target group. Moving within one group sends the item to
// the end of that group. If the item is not in the source group, or the
// target group does not exist, the graph is returned unchanged.
func (m *Mutator) MoveItem(g *types.Graph, boardID, sourceGroupID, targetGroupID, itemID string) *types.Graph {
	return mapBoard(g, boardID, func(b *types.Board) *types.Board {
		si := indexGroup(b, sourceGroupID)
		ti := indexGroup(b, targetGroupID)
		if si < 0 || ti < 0 {
			return b
		}
		src := b.Groups[si]
		ii := indexItem(src, itemID)
		if ii < 0 {
			return b
		}
		item := src.Items[ii]

		groups := make([]*types.Group, len(b.Groups))
		copy(groups, b.Groups)

		nsrc := *src
		nsrc.Items = removeAt(src.Items, ii)
		groups[si] = &nsrc

		dst := groups[ti] // already the trimmed copy when source == target
		ndst := *dst
		ndst.Items = appendCopy(dst.Items, item)
		groups[ti] = &ndst

		nb := *b
		nb.Groups = groups
		return &nb
	})
}

// DeleteItem removes one item from a group
func (m *Mutator) DeleteItem(g *types.Graph, boardID, groupID, itemID string) *types.Graph {
	return mapBoard(g, boardID, func(b *types.Board) *types.Board {
		return mapGroup(b, groupID, func(gr *types.Group) *types.Group {
			i := indexItem(gr, itemID)
			if i < 0 {
				return gr
			}
			ngr := *gr
			ngr.Items = removeAt(gr.Items, i)
			return &ngr
		})
	})
}

// AddItem appends a default item named name to a group. Defaults are fixed
// (Not Started, Medium, no comments or subtasks); nothing is copied from
// sibling items. The new item is returned, or nil when the group is missing.
func (m *Mutator) AddItem(g *types.Graph, boardID, groupID, name string) (*types.Graph, *types.Item) {
	item := &types.Item{
		ID:          m.ids.New(ids.PrefixItem),
		Name:        name,
		Status:      types.StatusNotStarted,
		Priority:    types.PriorityMedium,
		LastUpdated: m.now(),
		Comments:    []*types.Comment{},
		Subtasks:    []*types.Subtask{},
	}
	out := mapBoard(g, boardID, func(b *types.Board) *types.Board {
		return mapGroup(b, groupID, func(gr *types.Group) *types.Group {
			ngr := *gr
			ngr.Items = appendCopy(gr.Items, item)
			return &ngr
		})
	})
	if out == g {
		return g, nil
	}
	return out, item
}

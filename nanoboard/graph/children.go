package graph

import (
	"time"

	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/types"
)

// SubtaskPatch lists subtask fields to overwrite
type SubtaskPatch struct {
	Name         *string
	Status       *types.Status
	OwnerID      *string
	DueDate      *time.Time
	ClearDueDate bool
}

// AddComment appends a comment to an item and refreshes the item's lastUpdated
func (m *Mutator) AddComment(g *types.Graph, ref ItemRef, text, authorName, authorID string) (*types.Graph, *types.Comment) {
	c := &types.Comment{
		ID:         m.ids.New(ids.PrefixComment),
		Text:       text,
		AuthorName: authorName,
		AuthorID:   authorID,
		CreatedAt:  m.now(),
		LikedBy:    []string{},
	}
	out := mapRef(g, ref, func(it *types.Item) *types.Item {
		n := *it
		n.Comments = appendCopy(it.Comments, c)
		n.LastUpdated = m.stamp(it.LastUpdated)
		return &n
	})
	if out == g {
		return g, nil
	}
	return out, c
}

// ToggleCommentLike adds userID to the comment's likers, or removes it when
// already present
func (m *Mutator) ToggleCommentLike(g *types.Graph, ref ItemRef, commentID, userID string) *types.Graph {
	return mapRef(g, ref, func(it *types.Item) *types.Item {
		ci := -1
		for i, c := range it.Comments {
			if c.ID == commentID {
				ci = i
				break
			}
		}
		if ci < 0 {
			return it
		}
		c := it.Comments[ci]
		nc := *c
		if c.IsLikedBy(userID) {
			nc.LikedBy = make([]string, 0, len(c.LikedBy))
			for _, id := range c.LikedBy {
				if id != userID {
					nc.LikedBy = append(nc.LikedBy, id)
				}
			}
		} else {
			nc.LikedBy = appendCopy(c.LikedBy, userID)
		}
		n := *it
		n.Comments = replaceAt(it.Comments, ci, &nc)
		n.LastUpdated = m.stamp(it.LastUpdated)
		return &n
	})
}

// AddSubtask appends a Not Started subtask to an item
func (m *Mutator) AddSubtask(g *types.Graph, ref ItemRef, name string) (*types.Graph, *types.Subtask) {
	s := &types.Subtask{
		ID:     m.ids.New(ids.PrefixSubtask),
		Name:   name,
		Status: types.StatusNotStarted,
	}
	out := mapRef(g, ref, func(it *types.Item) *types.Item {
		n := *it
		n.Subtasks = appendCopy(it.Subtasks, s)
		n.LastUpdated = m.stamp(it.LastUpdated)
		return &n
	})
	if out == g {
		return g, nil
	}
	return out, s
}

// UpdateSubtask merges patch over one subtask
func (m *Mutator) UpdateSubtask(g *types.Graph, ref ItemRef, subtaskID string, patch SubtaskPatch) *types.Graph {
	return mapRef(g, ref, func(it *types.Item) *types.Item {
		si := indexSubtask(it, subtaskID)
		if si < 0 {
			return it
		}
		ns := *it.Subtasks[si]
		if patch.Name != nil {
			ns.Name = *patch.Name
		}
		if patch.Status != nil {
			ns.Status = *patch.Status
		}
		if patch.OwnerID != nil {
			ns.OwnerID = *patch.OwnerID
		}
		if patch.ClearDueDate {
			ns.DueDate = nil
		}
		if patch.DueDate != nil {
			d := *patch.DueDate
			ns.DueDate = &d
		}
		n := *it
		n.Subtasks = replaceAt(it.Subtasks, si, &ns)
		n.LastUpdated = m.stamp(it.LastUpdated)
		return &n
	})
}

// DeleteSubtask removes one subtask from an item
func (m *Mutator) DeleteSubtask(g *types.Graph, ref ItemRef, subtaskID string) *types.Graph {
	return mapRef(g, ref, func(it *types.Item) *types.Item {
		si := indexSubtask(it, subtaskID)
		if si < 0 {
			return it
		}
		n := *it
		n.Subtasks = removeAt(it.Subtasks, si)
		n.LastUpdated = m.stamp(it.LastUpdated)
		return &n
	})
}

func indexSubtask(it *types.Item, id string) int {
	for i, s := range it.Subtasks {
		if s.ID == id {
			return i
		}
	}
	return -1
}

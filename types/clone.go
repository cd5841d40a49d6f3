package types

import (
	"slices"
	"time"
)

// Clone returns a deep copy of the graph sharing no pointers with g
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	return &Graph{Workspaces: cloneEach(g.Workspaces, (*Workspace).Clone)}
}

func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return nil
	}
	out := *w
	out.Boards = cloneEach(w.Boards, (*Board).Clone)
	return &out
}

func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := *b
	out.Groups = cloneEach(b.Groups, (*Group).Clone)
	return &out
}

func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	out := *g
	out.Items = cloneEach(g.Items, (*Item).Clone)
	return &out
}

func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	out := *it
	if it.Timeline != nil {
		tl := *it.Timeline
		out.Timeline = &tl
	}
	out.DueDate = cloneTime(it.DueDate)
	out.Comments = cloneEach(it.Comments, func(c *Comment) *Comment {
		cc := *c
		cc.LikedBy = slices.Clone(c.LikedBy)
		return &cc
	})
	out.Subtasks = cloneEach(it.Subtasks, func(s *Subtask) *Subtask {
		sc := *s
		sc.DueDate = cloneTime(s.DueDate)
		return &sc
	})
	return &out
}

// Clone returns a deep copy of the flow, config maps included
func (f AutomationFlow) Clone() AutomationFlow {
	out := f
	out.Nodes = cloneEach(f.Nodes, AutomationNode.Clone)
	return out
}

func (n AutomationNode) Clone() AutomationNode {
	out := n
	out.Materials = slices.Clone(n.Materials)
	out.Config = cloneConfig(n.Config)
	return out
}

func cloneConfig(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch vv := v.(type) {
		case map[string]any:
			out[k] = cloneConfig(vv)
		case []any:
			out[k] = slices.Clone(vv)
		default:
			out[k] = v
		}
	}
	return out
}

// cloneEach copies s element by element. A nil slice stays nil and an empty
// one stays empty, so JSON output is unchanged by cloning.
func cloneEach[T any](s []T, clone func(T) T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		out[i] = clone(v)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	tt := *t
	return &tt
}

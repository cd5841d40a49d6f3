package graph

import (
	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/types"
)

// GroupPatch lists group fields to overwrite
type GroupPatch struct {
	Name  *string
	Color *string
}

// BoardPatch lists board fields to overwrite
type BoardPatch struct {
	Name        *string
	Description *string
}

// AddWorkspace appends an empty workspace
func (m *Mutator) AddWorkspace(g *types.Graph, name string) (*types.Graph, *types.Workspace) {
	ws := &types.Workspace{
		ID:     m.ids.New(ids.PrefixWorkspace),
		Name:   name,
		Boards: []*types.Board{},
	}
	var existing []*types.Workspace
	if g != nil {
		existing = g.Workspaces
	}
	return &types.Graph{Workspaces: appendCopy(existing, ws)}, ws
}

// AddBoard appends an empty board to a workspace
func (m *Mutator) AddBoard(g *types.Graph, workspaceID, name, description string) (*types.Graph, *types.Board) {
	board := &types.Board{
		ID:          m.ids.New(ids.PrefixBoard),
		Name:        name,
		Description: description,
		Groups:      []*types.Group{},
	}
	out := m.MergeBoard(g, workspaceID, board)
	if out == g {
		return g, nil
	}
	return out, board
}

// MergeBoard appends a fully built board to a workspace as-is
func (m *Mutator) MergeBoard(g *types.Graph, workspaceID string, board *types.Board) *types.Graph {
	if board == nil {
		return g
	}
	return mapWorkspace(g, func(ws *types.Workspace) bool {
		return ws.ID == workspaceID
	}, func(ws *types.Workspace) *types.Workspace {
		nws := *ws
		nws.Boards = appendCopy(ws.Boards, board)
		return &nws
	})
}

// UpdateBoard overwrites a board's name and/or description
func (m *Mutator) UpdateBoard(g *types.Graph, boardID string, patch BoardPatch) *types.Graph {
	if patch.Name == nil && patch.Description == nil {
		return g
	}
	return mapBoard(g, boardID, func(b *types.Board) *types.Board {
		nb := *b
		if patch.Name != nil {
			nb.Name = *patch.Name
		}
		if patch.Description != nil {
			nb.Description = *patch.Description
		}
		return &nb
	})
}

// DeleteBoard removes a board from whichever workspace holds it
func (m *Mutator) DeleteBoard(g *types.Graph, boardID string) *types.Graph {
	return mapWorkspace(g, func(ws *types.Workspace) bool {
		return indexBoard(ws, boardID) >= 0
	}, func(ws *types.Workspace) *types.Workspace {
		nws := *ws
		nws.Boards = removeAt(ws.Boards, indexBoard(ws, boardID))
		return &nws
	})
}

// AddGroup appends an empty group to a board. An empty color falls back to
// DefaultGroupColor.
func (m *Mutator) AddGroup(g *types.Graph, boardID, name, color string) (*types.Graph, *types.Group) {
	if color == "" {
		color = DefaultGroupColor
	}
	group := &types.Group{
		ID:    m.ids.New(ids.PrefixGroup),
		Name:  name,
		Color: color,
		Items: []*types.Item{},
	}
	out := mapBoard(g, boardID, func(b *types.Board) *types.Board {
		nb := *b
		nb.Groups = appendCopy(b.Groups, group)
		return &nb
	})
	if out == g {
		return g, nil
	}
	return out, group
}

// UpdateGroup overwrites a group's name and/or color
func (m *Mutator) UpdateGroup(g *types.Graph, boardID, groupID string, patch GroupPatch) *types.Graph {
	if patch.Name == nil && patch.Color == nil {
		return g
	}
	return mapBoard(g, boardID, func(b *types.Board) *types.Board {
		return mapGroup(b, groupID, func(gr *types.Group) *types.Group {
			ngr := *gr
			if patch.Name != nil {
				ngr.Name = *patch.Name
			}
			if patch.Color != nil {
				ngr.Color = *patch.Color
			}
			return &ngr
		})
	})
}

// DeleteGroup removes a group and all of its items from a board
func (m *Mutator) DeleteGroup(g *types.Graph, boardID, groupID string) *types.Graph {
	return mapBoard(g, boardID, func(b *types.Board) *types.Board {
		i := indexGroup(b, groupID)
		if i < 0 {
			return b
		}
		nb := *b
		nb.Groups = removeAt(b.Groups, i)
		return &nb
	})
}

package graph

import "github.com/arthur-debert/nanoboard/types"

// FindWorkspace returns the workspace with the given id
func FindWorkspace(g *types.Graph, workspaceID string) (*types.Workspace, bool) {
	if g == nil {
		return nil, false
	}
	for _, ws := range g.Workspaces {
		if ws.ID == workspaceID {
			return ws, true
		}
	}
	return nil, false
}

// FindBoard returns the first board with the given id in any workspace
func FindBoard(g *types.Graph, boardID string) (*types.Board, bool) {
	if g == nil {
		return nil, false
	}
	for _, ws := range g.Workspaces {
		if i := indexBoard(ws, boardID); i >= 0 {
			return ws.Boards[i], true
		}
	}
	return nil, false
}

// FindGroup returns a group of a board
func FindGroup(g *types.Graph, boardID, groupID string) (*types.Group, bool) {
	b, ok := FindBoard(g, boardID)
	if !ok {
		return nil, false
	}
	if i := indexGroup(b, groupID); i >= 0 {
		return b.Groups[i], true
	}
	return nil, false
}

// FindItem returns an item of a group
func FindItem(g *types.Graph, boardID, groupID, itemID string) (*types.Item, bool) {
	gr, ok := FindGroup(g, boardID, groupID)
	if !ok {
		return nil, false
	}
	if i := indexItem(gr, itemID); i >= 0 {
		return gr.Items[i], true
	}
	return nil, false
}

// Locate finds an item anywhere in the graph and returns its full address
func Locate(g *types.Graph, itemID string) (ItemRef, bool) {
	for _, b := range g.Boards() {
		for _, gr := range b.Groups {
			if indexItem(gr, itemID) >= 0 {
				return ItemRef{BoardID: b.ID, GroupID: gr.ID, ItemID: itemID}, true
			}
		}
	}
	return ItemRef{}, false
}

// LocateGroup finds the board holding a group
func LocateGroup(g *types.Graph, groupID string) (boardID string, ok bool) {
	for _, b := range g.Boards() {
		if indexGroup(b, groupID) >= 0 {
			return b.ID, true
		}
	}
	return "", false
}

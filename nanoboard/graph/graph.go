// Package graph implements the mutation layer over the board entity tree.
//
// Every operation takes a *types.Graph and returns a *types.Graph. The input
// is never modified: the returned graph shares every untouched workspace,
// board, group and item with the input and only rebuilds the path down to the
// node that changed.
//
// Operations are total. When the target of an operation cannot be found the
// input pointer itself is returned, so callers that care can detect the
// no-op with a pointer comparison:
//
//	out := m.MoveItem(g, boardID, from, to, itemID)
//	if out == g {
//	    // nothing moved
//	}
package graph

import (
	"time"

	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/types"
)

// DefaultGroupColor is used when a group is added without a color
const DefaultGroupColor = "#579bfc"

// Mutator applies mutations with an injected clock and id generator
type Mutator struct {
	now func() time.Time
	ids ids.Generator
}

// Option configures a Mutator
type Option func(*Mutator)

// WithClock sets the time source used for lastUpdated and createdAt stamps
func WithClock(fn func() time.Time) Option {
	return func(m *Mutator) {
		m.now = fn
	}
}

// WithIDGenerator sets the generator used for new entities
func WithIDGenerator(gen ids.Generator) Option {
	return func(m *Mutator) {
		m.ids = gen
	}
}

// New creates a Mutator. Without options it uses time.Now and UUID ids.
func New(opts ...Option) *Mutator {
	m := &Mutator{
		now: time.Now,
		ids: ids.Default,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ptr returns a pointer to v, for building patches inline
func Ptr[T any](v T) *T {
	return &v
}

// stamp returns a timestamp strictly after prev
func (m *Mutator) stamp(prev time.Time) time.Time {
	ts := m.now()
	if !ts.After(prev) {
		ts = prev.Add(time.Millisecond)
	}
	return ts
}

// ItemRef addresses one item in the graph
type ItemRef struct {
	BoardID string
	GroupID string
	ItemID  string
}

// replaceAt returns a copy of s with s[i] replaced by v
func replaceAt[T any](s []T, i int, v T) []T {
	out := make([]T, len(s))
	copy(out, s)
	out[i] = v
	return out
}

// removeAt returns a copy of s without s[i]
func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// appendCopy returns a copy of s with v appended, never aliasing s
func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

// mapWorkspace rebuilds the graph around the first workspace matching pred.
// fn returns its replacement, or the same pointer to signal no change.
func mapWorkspace(g *types.Graph, pred func(*types.Workspace) bool, fn func(*types.Workspace) *types.Workspace) *types.Graph {
	if g == nil {
		return g
	}
	for i, ws := range g.Workspaces {
		if !pred(ws) {
			continue
		}
		nws := fn(ws)
		if nws == ws {
			return g
		}
		return &types.Graph{Workspaces: replaceAt(g.Workspaces, i, nws)}
	}
	return g
}

// mapBoard rebuilds the graph around the board with the given id
func mapBoard(g *types.Graph, boardID string, fn func(*types.Board) *types.Board) *types.Graph {
	return mapWorkspace(g, func(ws *types.Workspace) bool {
		return indexBoard(ws, boardID) >= 0
	}, func(ws *types.Workspace) *types.Workspace {
		i := indexBoard(ws, boardID)
		b := ws.Boards[i]
		nb := fn(b)
		if nb == b {
			return ws
		}
		nws := *ws
		nws.Boards = replaceAt(ws.Boards, i, nb)
		return &nws
	})
}

// mapGroup rebuilds a board around the group with the given id
func mapGroup(b *types.Board, groupID string, fn func(*types.Group) *types.Group) *types.Board {
	i := indexGroup(b, groupID)
	if i < 0 {
		return b
	}
	gr := b.Groups[i]
	ngr := fn(gr)
	if ngr == gr {
		return b
	}
	nb := *b
	nb.Groups = replaceAt(b.Groups, i, ngr)
	return &nb
}

// mapItem rebuilds a group around the item with the given id
func mapItem(gr *types.Group, itemID string, fn func(*types.Item) *types.Item) *types.Group {
	i := indexItem(gr, itemID)
	if i < 0 {
		return gr
	}
	it := gr.Items[i]
	nit := fn(it)
	if nit == it {
		return gr
	}
	ngr := *gr
	ngr.Items = replaceAt(gr.Items, i, nit)
	return &ngr
}

// mapRef rebuilds the whole path down to one item
func mapRef(g *types.Graph, ref ItemRef, fn func(*types.Item) *types.Item) *types.Graph {
	return mapBoard(g, ref.BoardID, func(b *types.Board) *types.Board {
		return mapGroup(b, ref.GroupID, func(gr *types.Group) *types.Group {
			return mapItem(gr, ref.ItemID, fn)
		})
	})
}

func indexBoard(ws *types.Workspace, id string) int {
	for i, b := range ws.Boards {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func indexGroup(b *types.Board, id string) int {
	for i, g := range b.Groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func indexItem(g *types.Group, id string) int {
	for i, it := range g.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

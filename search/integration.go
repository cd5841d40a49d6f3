package search

import "github.com/arthur-debert/nanoboard/types"

// GraphProvider adapts a board graph to work as an ItemProvider
type GraphProvider struct {
	graph *types.Graph
}

// NewGraphProvider creates a new provider over g
func NewGraphProvider(g *types.Graph) *GraphProvider {
	return &GraphProvider{graph: g}
}

// Items implements ItemProvider by walking every workspace, board and group
func (p *GraphProvider) Items() ([]Entry, error) {
	if p.graph == nil {
		return nil, nil
	}
	var entries []Entry
	for _, ws := range p.graph.Workspaces {
		for _, b := range ws.Boards {
			for _, g := range b.Groups {
				for _, it := range g.Items {
					entries = append(entries, Entry{
						WorkspaceID: ws.ID,
						BoardID:     b.ID,
						BoardName:   b.Name,
						GroupID:     g.ID,
						GroupName:   g.Name,
						Item:        it,
					})
				}
			}
		}
	}
	return entries, nil
}

// SearchGraph is a convenience function to search a graph directly
func SearchGraph(g *types.Graph, options Options) ([]Result, error) {
	return NewEngine(NewGraphProvider(g)).Search(options)
}

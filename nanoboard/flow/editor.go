// Package flow edits automation flows: ordered outlines of typed nodes
// that are built from templates and marketplace entries but never run.
//
// Flows are values. Every Editor method returns a new flow whose node slice
// is never shared with its input, so the old flow stays valid after an edit.
package flow

import (
	"fmt"

	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/types"
)

// Editor applies flow edits with an injected id generator
type Editor struct {
	ids ids.Generator
}

// Option configures an Editor
type Option func(*Editor)

// WithIDGenerator sets the generator used for flows, nodes and materials
func WithIDGenerator(gen ids.Generator) Option {
	return func(e *Editor) {
		e.ids = gen
	}
}

// New creates an Editor. Without options it uses UUID ids.
func New(opts ...Option) *Editor {
	e := &Editor{ids: ids.Default}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NodePatch holds the editable node fields; nil fields are left alone
type NodePatch struct {
	Label       *string
	Icon        *string
	Color       *string
	Description *string
	Image       *string
	Config      map[string]any // replaces the whole config when non-nil
}

// IsEmpty reports whether the patch changes nothing
func (p NodePatch) IsEmpty() bool {
	return p.Label == nil && p.Icon == nil && p.Color == nil &&
		p.Description == nil && p.Image == nil && p.Config == nil
}

// InstantiateTemplate turns a read-only template into an editable Draft
// flow. Nodes are deep-copied and renumbered: none of the template's node
// ids survive.
func (e *Editor) InstantiateTemplate(tpl types.AutomationFlow) types.AutomationFlow {
	out := tpl.Clone()
	out.ID = e.ids.New(ids.PrefixFlow)
	out.Status = types.FlowDraft
	for i := range out.Nodes {
		out.Nodes[i].ID = e.ids.New(ids.PrefixNode)
	}
	return out
}

// NewFlow returns an empty Draft flow
func (e *Editor) NewFlow(name string) types.AutomationFlow {
	return types.AutomationFlow{
		ID:     e.ids.New(ids.PrefixFlow),
		Name:   name,
		Status: types.FlowDraft,
		Nodes:  []types.AutomationNode{},
	}
}

// AppendNode adds a node built from a marketplace entry to the end of the
// flow. Position is not checked: a trigger may follow other nodes.
func (e *Editor) AppendNode(f types.AutomationFlow, tpl types.NodeTemplate) (types.AutomationFlow, types.AutomationNode) {
	node := types.AutomationNode{
		ID:          e.ids.New(ids.PrefixNode),
		Type:        tpl.Type,
		Label:       tpl.Label,
		Icon:        tpl.Icon,
		Color:       tpl.Color,
		Description: tpl.Description,
	}
	out := f
	out.Nodes = make([]types.AutomationNode, len(f.Nodes), len(f.Nodes)+1)
	copy(out.Nodes, f.Nodes)
	out.Nodes = append(out.Nodes, node)
	return out, node
}

// RemoveNode drops a node along with its materials and config. The bool is
// false when no node has that id.
func (e *Editor) RemoveNode(f types.AutomationFlow, nodeID string) (types.AutomationFlow, bool) {
	i := indexNode(f, nodeID)
	if i < 0 {
		return f, false
	}
	out := f
	out.Nodes = make([]types.AutomationNode, 0, len(f.Nodes)-1)
	out.Nodes = append(out.Nodes, f.Nodes[:i]...)
	out.Nodes = append(out.Nodes, f.Nodes[i+1:]...)
	return out, true
}

// MoveNode moves a node to newIndex, clamped to the node range
func (e *Editor) MoveNode(f types.AutomationFlow, nodeID string, newIndex int) (types.AutomationFlow, bool) {
	i := indexNode(f, nodeID)
	if i < 0 {
		return f, false
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(f.Nodes)-1 {
		newIndex = len(f.Nodes) - 1
	}

	node := f.Nodes[i]
	rest := make([]types.AutomationNode, 0, len(f.Nodes))
	rest = append(rest, f.Nodes[:i]...)
	rest = append(rest, f.Nodes[i+1:]...)

	out := f
	out.Nodes = make([]types.AutomationNode, 0, len(f.Nodes))
	out.Nodes = append(out.Nodes, rest[:newIndex]...)
	out.Nodes = append(out.Nodes, node)
	out.Nodes = append(out.Nodes, rest[newIndex:]...)
	return out, true
}

// UpdateNode applies a patch to one node
func (e *Editor) UpdateNode(f types.AutomationFlow, nodeID string, patch NodePatch) (types.AutomationFlow, bool) {
	i := indexNode(f, nodeID)
	if i < 0 {
		return f, false
	}
	n := f.Nodes[i]
	if patch.Label != nil {
		n.Label = *patch.Label
	}
	if patch.Icon != nil {
		n.Icon = *patch.Icon
	}
	if patch.Color != nil {
		n.Color = *patch.Color
	}
	if patch.Description != nil {
		n.Description = *patch.Description
	}
	if patch.Image != nil {
		n.Image = *patch.Image
	}
	if patch.Config != nil {
		n.Config = types.AutomationNode{Config: patch.Config}.Clone().Config
	}
	return withNode(f, i, n), true
}

// SetStatus changes the editorial status of a flow. Nothing runs as a
// result.
func (e *Editor) SetStatus(f types.AutomationFlow, status types.FlowStatus) (types.AutomationFlow, error) {
	if !status.IsValid() {
		return f, fmt.Errorf("invalid flow status %q", status)
	}
	out := f
	out.Status = status
	return out, nil
}

// AttachMaterial appends a reference asset to a node. The material gets a
// fresh id when it has none or its id is already used on the node.
func (e *Editor) AttachMaterial(f types.AutomationFlow, nodeID string, m types.WorkflowMaterial) (types.AutomationFlow, types.WorkflowMaterial, bool) {
	i := indexNode(f, nodeID)
	if i < 0 {
		return f, m, false
	}
	n := f.Nodes[i]
	for m.ID == "" || hasMaterial(n, m.ID) {
		m.ID = e.ids.New(ids.PrefixMaterial)
	}
	mats := make([]types.WorkflowMaterial, len(n.Materials), len(n.Materials)+1)
	copy(mats, n.Materials)
	n.Materials = append(mats, m)
	return withNode(f, i, n), m, true
}

// DetachMaterial removes a material from a node
func (e *Editor) DetachMaterial(f types.AutomationFlow, nodeID, materialID string) (types.AutomationFlow, bool) {
	i := indexNode(f, nodeID)
	if i < 0 {
		return f, false
	}
	n := f.Nodes[i]
	for j, m := range n.Materials {
		if m.ID != materialID {
			continue
		}
		mats := make([]types.WorkflowMaterial, 0, len(n.Materials)-1)
		mats = append(mats, n.Materials[:j]...)
		n.Materials = append(mats, n.Materials[j+1:]...)
		return withNode(f, i, n), true
	}
	return f, false
}

func hasMaterial(n types.AutomationNode, id string) bool {
	for _, m := range n.Materials {
		if m.ID == id {
			return true
		}
	}
	return false
}

// FindNode returns the node with the given id
func FindNode(f types.AutomationFlow, nodeID string) (types.AutomationNode, bool) {
	if i := indexNode(f, nodeID); i >= 0 {
		return f.Nodes[i], true
	}
	return types.AutomationNode{}, false
}

func indexNode(f types.AutomationFlow, id string) int {
	for i, n := range f.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// withNode returns f with a fresh node slice holding n at i
func withNode(f types.AutomationFlow, i int, n types.AutomationNode) types.AutomationFlow {
	out := f
	out.Nodes = make([]types.AutomationNode, len(f.Nodes))
	copy(out.Nodes, f.Nodes)
	out.Nodes[i] = n
	return out
}

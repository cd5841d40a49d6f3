package generate

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/nanoboard/nanoboard/flow"
	"github.com/arthur-debert/nanoboard/nanoboard/graph"
	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/types"
)

// BoardDraft is the shape requested from the provider for a board
type BoardDraft struct {
	Name        string       `json:"name" jsonschema:"required"`
	Description string       `json:"description,omitempty"`
	Groups      []GroupDraft `json:"groups" jsonschema:"required"`
}

// GroupDraft is one group of a BoardDraft
type GroupDraft struct {
	Name  string      `json:"name" jsonschema:"required"`
	Color string      `json:"color,omitempty" jsonschema:"description=hex color such as #579bfc"`
	Items []ItemDraft `json:"items"`
}

// ItemDraft is one item of a GroupDraft. Status and priority are free
// strings here; decoding maps them onto the known values.
type ItemDraft struct {
	Name        string `json:"name" jsonschema:"required"`
	Status      string `json:"status,omitempty" jsonschema:"enum=Not Started,enum=Working on it,enum=Done,enum=Stuck"`
	Priority    string `json:"priority,omitempty" jsonschema:"enum=Low,enum=Medium,enum=High,enum=Critical"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty" jsonschema:"description=YYYY-MM-DD"`
}

// FlowDraft is the shape requested from the provider for a flow
type FlowDraft struct {
	Name  string      `json:"name" jsonschema:"required"`
	Nodes []NodeDraft `json:"nodes" jsonschema:"required"`
}

// NodeDraft is one node of a FlowDraft
type NodeDraft struct {
	Type        string `json:"type" jsonschema:"enum=trigger,enum=logic,enum=communication,enum=creative"`
	Label       string `json:"label" jsonschema:"required"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// Default values for fields the provider left out or got wrong
const (
	DefaultBoardName = "Generated board"
	DefaultFlowName  = "Generated flow"
	DefaultNodeColor = "#579bfc"
)

// DecodeBoard turns a provider response into a board with fresh ids.
// Unknown statuses become Not Started and unknown priorities Medium; an
// unparseable due date is dropped.
func DecodeBoard(raw string, gen ids.Generator, now time.Time) (*types.Board, error) {
	var d BoardDraft
	if err := json.Unmarshal([]byte(StripFences(raw)), &d); err != nil {
		return nil, fmt.Errorf("%w: board response is not valid JSON: %v", ErrGeneration, err)
	}
	return BuildBoard(d, gen, now)
}

// BuildBoard turns a draft into a board with fresh ids, applying the same
// defaults as DecodeBoard
func BuildBoard(d BoardDraft, gen ids.Generator, now time.Time) (*types.Board, error) {
	if len(d.Groups) == 0 {
		return nil, fmt.Errorf("%w: board has no groups", ErrGeneration)
	}

	b := &types.Board{
		ID:          gen.New(ids.PrefixBoard),
		Name:        orDefault(d.Name, DefaultBoardName),
		Description: d.Description,
		Groups:      make([]*types.Group, 0, len(d.Groups)),
	}
	for i, gd := range d.Groups {
		g := &types.Group{
			ID:    gen.New(ids.PrefixGroup),
			Name:  orDefault(gd.Name, fmt.Sprintf("Group %d", i+1)),
			Color: orDefault(gd.Color, graph.DefaultGroupColor),
			Items: make([]*types.Item, 0, len(gd.Items)),
		}
		for _, id := range gd.Items {
			if strings.TrimSpace(id.Name) == "" {
				continue
			}
			g.Items = append(g.Items, &types.Item{
				ID:          gen.New(ids.PrefixItem),
				Name:        strings.TrimSpace(id.Name),
				Status:      normaliseStatus(id.Status),
				Priority:    normalisePriority(id.Priority),
				DueDate:     parseDue(id.DueDate),
				LastUpdated: now,
				Description: id.Description,
				Comments:    []*types.Comment{},
				Subtasks:    []*types.Subtask{},
			})
		}
		b.Groups = append(b.Groups, g)
	}
	return b, nil
}

// DecodeFlow turns a provider response into a Draft flow with fresh ids.
// Node types are matched case-insensitively; unknown types become logic.
func DecodeFlow(raw string, gen ids.Generator) (types.AutomationFlow, error) {
	var d FlowDraft
	if err := json.Unmarshal([]byte(StripFences(raw)), &d); err != nil {
		return types.AutomationFlow{}, fmt.Errorf("%w: flow response is not valid JSON: %v", ErrGeneration, err)
	}
	if len(d.Nodes) == 0 {
		return types.AutomationFlow{}, fmt.Errorf("%w: flow response has no nodes", ErrGeneration)
	}

	draft := types.AutomationFlow{
		Name:  orDefault(d.Name, DefaultFlowName),
		Nodes: make([]types.AutomationNode, 0, len(d.Nodes)),
	}
	for _, nd := range d.Nodes {
		t := types.NodeType(strings.ToLower(strings.TrimSpace(nd.Type)))
		if !t.IsValid() {
			t = types.NodeLogic
		}
		draft.Nodes = append(draft.Nodes, types.AutomationNode{
			Type:        t,
			Label:       orDefault(nd.Label, string(t)),
			Icon:        nd.Icon,
			Color:       orDefault(nd.Color, DefaultNodeColor),
			Description: nd.Description,
		})
	}
	// instantiation assigns the flow and node ids and forces Draft
	return flow.New(flow.WithIDGenerator(gen)).InstantiateTemplate(draft), nil
}

func normaliseStatus(s string) types.Status {
	if st, err := types.ParseStatus(s); err == nil {
		return st
	}
	return types.StatusNotStarted
}

func normalisePriority(s string) types.Priority {
	if p, err := types.ParsePriority(s); err == nil {
		return p
	}
	return types.PriorityMedium
}

func parseDue(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

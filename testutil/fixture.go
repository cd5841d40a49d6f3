// Package testutil provides fixture graphs and flows shared by package tests.
package testutil

import (
	"sync"
	"time"

	"github.com/arthur-debert/nanoboard/types"
)

// Epoch is the base time for fixture timestamps
var Epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// Clock is a deterministic time source that advances one second per reading
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock whose first reading is start + 1s
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now advances the clock and returns the new time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// FrozenClock always returns t
func FrozenClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Item builds a fixture item with empty child collections
func Item(id, name string, status types.Status, priority types.Priority) *types.Item {
	return &types.Item{
		ID:          id,
		Name:        name,
		Status:      status,
		Priority:    priority,
		LastUpdated: Epoch,
		Comments:    []*types.Comment{},
		Subtasks:    []*types.Subtask{},
	}
}

// Group builds a fixture group
func Group(id, name, color string, items ...*types.Item) *types.Group {
	if items == nil {
		items = []*types.Item{}
	}
	return &types.Group{ID: id, Name: name, Color: color, Items: items}
}

// Board builds a fixture board
func Board(id, name, description string, groups ...*types.Group) *types.Board {
	if groups == nil {
		groups = []*types.Group{}
	}
	return &types.Board{ID: id, Name: name, Description: description, Groups: groups}
}

// Graph wraps boards in a single workspace "ws-main"
func Graph(boards ...*types.Board) *types.Graph {
	if boards == nil {
		boards = []*types.Board{}
	}
	return &types.Graph{Workspaces: []*types.Workspace{{
		ID:     "ws-main",
		Name:   "Main Workspace",
		Boards: boards,
	}}}
}

// CriticalPhaseGraph is one board with group "Critical Phase 1" holding
// the single item "UI Refactor" (Working on it)
func CriticalPhaseGraph() *types.Graph {
	return Graph(Board("board-1", "Product Launch", "Q2 launch plan",
		Group("group-1", "Critical Phase 1", "#e2445c",
			Item("item-1", "UI Refactor", types.StatusWorking, types.PriorityHigh),
		),
	))
}

// TodoDoneGraph is one board with groups "To Do" (holding item "X") and
// an empty "Done"
func TodoDoneGraph() *types.Graph {
	return Graph(Board("board-1", "Sprint", "",
		Group("todo", "To Do", "#579bfc",
			Item("x", "X", types.StatusNotStarted, types.PriorityMedium),
		),
		Group("done", "Done", "#00c875"),
	))
}

// Universe gives typed access to the multi-board fixture
type Universe struct {
	Graph *types.Graph

	Marketing *types.Board // "Marketing Q2"
	Backlog   *types.Group // Marketing / "Backlog"
	Active    *types.Group // Marketing / "In Flight"
	Archive   *types.Group // Marketing / "Archive" (only Done items)

	LaunchEmail   *types.Item // Backlog, Not Started, High
	BlogRefresh   *types.Item // Backlog, Stuck, Low
	SocialCopy    *types.Item // In Flight, Working on it, Critical
	EmailSequence *types.Item // In Flight, Working on it, Medium
	PressRelease  *types.Item // Archive, Done, Medium

	Ops      *types.Board // "Ops" in workspace "Side Projects"
	OpsQueue *types.Group
	Invoices *types.Item // Ops queue, Not Started, Low
}

// NewUniverse builds the multi-board fixture
func NewUniverse() *Universe {
	u := &Universe{}
	u.LaunchEmail = Item("item-launch", "Launch email", types.StatusNotStarted, types.PriorityHigh)
	u.LaunchEmail.Description = "Announce the spring release to the newsletter"
	u.BlogRefresh = Item("item-blog", "Blog refresh", types.StatusStuck, types.PriorityLow)
	u.SocialCopy = Item("item-social", "Social copy", types.StatusWorking, types.PriorityCritical)
	u.SocialCopy.Comments = []*types.Comment{{
		ID: "comment-1", Text: "Needs an email teaser too", AuthorName: "Dana", AuthorID: "u-dana",
		CreatedAt: Epoch, LikedBy: []string{},
	}}
	u.EmailSequence = Item("item-seq", "Email sequence", types.StatusWorking, types.PriorityMedium)
	u.PressRelease = Item("item-press", "Press release", types.StatusDone, types.PriorityMedium)
	u.Invoices = Item("item-invoices", "Send invoices", types.StatusNotStarted, types.PriorityLow)

	u.Backlog = Group("group-backlog", "Backlog", "#579bfc", u.LaunchEmail, u.BlogRefresh)
	u.Active = Group("group-active", "In Flight", "#fdab3d", u.SocialCopy, u.EmailSequence)
	u.Archive = Group("group-archive", "Archive", "#00c875", u.PressRelease)
	u.Marketing = Board("board-mkt", "Marketing Q2", "Campaign work", u.Backlog, u.Active, u.Archive)

	u.OpsQueue = Group("group-ops", "Queue", "#a25ddc", u.Invoices)
	u.Ops = Board("board-ops", "Ops", "", u.OpsQueue)

	u.Graph = &types.Graph{Workspaces: []*types.Workspace{
		{ID: "ws-main", Name: "Main Workspace", Boards: []*types.Board{u.Marketing}},
		{ID: "ws-side", Name: "Side Projects", Boards: []*types.Board{u.Ops}},
	}}
	return u
}

// Template is a three-node Active template flow
func Template() types.AutomationFlow {
	return types.AutomationFlow{
		ID:     "tpl-welcome",
		Name:   "Welcome series",
		Status: types.FlowActive,
		Nodes: []types.AutomationNode{
			{ID: "tn-1", Type: types.NodeTrigger, Label: "New subscriber", Icon: "user-plus", Color: "#579bfc"},
			{ID: "tn-2", Type: types.NodeLogic, Label: "Wait 1 day", Icon: "clock", Color: "#fdab3d",
				Config: map[string]any{"delayHours": 24}},
			{ID: "tn-3", Type: types.NodeCommunication, Label: "Send welcome email", Icon: "mail", Color: "#00c875",
				Materials: []types.WorkflowMaterial{{ID: "mat-welcome", Kind: "document", Name: "Welcome copy"}}},
		},
	}
}

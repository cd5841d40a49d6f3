package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func cloneFixture() *Graph {
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return &Graph{Workspaces: []*Workspace{{
		ID:   "ws-main",
		Name: "Main Workspace",
		Boards: []*Board{{
			ID: "board-1", Name: "Launch",
			Groups: []*Group{
				{ID: "group-1", Name: "To Do", Items: []*Item{
					{
						ID: "item-1", Name: "Copy", Status: StatusWorking, Priority: PriorityHigh,
						DueDate: &due,
						Comments: []*Comment{
							{ID: "c-1", Text: "empty likes", LikedBy: []string{}},
							{ID: "c-2", Text: "nil likes"},
							{ID: "c-3", Text: "liked", LikedBy: []string{"u-1"}},
						},
						Subtasks: []*Subtask{{ID: "s-1", Name: "Draft", DueDate: &due}},
					},
					{ID: "item-2", Name: "Bare", Status: StatusNotStarted, Priority: PriorityLow},
				}},
				{ID: "group-2", Name: "Empty", Items: []*Item{}},
				{ID: "group-3", Name: "Nil"},
			},
		}},
	}}}
}

func TestGraphClone_SameJSON(t *testing.T) {
	g := cloneFixture()
	want, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	got, err := json.Marshal(g.Clone())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("clone serializes differently (-want +got):\n%s", diff)
	}
}

func TestGraphClone_SharesNothing(t *testing.T) {
	g := cloneFixture()
	c := g.Clone()

	orig := g.Workspaces[0].Boards[0].Groups[0].Items[0]
	cp := c.Workspaces[0].Boards[0].Groups[0].Items[0]
	if orig == cp || orig.Comments[2] == cp.Comments[2] || orig.Subtasks[0] == cp.Subtasks[0] {
		t.Fatal("clone shares pointers with the original")
	}

	cp.Comments[2].LikedBy[0] = "u-2"
	*cp.DueDate = cp.DueDate.Add(time.Hour)
	*cp.Subtasks[0].DueDate = cp.Subtasks[0].DueDate.Add(time.Hour)
	c.Workspaces[0].Boards[0].Name = "changed"

	if orig.Comments[2].LikedBy[0] != "u-1" {
		t.Error("likes shared")
	}
	if !orig.DueDate.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Error("item due date shared")
	}
	if !orig.Subtasks[0].DueDate.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Error("subtask due date shared")
	}
	if g.Workspaces[0].Boards[0].Name != "Launch" {
		t.Error("board shared")
	}
}

func TestGraphClone_NilAndEmptySlices(t *testing.T) {
	c := cloneFixture().Clone()
	groups := c.Workspaces[0].Boards[0].Groups
	if groups[1].Items == nil {
		t.Error("empty items became nil")
	}
	if groups[2].Items != nil {
		t.Error("nil items became empty")
	}
	comments := groups[0].Items[0].Comments
	if comments[0].LikedBy == nil {
		t.Error("empty likes became nil")
	}
	if comments[1].LikedBy != nil {
		t.Error("nil likes became empty")
	}
	if groups[0].Items[1].Subtasks != nil {
		t.Error("nil subtasks became empty")
	}
}

func TestFlowClone(t *testing.T) {
	f := AutomationFlow{ID: "f-1", Name: "Flow", Nodes: []AutomationNode{
		{ID: "n-1", Materials: []WorkflowMaterial{}},
		{ID: "n-2", Materials: []WorkflowMaterial{{ID: "m-1", Name: "Copy"}},
			Config: map[string]any{"tags": []any{"a"}, "nested": map[string]any{"k": 1}}},
	}}
	c := f.Clone()
	if c.Nodes[0].Materials == nil {
		t.Error("empty materials became nil")
	}
	c.Nodes[1].Materials[0].Name = "changed"
	c.Nodes[1].Config["tags"].([]any)[0] = "b"
	c.Nodes[1].Config["nested"].(map[string]any)["k"] = 2
	if f.Nodes[1].Materials[0].Name != "Copy" {
		t.Error("materials shared")
	}
	if f.Nodes[1].Config["tags"].([]any)[0] != "a" || f.Nodes[1].Config["nested"].(map[string]any)["k"] != 1 {
		t.Error("config shared")
	}
	if (AutomationFlow{}).Clone().Nodes != nil {
		t.Error("nil nodes became empty")
	}
}

package flow

import (
	"testing"

	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/testutil"
	"github.com/arthur-debert/nanoboard/types"
	"github.com/google/go-cmp/cmp"
)

func newTestEditor() *Editor {
	return New(WithIDGenerator(&ids.Sequence{}))
}

func nodeIDs(f types.AutomationFlow) []string {
	out := make([]string, len(f.Nodes))
	for i, n := range f.Nodes {
		out[i] = n.ID
	}
	return out
}

func TestInstantiateTemplate(t *testing.T) {
	tpl := testutil.Template()
	snapshot := tpl.Clone()

	f := newTestEditor().InstantiateTemplate(tpl)

	if f.Status != types.FlowDraft {
		t.Errorf("status = %q, want Draft", f.Status)
	}
	if f.ID == tpl.ID {
		t.Error("flow id was not renewed")
	}
	if len(f.Nodes) != len(tpl.Nodes) {
		t.Fatalf("node count = %d, want %d", len(f.Nodes), len(tpl.Nodes))
	}

	old := make(map[string]bool)
	for _, n := range tpl.Nodes {
		old[n.ID] = true
	}
	seen := make(map[string]bool)
	for i, n := range f.Nodes {
		if old[n.ID] {
			t.Errorf("node %d kept template id %s", i, n.ID)
		}
		if seen[n.ID] {
			t.Errorf("duplicate node id %s", n.ID)
		}
		seen[n.ID] = true
		if n.Label != tpl.Nodes[i].Label || n.Type != tpl.Nodes[i].Type {
			t.Errorf("node %d content changed: %+v", i, n)
		}
	}

	// the copy is deep: editing it leaves the template alone
	f.Nodes[1].Config["delayHours"] = 48
	f.Nodes[2].Materials[0].Name = "changed"
	if diff := cmp.Diff(snapshot, tpl); diff != "" {
		t.Errorf("template mutated (-want +got):\n%s", diff)
	}
}

func TestAppendNode(t *testing.T) {
	e := newTestEditor()
	f := e.InstantiateTemplate(testutil.Template())

	trigger := types.NodeTemplate{Type: types.NodeTrigger, Label: "Date reached", Icon: "calendar", Color: "#579bfc", Description: "d"}
	out, node := e.AppendNode(f, trigger)

	if len(out.Nodes) != len(f.Nodes)+1 {
		t.Fatalf("node count = %d", len(out.Nodes))
	}
	last := out.Nodes[len(out.Nodes)-1]
	if diff := cmp.Diff(node, last); diff != "" {
		t.Errorf("returned node differs from appended (-want +got):\n%s", diff)
	}
	want := types.AutomationNode{ID: node.ID, Type: types.NodeTrigger, Label: "Date reached", Icon: "calendar", Color: "#579bfc", Description: "d"}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("node mismatch (-want +got):\n%s", diff)
	}
	if len(f.Nodes) != 3 {
		t.Error("input flow was modified")
	}
}

func TestRemoveNode(t *testing.T) {
	e := newTestEditor()
	tpl := testutil.Template()

	out, ok := e.RemoveNode(tpl, "tn-3")
	if !ok {
		t.Fatal("expected removal")
	}
	if diff := cmp.Diff([]string{"tn-1", "tn-2"}, nodeIDs(out)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if len(tpl.Nodes) != 3 {
		t.Error("input flow was modified")
	}

	same, ok := e.RemoveNode(tpl, "nope")
	if ok || len(same.Nodes) != 3 {
		t.Error("unknown node should be a no-op")
	}
}

func TestMoveNode(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		index int
		want  []string
	}{
		{"to front", "tn-3", 0, []string{"tn-3", "tn-1", "tn-2"}},
		{"to back", "tn-1", 2, []string{"tn-2", "tn-3", "tn-1"}},
		{"clamped high", "tn-1", 99, []string{"tn-2", "tn-3", "tn-1"}},
		{"clamped low", "tn-2", -4, []string{"tn-2", "tn-1", "tn-3"}},
		{"in place", "tn-2", 1, []string{"tn-1", "tn-2", "tn-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := testutil.Template()
			out, ok := newTestEditor().MoveNode(tpl, tt.id, tt.index)
			if !ok {
				t.Fatal("expected move")
			}
			if diff := cmp.Diff(tt.want, nodeIDs(out)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"tn-1", "tn-2", "tn-3"}, nodeIDs(tpl)); diff != "" {
				t.Errorf("input reordered (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpdateNode(t *testing.T) {
	e := newTestEditor()
	tpl := testutil.Template()
	label := "Wait 2 days"

	out, ok := e.UpdateNode(tpl, "tn-2", NodePatch{Label: &label, Config: map[string]any{"delayHours": 48}})
	if !ok {
		t.Fatal("expected update")
	}
	got := out.Nodes[1]
	if got.Label != label || got.Config["delayHours"] != 48 {
		t.Errorf("unexpected node %+v", got)
	}
	if tpl.Nodes[1].Label != "Wait 1 day" || tpl.Nodes[1].Config["delayHours"] != 24 {
		t.Error("input node modified")
	}
	if _, ok := e.UpdateNode(tpl, "missing", NodePatch{Label: &label}); ok {
		t.Error("unknown node should report false")
	}
}

func TestSetStatus(t *testing.T) {
	e := newTestEditor()
	f := e.NewFlow("Blank")
	if f.Status != types.FlowDraft || f.Nodes == nil {
		t.Fatalf("unexpected new flow %+v", f)
	}

	active, err := e.SetStatus(f, types.FlowActive)
	if err != nil || active.Status != types.FlowActive {
		t.Errorf("SetStatus = %+v, %v", active, err)
	}
	if _, err := e.SetStatus(f, "Running"); err == nil {
		t.Error("expected an error for an unknown status")
	}
}

func TestAttachAndDetachMaterial(t *testing.T) {
	e := newTestEditor()
	tpl := testutil.Template()

	out, m, ok := e.AttachMaterial(tpl, "tn-3", types.WorkflowMaterial{Kind: "link", Name: "Brief", URL: "https://example.com/brief"})
	if !ok {
		t.Fatal("expected attach")
	}
	if m.ID != "mat-1" {
		t.Errorf("material id = %q", m.ID)
	}
	if len(out.Nodes[2].Materials) != 2 || len(tpl.Nodes[2].Materials) != 1 {
		t.Errorf("materials: out %d, in %d", len(out.Nodes[2].Materials), len(tpl.Nodes[2].Materials))
	}

	out, ok = e.DetachMaterial(out, "tn-3", "mat-1")
	if !ok {
		t.Fatal("expected detach")
	}
	if len(out.Nodes[2].Materials) != 1 || out.Nodes[2].Materials[0].Name != "Welcome copy" {
		t.Errorf("unexpected materials %+v", out.Nodes[2].Materials)
	}
	if _, ok := e.DetachMaterial(out, "tn-3", "mat-404"); ok {
		t.Error("unknown material should report false")
	}
}

func TestAttachMaterial_DuplicateID(t *testing.T) {
	e := newTestEditor()
	tpl := testutil.Template()
	tpl.Nodes[2].Materials = []types.WorkflowMaterial{{ID: "mat-1", Kind: "document", Name: "Old copy"}}

	out, m, ok := e.AttachMaterial(tpl, "tn-3", types.WorkflowMaterial{ID: "mat-1", Kind: "link", Name: "Brief"})
	if !ok {
		t.Fatal("expected attach")
	}
	if m.ID == "mat-1" {
		t.Fatal("duplicate material id was kept")
	}
	seen := make(map[string]bool)
	for _, mm := range out.Nodes[2].Materials {
		if seen[mm.ID] {
			t.Errorf("duplicate material id %q", mm.ID)
		}
		seen[mm.ID] = true
	}

	out, ok = e.DetachMaterial(out, "tn-3", m.ID)
	if !ok {
		t.Fatal("expected detach")
	}
	want := []types.WorkflowMaterial{{ID: "mat-1", Kind: "document", Name: "Old copy"}}
	if diff := cmp.Diff(want, out.Nodes[2].Materials); diff != "" {
		t.Errorf("detach removed the wrong material (-want +got):\n%s", diff)
	}

	out, kept, _ := e.AttachMaterial(out, "tn-3", types.WorkflowMaterial{ID: "mat-brief", Name: "Brief"})
	if kept.ID != "mat-brief" || len(out.Nodes[2].Materials) != 2 {
		t.Errorf("unique id should be kept, got %q", kept.ID)
	}
}

func TestListHelpers(t *testing.T) {
	a := types.AutomationFlow{ID: "f-a", Name: "A"}
	b := types.AutomationFlow{ID: "f-b", Name: "B"}

	list := Upsert(nil, a)
	list = Upsert(list, b)
	renamed := Upsert(list, types.AutomationFlow{ID: "f-a", Name: "A2"})

	if len(renamed) != 2 || renamed[0].Name != "A2" || list[0].Name != "A" {
		t.Errorf("upsert: got %+v from %+v", renamed, list)
	}
	if f, ok := Find(renamed, "f-b"); !ok || f.Name != "B" {
		t.Errorf("Find = %+v, %v", f, ok)
	}
	out, ok := Delete(renamed, "f-a")
	if !ok || len(out) != 1 || out[0].ID != "f-b" || len(renamed) != 2 {
		t.Errorf("Delete = %+v, %v", out, ok)
	}
	if _, ok := Delete(renamed, "f-x"); ok {
		t.Error("unknown id should report false")
	}
}

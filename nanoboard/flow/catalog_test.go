package flow

import (
	"strings"
	"testing"

	"github.com/arthur-debert/nanoboard/testutil"
	"github.com/arthur-debert/nanoboard/types"
	"github.com/google/go-cmp/cmp"
)

func TestTemplates(t *testing.T) {
	tpls, err := Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	if len(tpls) < 3 {
		t.Fatalf("expected at least 3 templates, got %d", len(tpls))
	}
	for _, tpl := range tpls {
		if len(tpl.Nodes) == 0 {
			t.Errorf("template %s has no nodes", tpl.ID)
		}
		if tpl.Nodes[0].Type != types.NodeTrigger {
			t.Errorf("template %s does not start with a trigger", tpl.ID)
		}
	}

	// each call is an independent copy
	tpls[0].Name = "edited"
	again, _ := Templates()
	if again[0].Name == "edited" {
		t.Error("Templates returned shared state")
	}

	if _, err := Template("tpl-abandoned-cart"); err != nil {
		t.Errorf("Template: %v", err)
	}
	if _, err := Template("tpl-none"); err == nil {
		t.Error("expected an error for an unknown template")
	}
}

func TestInstantiateBuiltinTemplate(t *testing.T) {
	tpl, err := Template("tpl-content-launch")
	if err != nil {
		t.Fatal(err)
	}
	f := newTestEditor().InstantiateTemplate(tpl)
	if f.Status != types.FlowDraft || len(f.Nodes) != len(tpl.Nodes) {
		t.Errorf("unexpected flow %+v", f)
	}
	if err := Validate(f); err != nil {
		t.Errorf("instantiated flow invalid: %v", err)
	}
}

func TestMarketplace(t *testing.T) {
	nodes, err := Marketplace()
	if err != nil {
		t.Fatalf("Marketplace: %v", err)
	}
	kinds := make(map[types.NodeType]int)
	for _, n := range nodes {
		kinds[n.Type]++
	}
	for _, k := range []types.NodeType{types.NodeTrigger, types.NodeLogic, types.NodeCommunication, types.NodeCreative} {
		if kinds[k] == 0 {
			t.Errorf("no marketplace node of type %s", k)
		}
	}

	n, err := MarketplaceNode("send EMAIL")
	if err != nil || n.Type != types.NodeCommunication {
		t.Errorf("MarketplaceNode = %+v, %v", n, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.AutomationFlow)
		wantErr string
	}{
		{"valid", func(*types.AutomationFlow) {}, ""},
		{"bad status", func(f *types.AutomationFlow) { f.Status = "Live" }, "invalid flow status"},
		{"bad type", func(f *types.AutomationFlow) { f.Nodes[0].Type = "webhook" }, "invalid type"},
		{"duplicate id", func(f *types.AutomationFlow) { f.Nodes[1].ID = "tn-1" }, "duplicate node id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.Template()
			tt.mutate(&f)
			err := Validate(f)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	flows := []types.AutomationFlow{testutil.Template(), newTestEditor().NewFlow("Empty")}

	data, err := ExportYAML(flows)
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	got, err := ImportYAML(data)
	if err != nil {
		t.Fatalf("ImportYAML: %v", err)
	}
	if diff := cmp.Diff(flows, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImportYAML(t *testing.T) {
	doc := `
flows:
  - id: f-1
    name: Lowercase status
    status: paused
    nodes:
      - id: n-1
        type: trigger
        label: Start
  - id: f-2
    name: No status
`
	got, err := ImportYAML([]byte(doc))
	if err != nil {
		t.Fatalf("ImportYAML: %v", err)
	}
	if got[0].Status != types.FlowPaused || got[1].Status != types.FlowDraft || got[1].Nodes == nil {
		t.Errorf("unexpected flows %+v", got)
	}

	if _, err := ImportYAML([]byte("flows:\n  - id: f\n    status: Running\n")); err == nil {
		t.Error("expected an error for an unknown status")
	}
	if _, err := ImportYAML([]byte("flows: [")); err == nil {
		t.Error("expected a parse error")
	}
}

package flow

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoboard/types"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

//go:embed marketplace.yaml
var marketplaceYAML []byte

type templateCatalog struct {
	Templates []types.AutomationFlow `yaml:"templates"`
}

type marketplaceCatalog struct {
	Nodes []types.NodeTemplate `yaml:"nodes"`
}

// Templates returns the built-in flow templates. Each call parses a fresh
// copy, so callers may edit the result.
func Templates() ([]types.AutomationFlow, error) {
	var c templateCatalog
	if err := yaml.Unmarshal(templatesYAML, &c); err != nil {
		return nil, fmt.Errorf("failed to parse flow templates: %w", err)
	}
	for _, t := range c.Templates {
		if err := Validate(t); err != nil {
			return nil, fmt.Errorf("template %s: %w", t.ID, err)
		}
	}
	return c.Templates, nil
}

// Template returns the built-in template with the given id
func Template(id string) (types.AutomationFlow, error) {
	tpls, err := Templates()
	if err != nil {
		return types.AutomationFlow{}, err
	}
	if t, ok := Find(tpls, id); ok {
		return t, nil
	}
	return types.AutomationFlow{}, fmt.Errorf("no flow template %q", id)
}

// Marketplace returns the node entries that AppendNode accepts
func Marketplace() ([]types.NodeTemplate, error) {
	var c marketplaceCatalog
	if err := yaml.Unmarshal(marketplaceYAML, &c); err != nil {
		return nil, fmt.Errorf("failed to parse node marketplace: %w", err)
	}
	for _, n := range c.Nodes {
		if !n.Type.IsValid() {
			return nil, fmt.Errorf("marketplace node %q has invalid type %q", n.Label, n.Type)
		}
	}
	return c.Nodes, nil
}

// MarketplaceNode looks a marketplace entry up by label, ignoring case
func MarketplaceNode(label string) (types.NodeTemplate, error) {
	nodes, err := Marketplace()
	if err != nil {
		return types.NodeTemplate{}, err
	}
	for _, n := range nodes {
		if strings.EqualFold(n.Label, label) {
			return n, nil
		}
	}
	return types.NodeTemplate{}, fmt.Errorf("no marketplace node %q", label)
}

// Validate checks the enum fields and node id uniqueness of a flow
func Validate(f types.AutomationFlow) error {
	if !f.Status.IsValid() {
		return fmt.Errorf("invalid flow status %q", f.Status)
	}
	seen := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		if !n.Type.IsValid() {
			return fmt.Errorf("node %s has invalid type %q", n.ID, n.Type)
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %s", n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}

type flowDocument struct {
	Flows []types.AutomationFlow `yaml:"flows"`
}

// ExportYAML renders flows as a YAML document
func ExportYAML(flows []types.AutomationFlow) ([]byte, error) {
	if flows == nil {
		flows = []types.AutomationFlow{}
	}
	data, err := yaml.Marshal(flowDocument{Flows: flows})
	if err != nil {
		return nil, fmt.Errorf("failed to encode flows: %w", err)
	}
	return data, nil
}

// ImportYAML parses a document written by ExportYAML. Flow statuses are
// accepted in any casing; every flow must pass Validate.
func ImportYAML(data []byte) ([]types.AutomationFlow, error) {
	var doc flowDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse flows: %w", err)
	}
	for i := range doc.Flows {
		f := &doc.Flows[i]
		if f.Status == "" {
			f.Status = types.FlowDraft
		} else if st, err := types.ParseFlowStatus(string(f.Status)); err == nil {
			f.Status = st
		}
		if f.Nodes == nil {
			f.Nodes = []types.AutomationNode{}
		}
		if err := Validate(*f); err != nil {
			return nil, fmt.Errorf("flow %s: %w", f.ID, err)
		}
	}
	if doc.Flows == nil {
		doc.Flows = []types.AutomationFlow{}
	}
	return doc.Flows, nil
}

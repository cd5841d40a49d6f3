package types

// WorkflowMaterial is a reference asset attached to an automation node
type WorkflowMaterial struct {
	ID      string `json:"id" yaml:"id"`
	Kind    string `json:"kind" yaml:"kind"` // e.g. "image", "document", "link"
	Name    string `json:"name" yaml:"name"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// AutomationNode is one step in a flow outline. Node order within a flow
// expresses the intended sequence; nothing evaluates it.
type AutomationNode struct {
	ID          string             `json:"id" yaml:"id"`
	Type        NodeType           `json:"type" yaml:"type"`
	Label       string             `json:"label" yaml:"label"`
	Icon        string             `json:"icon" yaml:"icon"`
	Color       string             `json:"color" yaml:"color"`
	Description string             `json:"description" yaml:"description"`
	Materials   []WorkflowMaterial `json:"materials,omitempty" yaml:"materials,omitempty"`
	Config      map[string]any     `json:"config,omitempty" yaml:"config,omitempty"`
	Image       string             `json:"image,omitempty" yaml:"image,omitempty"`
}

// AutomationFlow is an ordered outline of automation nodes
type AutomationFlow struct {
	ID     string           `json:"id" yaml:"id"`
	Name   string           `json:"name" yaml:"name"`
	Status FlowStatus       `json:"status" yaml:"status"`
	Nodes  []AutomationNode `json:"nodes" yaml:"nodes"`
}

// NodeTemplate is a marketplace entry that AppendNode turns into a node
type NodeTemplate struct {
	Type        NodeType `json:"type" yaml:"type"`
	Label       string   `json:"label" yaml:"label"`
	Icon        string   `json:"icon" yaml:"icon"`
	Color       string   `json:"color" yaml:"color"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
}

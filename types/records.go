package types

import "time"

// Contact is a CRM record
type Contact struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email,omitempty" yaml:"email,omitempty"`
	Company   string    `json:"company,omitempty" yaml:"company,omitempty"`
	Stage     string    `json:"stage,omitempty" yaml:"stage,omitempty"`
	Value     float64   `json:"value,omitempty" yaml:"value,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Campaign is a marketing campaign record
type Campaign struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Channel   string     `json:"channel,omitempty" yaml:"channel,omitempty"`
	Status    string     `json:"status,omitempty" yaml:"status,omitempty"`
	Budget    float64    `json:"budget,omitempty" yaml:"budget,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

// WorkflowStep is one stage of a content workflow
type WorkflowStep struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Assignee string `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Done     bool   `json:"done" yaml:"done"`
}

// Workflow is a content-production checklist, distinct from AutomationFlow
type Workflow struct {
	ID    string         `json:"id" yaml:"id"`
	Name  string         `json:"name" yaml:"name"`
	Steps []WorkflowStep `json:"steps" yaml:"steps"`
}

// BrandVoice is the singleton brand profile
type BrandVoice struct {
	Name     string   `json:"name" yaml:"name"`
	Tone     string   `json:"tone" yaml:"tone"`
	Audience string   `json:"audience" yaml:"audience"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Avoid    []string `json:"avoid" yaml:"avoid"`
}

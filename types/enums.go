package types

import (
	"fmt"
	"strings"
)

// Status is the progress state of an item or subtask
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusWorking    Status = "Working on it"
	StatusDone       Status = "Done"
	StatusStuck      Status = "Stuck"
)

// AllStatuses returns the statuses in board display order
func AllStatuses() []Status {
	return []Status{StatusNotStarted, StatusWorking, StatusDone, StatusStuck}
}

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusWorking, StatusDone, StatusStuck:
		return true
	}
	return false
}

var statusAliases = map[string]Status{
	"not started":   StatusNotStarted,
	"not_started":   StatusNotStarted,
	"not-started":   StatusNotStarted,
	"todo":          StatusNotStarted,
	"working on it": StatusWorking,
	"working":       StatusWorking,
	"in_progress":   StatusWorking,
	"in-progress":   StatusWorking,
	"done":          StatusDone,
	"stuck":         StatusStuck,
	"blocked":       StatusStuck,
}

// ParseStatus accepts the display form or a short alias, case-insensitively
func ParseStatus(s string) (Status, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Priority is the urgency of an item
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// AllPriorities returns priorities from lowest to highest
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// IsValid reports whether p is one of the known priorities
func (p Priority) IsValid() bool {
	return p.Rank() >= 0
}

// Rank orders priorities, Low being 0. Unknown priorities rank -1.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	}
	return -1
}

// ParsePriority accepts any casing of a priority name
func ParsePriority(s string) (Priority, error) {
	needle := strings.TrimSpace(s)
	for _, p := range AllPriorities() {
		if strings.EqualFold(string(p), needle) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// NodeType classifies an automation node
type NodeType string

const (
	NodeTrigger       NodeType = "trigger"
	NodeLogic         NodeType = "logic"
	NodeCommunication NodeType = "communication"
	NodeCreative      NodeType = "creative"
)

func (t NodeType) IsValid() bool {
	switch t {
	case NodeTrigger, NodeLogic, NodeCommunication, NodeCreative:
		return true
	}
	return false
}

// FlowStatus is the editorial state of an automation flow. It never
// drives execution.
type FlowStatus string

const (
	FlowDraft  FlowStatus = "Draft"
	FlowActive FlowStatus = "Active"
	FlowPaused FlowStatus = "Paused"
)

func (s FlowStatus) IsValid() bool {
	switch s {
	case FlowDraft, FlowActive, FlowPaused:
		return true
	}
	return false
}

// ParseFlowStatus accepts any casing of a flow status
func ParseFlowStatus(s string) (FlowStatus, error) {
	needle := strings.TrimSpace(s)
	for _, st := range []FlowStatus{FlowDraft, FlowActive, FlowPaused} {
		if strings.EqualFold(string(st), needle) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown flow status %q", s)
}

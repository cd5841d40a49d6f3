package migration

import (
	"fmt"

	"github.com/arthur-debert/nanoboard/nanoboard/storage"
)

// Step upgrades a document from version From to From+1
type Step struct {
	From     int
	Commands []Command
}

// Plan lists the steps for one collection, in any order
type Plan struct {
	Name  string // collection name, as in storage.Key.Name
	Steps []Step
}

// step returns the step starting at version v
func (p Plan) step(v int) (Step, bool) {
	for _, s := range p.Steps {
		if s.From == v {
			return s, true
		}
	}
	return Step{}, false
}

// Validate checks that the plan covers every version from 1 to target and
// that each command is well formed
func (p Plan) Validate(target int) []Message {
	var msgs []Message
	seen := make(map[int]bool)
	for _, s := range p.Steps {
		if s.From < 1 || s.From >= target {
			msgs = append(msgs, Message{
				Level: LevelError,
				Text:  fmt.Sprintf("%s: step from v%d is outside 1..%d", p.Name, s.From, target-1),
			})
		}
		if seen[s.From] {
			msgs = append(msgs, Message{Level: LevelError, Text: fmt.Sprintf("%s: duplicate step from v%d", p.Name, s.From)})
		}
		seen[s.From] = true
		for _, c := range s.Commands {
			msgs = append(msgs, c.Validate()...)
		}
	}
	for v := 1; v < target; v++ {
		if !seen[v] {
			msgs = append(msgs, Message{Level: LevelError, Text: fmt.Sprintf("%s: no step from v%d to v%d", p.Name, v, v+1)})
		}
	}
	return msgs
}

// BuiltinPlans returns the plans for every registered collection that has
// had a schema change
func BuiltinPlans() []Plan {
	return []Plan{
		{
			Name: storage.WorkspacesKey.Name,
			Steps: []Step{{
				From: 1,
				Commands: []Command{
					&RenameField{Path: "workspaces.boards.groups.items", OldName: "owner", NewName: "ownerId"},
					&RenameField{Path: "workspaces.boards.groups.items.subtasks", OldName: "owner", NewName: "ownerId"},
					&TransformField{Path: "workspaces.boards.groups.items", FieldName: "status", TransformerName: "statusLabel"},
				},
			}},
		},
		{
			Name: storage.FlowsKey.Name,
			Steps: []Step{{
				From: 1,
				Commands: []Command{
					&AddField{FieldName: "status", DefaultValue: "Draft"},
					&TransformField{FieldName: "status", TransformerName: "flowStatusName"},
					&RenameField{Path: "nodes", OldName: "desc", NewName: "description"},
				},
			}},
		},
	}
}

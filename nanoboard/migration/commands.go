package migration

import (
	"fmt"
	"strings"
)

// Command rewrites the objects a Path reaches inside a decoded JSON document
type Command interface {
	// Description returns a human-readable description of the command
	Description() string

	// Target is the path to the objects the command edits
	Target() Path

	// Validate reports problems with the command itself, before any data is read
	Validate() []Message

	// Apply changes the targets in place and records what it did in r
	Apply(targets []map[string]interface{}, r *Result) error
}

// Path is a dotted walk from the document root to the objects a command
// edits, e.g. "workspaces.boards.groups.items". Arrays met along the way,
// including a root array, are entered element by element. The empty path
// targets the root object(s).
type Path string

func (p Path) segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), ".")
}

// Resolve collects every object the path reaches in doc
func (p Path) Resolve(doc interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	var walk func(v interface{}, segs []string)
	walk = func(v interface{}, segs []string) {
		switch node := v.(type) {
		case []interface{}:
			for _, el := range node {
				walk(el, segs)
			}
		case map[string]interface{}:
			if len(segs) == 0 {
				out = append(out, node)
				return
			}
			if child, ok := node[segs[0]]; ok {
				walk(child, segs[1:])
			}
		}
	}
	walk(doc, p.segments())
	return out
}

func validateName(what, name string) []Message {
	if strings.TrimSpace(name) == "" {
		return []Message{{Level: LevelError, Text: fmt.Sprintf("%s cannot be empty", what)}}
	}
	if strings.Contains(name, ".") {
		return []Message{{Level: LevelError, Text: fmt.Sprintf("%s %q must not contain '.'; put the parent in Path", what, name)}}
	}
	return nil
}

// RenameField moves a field to a new name. Objects that already hold the new
// name are skipped and reported.
type RenameField struct {
	Path    Path
	OldName string
	NewName string
}

// Description returns a human-readable description of the command
func (c *RenameField) Description() string {
	return fmt.Sprintf("Rename field '%s' to '%s' at '%s'", c.OldName, c.NewName, c.Path)
}

// Validate checks if the rename can be executed
func (c *RenameField) Validate() []Message {
	msgs := append(validateName("Old field name", c.OldName), validateName("New field name", c.NewName)...)
	if c.OldName == c.NewName {
		msgs = append(msgs, Message{Level: LevelError, Text: "Old and new field names are the same"})
	}
	return msgs
}

// Target implements Command
func (c *RenameField) Target() Path { return c.Path }

// Apply performs the rename
func (c *RenameField) Apply(targets []map[string]interface{}, r *Result) error {
	renamed, conflicts := 0, 0
	for _, obj := range targets {
		val, ok := obj[c.OldName]
		if !ok {
			continue
		}
		if _, exists := obj[c.NewName]; exists {
			conflicts++
			continue
		}
		obj[c.NewName] = val
		delete(obj, c.OldName)
		renamed++
	}
	r.Stats.Modified += renamed
	r.Stats.Skipped += conflicts
	if conflicts > 0 {
		r.addf(LevelWarning, "Field '%s' already exists in %d objects at '%s'; left '%s' in place", c.NewName, conflicts, c.Path, c.OldName)
	}
	if renamed > 0 {
		r.addf(LevelInfo, "Renamed field '%s' to '%s' in %d objects", c.OldName, c.NewName, renamed)
	}
	return nil
}

// AddField sets a field to a default value wherever it is missing
type AddField struct {
	Path         Path
	FieldName    string
	DefaultValue interface{}
}

// Description returns a human-readable description of the command
func (c *AddField) Description() string {
	return fmt.Sprintf("Add field '%s' (default %v) at '%s'", c.FieldName, c.DefaultValue, c.Path)
}

// Validate checks if the add can be executed
func (c *AddField) Validate() []Message {
	msgs := validateName("Field name", c.FieldName)
	if c.DefaultValue == nil {
		msgs = append(msgs, Message{Level: LevelError, Text: "Default value cannot be nil"})
	}
	return msgs
}

// Target implements Command
func (c *AddField) Target() Path { return c.Path }

// Apply performs the add
func (c *AddField) Apply(targets []map[string]interface{}, r *Result) error {
	added := 0
	for _, obj := range targets {
		if _, ok := obj[c.FieldName]; ok {
			continue
		}
		obj[c.FieldName] = c.DefaultValue
		added++
	}
	r.Stats.Modified += added
	if added > 0 {
		r.addf(LevelInfo, "Added field '%s' to %d objects", c.FieldName, added)
	}
	return nil
}

// RemoveField deletes a field
type RemoveField struct {
	Path      Path
	FieldName string
}

// Description returns a human-readable description of the command
func (c *RemoveField) Description() string {
	return fmt.Sprintf("Remove field '%s' at '%s'", c.FieldName, c.Path)
}

// Validate checks if the remove can be executed
func (c *RemoveField) Validate() []Message {
	return validateName("Field name", c.FieldName)
}

// Target implements Command
func (c *RemoveField) Target() Path { return c.Path }

// Apply performs the removal
func (c *RemoveField) Apply(targets []map[string]interface{}, r *Result) error {
	removed := 0
	for _, obj := range targets {
		if _, ok := obj[c.FieldName]; ok {
			delete(obj, c.FieldName)
			removed++
		}
	}
	r.Stats.Modified += removed
	if removed > 0 {
		r.addf(LevelInfo, "Removed field '%s' from %d objects", c.FieldName, removed)
	}
	return nil
}

// TransformField rewrites a field's value with a named transformer from
// TransformerRegistry. The first failing value aborts the migration.
type TransformField struct {
	Path            Path
	FieldName       string
	TransformerName string
}

// Description returns a human-readable description of the command
func (c *TransformField) Description() string {
	return fmt.Sprintf("Transform field '%s' with %s at '%s'", c.FieldName, c.TransformerName, c.Path)
}

// Validate checks if the transform can be executed
func (c *TransformField) Validate() []Message {
	msgs := validateName("Field name", c.FieldName)
	if _, ok := TransformerRegistry[c.TransformerName]; !ok {
		msgs = append(msgs, Message{
			Level: LevelError,
			Text:  fmt.Sprintf("Unknown transformer '%s'", c.TransformerName),
		})
	}
	return msgs
}

// Target implements Command
func (c *TransformField) Target() Path { return c.Path }

// Apply performs the transform
func (c *TransformField) Apply(targets []map[string]interface{}, r *Result) error {
	fn := TransformerRegistry[c.TransformerName]
	changed := 0
	for _, obj := range targets {
		val, ok := obj[c.FieldName]
		if !ok {
			continue
		}
		nv, err := fn(val)
		if err != nil {
			return fmt.Errorf("transform '%s' of field '%s': %w", c.TransformerName, c.FieldName, err)
		}
		obj[c.FieldName] = nv
		changed++
	}
	r.Stats.Modified += changed
	if changed > 0 {
		r.addf(LevelInfo, "Transformed field '%s' in %d objects", c.FieldName, changed)
	}
	return nil
}

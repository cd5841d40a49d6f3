package migration

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func objects(raws ...string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(raws))
	for _, r := range raws {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			panic(err)
		}
		out = append(out, m)
	}
	return out
}

func TestRenameField(t *testing.T) {
	targets := objects(`{"owner":"a"}`, `{"owner":"b","ownerId":"c"}`, `{}`)
	r := &Result{}

	cmd := &RenameField{OldName: "owner", NewName: "ownerId"}
	if msgs := cmd.Validate(); len(msgs) != 0 {
		t.Fatalf("unexpected validation messages %+v", msgs)
	}
	if err := cmd.Apply(targets, r); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := objects(`{"ownerId":"a"}`, `{"owner":"b","ownerId":"c"}`, `{}`)
	if diff := cmp.Diff(want, targets); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if r.Stats.Modified != 1 || r.Stats.Skipped != 1 {
		t.Errorf("stats = %+v", r.Stats)
	}
}

func TestAddAndRemoveField(t *testing.T) {
	targets := objects(`{"status":"Active"}`, `{}`)
	r := &Result{}

	_ = (&AddField{FieldName: "status", DefaultValue: "Draft"}).Apply(targets, r)
	want := objects(`{"status":"Active"}`, `{"status":"Draft"}`)
	if diff := cmp.Diff(want, targets); diff != "" {
		t.Errorf("add mismatch (-want +got):\n%s", diff)
	}

	_ = (&RemoveField{FieldName: "status"}).Apply(targets, r)
	if diff := cmp.Diff(objects(`{}`, `{}`), targets); diff != "" {
		t.Errorf("remove mismatch (-want +got):\n%s", diff)
	}
	if r.Stats.Modified != 3 {
		t.Errorf("modified = %d, want 3", r.Stats.Modified)
	}
}

func TestCommandValidation(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
	}{
		{"empty rename source", &RenameField{NewName: "x"}},
		{"dotted name", &RenameField{OldName: "a.b", NewName: "c"}},
		{"nil default", &AddField{FieldName: "x"}},
		{"empty remove", &RemoveField{}},
		{"unknown transformer", &TransformField{FieldName: "x", TransformerName: "toRoman"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.cmd.Validate()) == 0 {
				t.Error("expected validation errors")
			}
		})
	}
}

func TestTransformers(t *testing.T) {
	tests := []struct {
		name string
		fn   Transformer
		in   interface{}
		want interface{}
	}{
		{"toInt from json number", ToInt, json.Number("42"), 42},
		{"toInt from string", ToInt, " 7 ", 7},
		{"toString", ToString, 3.5, "3.5"},
		{"trim", Trim, "  x ", "x"},
		{"lower", ToLowerCase, "ABC", "abc"},
		{"status alias", StatusLabel, "in_progress", "Working on it"},
		{"priority casing", PriorityLabel, "critical", "Critical"},
		{"flow status casing", FlowStatusName, "paused", "Paused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}

	if _, err := StatusLabel("someday"); err == nil {
		t.Error("expected an error for an unknown status")
	}
	if _, err := ToInt([]interface{}{}); err == nil {
		t.Error("expected an error for a slice")
	}
}

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/arthur-debert/nanoboard/testutil"
	"github.com/arthur-debert/nanoboard/types"
	"github.com/google/go-cmp/cmp"
)

// spyKV counts calls on top of a memory store
type spyKV struct {
	KV
	gets, puts int
	getErr     error
}

func newSpyKV() *spyKV {
	return &spyKV{KV: NewMemoryKV()}
}

func (s *spyKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.gets++
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	return s.KV.Get(ctx, key)
}

func (s *spyKV) Put(ctx context.Context, key string, value []byte) error {
	s.puts++
	return s.KV.Put(ctx, key, value)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	u := testutil.NewUniverse()

	if err := Save(ctx, kv, WorkspacesKey, u.Graph); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := Load[*types.Graph](ctx, kv, WorkspacesKey, nil)

	if diff := cmp.Diff(u.Graph, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLoad_FlowsRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	flows := []types.AutomationFlow{testutil.Template()}
	// JSON numbers come back as float64
	flows[0].Nodes[1].Config = map[string]any{"delayHours": float64(24)}

	if err := Save(ctx, kv, FlowsKey, flows); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := Load(ctx, kv, FlowsKey, []types.AutomationFlow{})
	if diff := cmp.Diff(flows, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_NeverSavedReturnsDefaultWithoutWriting(t *testing.T) {
	ctx := context.Background()
	spy := newSpyKV()
	def := &types.BrandVoice{Name: "Default"}

	got := Load(ctx, spy, BrandVoiceKey, def)

	if got != def {
		t.Error("expected the default by reference")
	}
	if spy.puts != 0 {
		t.Errorf("Load wrote %d times", spy.puts)
	}
}

func TestLoad_FailuresFallBackToDefault(t *testing.T) {
	ctx := context.Background()
	def := []types.Contact{{ID: "c-default"}}

	t.Run("unparseable value", func(t *testing.T) {
		spy := newSpyKV()
		_ = spy.KV.Put(ctx, ContactsKey.String(), []byte("{not json"))

		got := Load(ctx, spy, ContactsKey, def)
		if diff := cmp.Diff(def, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
		if spy.puts != 0 {
			t.Error("Load should not repair the stored value")
		}
	})

	t.Run("read error", func(t *testing.T) {
		spy := newSpyKV()
		spy.getErr = errors.New("connection reset")

		got := Load(ctx, spy, ContactsKey, def)
		if diff := cmp.Diff(def, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSave_OverwritesWithoutMerging(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_ = Save(ctx, kv, CampaignsKey, []types.Campaign{{ID: "a"}, {ID: "b"}})
	_ = Save(ctx, kv, CampaignsKey, []types.Campaign{{ID: "c"}})

	got := Load(ctx, kv, CampaignsKey, []types.Campaign(nil))
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("expected only the last saved value, got %+v", got)
	}
}

func TestCollection(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	contacts := NewCollection(kv, ContactsKey, func() []types.Contact { return []types.Contact{} })

	if got := contacts.Load(ctx); got == nil || len(got) != 0 {
		t.Errorf("expected an empty default, got %#v", got)
	}
	if ok, _ := contacts.Exists(ctx); ok {
		t.Error("nothing saved yet")
	}

	want := []types.Contact{{ID: "c1", Name: "Ada", Email: "ada@example.com"}}
	if err := contacts.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if diff := cmp.Diff(want, contacts.Load(ctx)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if contacts.Key() != ContactsKey {
		t.Errorf("Key = %v", contacts.Key())
	}
}

func TestKeys(t *testing.T) {
	if got := WorkspacesKey.String(); got != "nanoboard_workspaces_v2" {
		t.Errorf("String = %q", got)
	}

	for _, k := range RegisteredKeys() {
		parsed, err := ParseKey(k.String())
		if err != nil {
			t.Errorf("ParseKey(%q): %v", k, err)
			continue
		}
		if parsed != k {
			t.Errorf("ParseKey(%q) = %+v", k, parsed)
		}
	}

	for _, bad := range []string{"workspaces_v2", "nanoboard_workspaces", "nanoboard_x_v0", "nanoboard_x_vy"} {
		if _, err := ParseKey(bad); err == nil {
			t.Errorf("ParseKey(%q) should fail", bad)
		}
	}

	if k, ok := LookupKey("automation_flows"); !ok || k.Version != 2 {
		t.Errorf("LookupKey = %+v, %v", k, ok)
	}
	if FlowsKey.AtVersion(1).String() != "nanoboard_automation_flows_v1" {
		t.Error("AtVersion rendered the wrong key")
	}
}

package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/arthur-debert/nanoboard/nanoboard/graph"
	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/nanoboard/query"
	"github.com/arthur-debert/nanoboard/nanoboard/storage"
	"github.com/arthur-debert/nanoboard/search"
	"github.com/arthur-debert/nanoboard/testutil"
	"github.com/arthur-debert/nanoboard/types"
	"github.com/google/go-cmp/cmp"
)

// failingKV accepts reads but rejects every write once armed
type failingKV struct {
	storage.KV
	failPuts bool
}

func (f *failingKV) Put(ctx context.Context, key string, value []byte) error {
	if f.failPuts {
		return errors.New("disk full")
	}
	return f.KV.Put(ctx, key, value)
}

func openTest(t *testing.T, kv storage.KV) *Service {
	t.Helper()
	s, err := Open(context.Background(), kv,
		WithClock(testutil.NewClock(testutil.Epoch).Now),
		WithIDGenerator(&ids.Sequence{}),
	)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func seededKV(t *testing.T) (storage.KV, *testutil.Universe) {
	t.Helper()
	u := testutil.NewUniverse()
	kv := storage.NewMemoryKV()
	if err := storage.Save(context.Background(), kv, storage.WorkspacesKey, u.Graph); err != nil {
		t.Fatal(err)
	}
	return kv, u
}

func TestOpen_EmptyStoreSeedsWithoutWriting(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := openTest(t, kv)

	g := s.Graph()
	if len(g.Workspaces) != 1 || g.Workspaces[0].Name != DefaultWorkspaceName || g.Workspaces[0].ID != DefaultWorkspaceID {
		t.Fatalf("unexpected seed %+v", g.Workspaces)
	}
	if len(s.Flows()) != 0 {
		t.Errorf("expected no flows, got %d", len(s.Flows()))
	}
	keys, _ := kv.Keys(context.Background())
	if len(keys) != 0 {
		t.Errorf("Open wrote %v", keys)
	}
}

func TestOpen_DefaultWorkspaceIDIsStable(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	first := openTest(t, kv)
	second := openTest(t, kv)

	id := first.Graph().Workspaces[0].ID
	if second.Graph().Workspaces[0].ID != id {
		t.Fatalf("default workspace id changed between loads: %q, %q", id, second.Graph().Workspaces[0].ID)
	}
	if _, err := second.AddBoard(ctx, id, "Launch", ""); err != nil {
		t.Fatalf("AddBoard on the listed workspace: %v", err)
	}
	if err := first.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if ws := first.Graph().Workspaces; len(ws) != 1 || ws[0].ID != id || len(ws[0].Boards) != 1 {
		t.Errorf("unexpected workspaces after save %+v", ws)
	}
}

const legacyWorkspaces = `{"workspaces": [{"id": "ws-old", "name": "Main", "boards": [
  {"id": "b-1", "name": "Launch", "description": "", "groups": [
    {"id": "g-1", "name": "To Do", "color": "#579bfc", "items": [
      {"id": "i-1", "name": "Copy", "owner": "u-1", "status": "in_progress", "priority": "High",
       "lastUpdated": "2025-03-01T09:00:00Z", "description": "", "comments": [], "subtasks": []}]}]}]}]}`

func TestOpen_MigratesOlderVersions(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	_ = kv.Put(ctx, storage.WorkspacesKey.AtVersion(1).String(), []byte(legacyWorkspaces))
	_ = kv.Put(ctx, storage.FlowsKey.AtVersion(1).String(), []byte(`[{"id": "f-1", "name": "Welcome", "nodes": []}]`))

	s := openTest(t, kv)
	b, err := s.Board("b-1")
	if err != nil {
		t.Fatalf("legacy board not visible after open: %v", err)
	}
	it := b.Groups[0].Items[0]
	if it.OwnerID != "u-1" || it.Status != types.StatusWorking {
		t.Errorf("item not migrated: %+v", it)
	}
	if flows := s.Flows(); len(flows) != 1 || flows[0].Status != types.FlowDraft {
		t.Errorf("flows not migrated: %+v", flows)
	}

	if _, err := s.AddWorkspace(ctx, "Side Projects"); err != nil {
		t.Fatalf("AddWorkspace: %v", err)
	}
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, err := s.Board("b-1"); err != nil {
		t.Errorf("legacy board lost after a save: %v", err)
	}
	if len(s.Graph().Workspaces) != 2 {
		t.Errorf("expected 2 workspaces, got %d", len(s.Graph().Workspaces))
	}
	if _, ok, _ := kv.Get(ctx, storage.WorkspacesKey.AtVersion(1).String()); !ok {
		t.Error("older key was deleted")
	}
}

func TestOpen_FailedMigration(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	_ = kv.Put(ctx, storage.WorkspacesKey.AtVersion(1).String(), []byte(`{"workspaces": [`))

	if _, err := Open(ctx, kv); err == nil {
		t.Fatal("expected an error")
	}
	if _, ok, _ := kv.Get(ctx, storage.WorkspacesKey.String()); ok {
		t.Error("current key written despite the failure")
	}
}

func TestOpen_CorruptValueFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	_ = kv.Put(ctx, storage.WorkspacesKey.String(), []byte(`{"workspaces": [`))

	s := openTest(t, kv)
	if s.Graph().Workspaces[0].Name != DefaultWorkspaceName {
		t.Error("expected the default graph")
	}
	raw, _, _ := kv.Get(ctx, storage.WorkspacesKey.String())
	if string(raw) != `{"workspaces": [` {
		t.Error("corrupt value was overwritten on load")
	}
}

func TestOpen_NilStore(t *testing.T) {
	if _, err := Open(context.Background(), nil); err == nil {
		t.Error("expected an error")
	}
}

func TestMutationsPersist(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := openTest(t, kv)
	wsID := s.Graph().Workspaces[0].ID

	board, err := s.AddBoard(ctx, wsID, "Launch", "Spring")
	if err != nil {
		t.Fatalf("AddBoard: %v", err)
	}
	group, err := s.AddGroup(ctx, board.ID, "To Do", "")
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	item, err := s.AddItem(ctx, board.ID, group.ID, "Write brief")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	ref := graph.ItemRef{BoardID: board.ID, GroupID: group.ID, ItemID: item.ID}
	if _, err := s.AddComment(ctx, ref, "On it", "Dana", "u-dana"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if _, err := s.AddSubtask(ctx, ref, "Outline"); err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}

	reopened := openTest(t, kv)
	if diff := cmp.Diff(s.Graph(), reopened.Graph()); diff != "" {
		t.Errorf("reloaded graph differs (-saved +loaded):\n%s", diff)
	}
	got, ok := graph.FindItem(reopened.Graph(), board.ID, group.ID, item.ID)
	if !ok || len(got.Comments) != 1 || len(got.Subtasks) != 1 {
		t.Errorf("unexpected reloaded item %+v", got)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	kv, u := seededKV(t)
	s := openTest(t, kv)
	before, _, _ := kv.Get(ctx, storage.WorkspacesKey.String())
	status := types.StatusDone

	tests := []struct {
		name string
		id   string
		op   func() error
	}{
		{"update unknown item", "item-404", func() error {
			return s.UpdateItem(ctx, graph.ItemRef{BoardID: u.Marketing.ID, GroupID: u.Backlog.ID, ItemID: "item-404"},
				graph.ItemPatch{Status: &status})
		}},
		{"move to unknown group", u.LaunchEmail.ID, func() error {
			return s.MoveItem(ctx, u.Marketing.ID, u.Backlog.ID, "group-404", u.LaunchEmail.ID)
		}},
		{"delete unknown board", "board-404", func() error { return s.DeleteBoard(ctx, "board-404") }},
		{"add board to unknown workspace", "ws-404", func() error {
			_, err := s.AddBoard(ctx, "ws-404", "x", "")
			return err
		}},
		{"like unknown comment", "comment-404", func() error {
			return s.ToggleCommentLike(ctx, graph.ItemRef{BoardID: u.Marketing.ID, GroupID: u.Active.ID, ItemID: u.SocialCopy.ID}, "comment-404", "u-1")
		}},
		{"unknown board read", "board-404", func() error {
			_, err := s.Board("board-404")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.id) {
				t.Errorf("error %q does not name %s", err, tt.id)
			}
		})
	}

	after, _, _ := kv.Get(ctx, storage.WorkspacesKey.String())
	if string(before) != string(after) {
		t.Error("a failed lookup wrote to the store")
	}
}

func TestEmptyPatchesAreNoOps(t *testing.T) {
	kv, u := seededKV(t)
	s := openTest(t, kv)
	before := s.Graph()

	if err := s.UpdateBoard(context.Background(), u.Marketing.ID, graph.BoardPatch{}); err != nil {
		t.Errorf("UpdateBoard: %v", err)
	}
	if err := s.UpdateGroup(context.Background(), u.Marketing.ID, "group-404", graph.GroupPatch{}); err != nil {
		t.Errorf("UpdateGroup: %v", err)
	}
	if s.Graph() != before {
		t.Error("empty patch replaced the graph")
	}
}

func TestSaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	inner, u := seededKV(t)
	kv := &failingKV{KV: inner}
	s := openTest(t, kv)
	before := s.Graph()

	kv.failPuts = true
	err := s.MoveItem(ctx, u.Marketing.ID, u.Backlog.ID, u.Archive.ID, u.LaunchEmail.ID)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a storage error, got %v", err)
	}
	if s.Graph() != before {
		t.Error("state advanced despite the failed save")
	}

	kv.failPuts = false
	if err := s.MoveItem(ctx, u.Marketing.ID, u.Backlog.ID, u.Archive.ID, u.LaunchEmail.ID); err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	archive, _ := graph.FindGroup(s.Graph(), u.Marketing.ID, u.Archive.ID)
	if len(archive.Items) != 2 || archive.Items[1].ID != u.LaunchEmail.ID {
		t.Errorf("unexpected archive %+v", archive.Items)
	}
}

func TestReads(t *testing.T) {
	kv, u := seededKV(t)
	s := openTest(t, kv)

	filtered, err := s.FilteredBoard(u.Marketing.ID, query.NewFilter("email", nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	// search drops groups left empty
	if len(filtered.Groups) != 2 || query.CountItems(filtered.Groups) != 2 {
		t.Errorf("unexpected filtered board %+v", filtered.Groups)
	}

	sum, err := s.Summary(u.Marketing.ID)
	if err != nil || sum.Total != 5 || sum.ByStatus[types.StatusWorking] != 2 {
		t.Errorf("Summary = %+v, %v", sum, err)
	}

	results, err := s.Search(search.Options{Query: "invoices"})
	if err != nil || len(results) != 1 || results[0].BoardID != u.Ops.ID {
		t.Errorf("Search = %+v, %v", results, err)
	}
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	kv, u := seededKV(t)
	s := openTest(t, kv)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddItem(ctx, u.Ops.ID, u.OpsQueue.ID, "task"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("AddItem: %v", err)
	}

	queue, _ := graph.FindGroup(openTest(t, kv).Graph(), u.Ops.ID, u.OpsQueue.ID)
	if len(queue.Items) != n+1 {
		t.Errorf("expected %d items after reload, got %d", n+1, len(queue.Items))
	}
}

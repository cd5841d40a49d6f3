package graph

import (
	"testing"

	"github.com/arthur-debert/nanoboard/testutil"
	"github.com/arthur-debert/nanoboard/types"
)

func TestAddComment(t *testing.T) {
	m := newTestMutator()
	u := testutil.NewUniverse()
	ref := ItemRef{u.Marketing.ID, u.Backlog.ID, u.LaunchEmail.ID}

	out, c := m.AddComment(u.Graph, ref, "Draft is in the doc", "Sam", "u-sam")
	if c == nil {
		t.Fatal("expected a comment")
	}
	it, _ := FindItem(out, ref.BoardID, ref.GroupID, ref.ItemID)
	if len(it.Comments) != 1 || it.Comments[0] != c {
		t.Fatalf("comment not appended")
	}
	if c.AuthorName != "Sam" || c.AuthorID != "u-sam" || len(c.LikedBy) != 0 {
		t.Errorf("unexpected comment %+v", c)
	}
	if !it.LastUpdated.After(u.LaunchEmail.LastUpdated) {
		t.Error("item lastUpdated not refreshed")
	}

	if same, nc := m.AddComment(u.Graph, ItemRef{u.Marketing.ID, u.Backlog.ID, "nope"}, "x", "", ""); same != u.Graph || nc != nil {
		t.Error("unknown item should be a no-op")
	}
}

func TestToggleCommentLike(t *testing.T) {
	m := newTestMutator()
	u := testutil.NewUniverse()
	ref := ItemRef{u.Marketing.ID, u.Active.ID, u.SocialCopy.ID}

	liked := m.ToggleCommentLike(u.Graph, ref, "comment-1", "u-kim")
	it, _ := FindItem(liked, ref.BoardID, ref.GroupID, ref.ItemID)
	if !it.Comments[0].IsLikedBy("u-kim") {
		t.Fatal("expected like")
	}
	if u.SocialCopy.Comments[0].IsLikedBy("u-kim") {
		t.Error("input comment was mutated")
	}

	unliked := m.ToggleCommentLike(liked, ref, "comment-1", "u-kim")
	it, _ = FindItem(unliked, ref.BoardID, ref.GroupID, ref.ItemID)
	if it.Comments[0].IsLikedBy("u-kim") {
		t.Error("expected like to be removed")
	}
	if it.Comments[0].Text != "Needs an email teaser too" {
		t.Error("comment text changed")
	}

	if m.ToggleCommentLike(u.Graph, ref, "missing", "u-kim") != u.Graph {
		t.Error("unknown comment should be a no-op")
	}
}

func TestSubtaskLifecycle(t *testing.T) {
	m := newTestMutator()
	u := testutil.NewUniverse()
	ref := ItemRef{u.Ops.ID, u.OpsQueue.ID, u.Invoices.ID}

	g, s := m.AddSubtask(u.Graph, ref, "Collect receipts")
	if s == nil || s.Status != types.StatusNotStarted {
		t.Fatalf("unexpected subtask %+v", s)
	}

	g = m.UpdateSubtask(g, ref, s.ID, SubtaskPatch{Status: Ptr(types.StatusDone), OwnerID: Ptr("u-1")})
	it, _ := FindItem(g, ref.BoardID, ref.GroupID, ref.ItemID)
	if it.Subtasks[0].Status != types.StatusDone || it.Subtasks[0].OwnerID != "u-1" {
		t.Errorf("subtask not updated: %+v", it.Subtasks[0])
	}
	if s.Status != types.StatusNotStarted {
		t.Error("earlier subtask value was mutated")
	}

	if m.UpdateSubtask(g, ref, "missing", SubtaskPatch{Name: Ptr("x")}) != g {
		t.Error("unknown subtask update should be a no-op")
	}

	g = m.DeleteSubtask(g, ref, s.ID)
	it, _ = FindItem(g, ref.BoardID, ref.GroupID, ref.ItemID)
	if len(it.Subtasks) != 0 {
		t.Errorf("expected no subtasks, got %d", len(it.Subtasks))
	}
}

package query

import (
	"testing"
	"time"

	"github.com/arthur-debert/nanoboard/testutil"
	"github.com/arthur-debert/nanoboard/types"
	"github.com/google/go-cmp/cmp"
)

func names(groups []*types.Group) map[string][]string {
	out := make(map[string][]string, len(groups))
	for _, g := range groups {
		items := []string{}
		for _, it := range g.Items {
			items = append(items, it.Name)
		}
		out[g.Name] = items
	}
	return out
}

func groupNames(groups []*types.Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

func TestFilterGroups_EmptyFilterReturnsEverything(t *testing.T) {
	u := testutil.NewUniverse()
	groups := u.Marketing.Groups

	got := FilterGroups(groups, Filter{})

	if len(got) != len(groups) {
		t.Fatalf("got %d groups, want %d", len(got), len(groups))
	}
	for i := range groups {
		if got[i] != groups[i] {
			t.Errorf("group %d was copied, want the input group", i)
		}
	}
}

func TestFilterGroups_SearchDropsEmptyGroups(t *testing.T) {
	u := testutil.NewUniverse()

	got := FilterGroups(u.Marketing.Groups, Filter{Search: "xyz-no-match"})
	if len(got) != 0 {
		t.Errorf("expected no groups, got %v", groupNames(got))
	}

	got = FilterGroups(u.Marketing.Groups, Filter{Search: "EMAIL"})
	want := map[string][]string{
		"Backlog":   {"Launch email"},
		"In Flight": {"Email sequence"},
	}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Backlog", "In Flight"}, groupNames(got)); diff != "" {
		t.Errorf("group order (-want +got):\n%s", diff)
	}
}

func TestFilterGroups_StatusKeepsEmptyGroupsWithoutSearch(t *testing.T) {
	u := testutil.NewUniverse()

	got := FilterGroups(u.Marketing.Groups, NewFilter("", []types.Status{types.StatusDone}, nil))

	want := map[string][]string{
		"Backlog":   {},
		"In Flight": {},
		"Archive":   {"Press release"},
	}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got[2] != u.Archive {
		t.Error("fully matching group should be shared with the input")
	}
}

func TestFilterGroups_Combined(t *testing.T) {
	u := testutil.NewUniverse()

	tests := []struct {
		name   string
		filter Filter
		want   map[string][]string
	}{
		{
			name:   "priority only",
			filter: NewFilter("", nil, []types.Priority{types.PriorityCritical, types.PriorityHigh}),
			want: map[string][]string{
				"Backlog":   {"Launch email"},
				"In Flight": {"Social copy"},
				"Archive":   {},
			},
		},
		{
			name:   "search and status",
			filter: NewFilter("e", []types.Status{types.StatusWorking}, nil),
			want: map[string][]string{
				"In Flight": {"Email sequence"},
			},
		},
		{
			name:   "search does not look at descriptions",
			filter: Filter{Search: "newsletter"},
			want:   map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterGroups(u.Marketing.Groups, tt.filter)
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterGroups_DoesNotMutateInput(t *testing.T) {
	u := testutil.NewUniverse()
	before := u.Graph.Clone()

	FilterGroups(u.Marketing.Groups, NewFilter("s", []types.Status{types.StatusStuck}, nil))

	if diff := cmp.Diff(before, u.Graph); diff != "" {
		t.Errorf("input changed (-want +got):\n%s", diff)
	}
}

func TestSortGroups(t *testing.T) {
	u := testutil.NewUniverse()

	order, err := ParseOrder([]string{"-priority", "name"})
	if err != nil {
		t.Fatalf("ParseOrder: %v", err)
	}
	got := SortGroups(u.Marketing.Groups, order)

	want := map[string][]string{
		"Backlog":   {"Launch email", "Blog refresh"},
		"In Flight": {"Social copy", "Email sequence"},
		"Archive":   {"Press release"},
	}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseOrder([]string{"color"}); err == nil {
		t.Error("expected an error for an unknown field")
	}
}

func TestSummarize(t *testing.T) {
	u := testutil.NewUniverse()
	past := testutil.Epoch.Add(-24 * time.Hour)
	u.BlogRefresh.DueDate = &past
	u.PressRelease.DueDate = &past

	s := Summarize(u.Marketing, testutil.Epoch)

	if s.Total != 5 {
		t.Errorf("total = %d, want 5", s.Total)
	}
	if s.ByStatus[types.StatusWorking] != 2 || s.ByStatus[types.StatusDone] != 1 {
		t.Errorf("unexpected status counts %v", s.ByStatus)
	}
	if s.ByPriority[types.PriorityMedium] != 2 {
		t.Errorf("unexpected priority counts %v", s.ByPriority)
	}
	if got := s.DoneRatio(); got != 0.2 {
		t.Errorf("done ratio = %v, want 0.2", got)
	}
	if len(s.Overdue) != 1 || s.Overdue[0] != u.BlogRefresh {
		t.Errorf("overdue = %v, want only the blog refresh", s.Overdue)
	}

	if empty := Summarize(nil, testutil.Epoch); empty.Total != 0 || empty.DoneRatio() != 0 {
		t.Error("nil board should summarize to zero")
	}
}

func TestKanban(t *testing.T) {
	u := testutil.NewUniverse()

	lanes := Kanban(u.Marketing)

	if len(lanes) != 4 {
		t.Fatalf("expected 4 lanes, got %d", len(lanes))
	}
	got := map[types.Status]int{}
	for i, lane := range lanes {
		if lane.Status != types.AllStatuses()[i] {
			t.Errorf("lane %d status = %q", i, lane.Status)
		}
		got[lane.Status] = len(lane.Items)
	}
	want := map[types.Status]int{
		types.StatusNotStarted: 1,
		types.StatusWorking:    2,
		types.StatusDone:       1,
		types.StatusStuck:      1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lane sizes (-want +got):\n%s", diff)
	}
	if lanes[1].Items[0] != u.SocialCopy {
		t.Error("lane items should keep board order")
	}
}

package search

import (
	"github.com/arthur-debert/nanoboard/testutil"
	"github.com/arthur-debert/nanoboard/types"
)

// MockItemProvider implements ItemProvider for testing
type MockItemProvider struct {
	entries []Entry
	err     error
}

// NewMockItemProvider creates a new mock with the given entries
func NewMockItemProvider(entries []Entry) *MockItemProvider {
	return &MockItemProvider{
		entries: entries,
	}
}

// SetError configures the mock to return an error
func (m *MockItemProvider) SetError(err error) {
	m.err = err
}

// Items returns the mock entries or error
func (m *MockItemProvider) Items() ([]Entry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

// SampleEntries provides the multi-board fixture as search entries, with an
// owner and a subtask added so every field has something to match
func SampleEntries() []Entry {
	u := testutil.NewUniverse()
	u.Invoices.OwnerID = "u-finance"
	u.BlogRefresh.Subtasks = []*types.Subtask{{ID: "sub-1", Name: "Email the editor", Status: types.StatusNotStarted}}

	entries, _ := NewGraphProvider(u.Graph).Items()
	return entries
}

func names(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Item.Name
	}
	return out
}

package flow

import "github.com/arthur-debert/nanoboard/types"

// Upsert replaces the flow with f's id, or appends f when there is none.
// The input list is never modified.
func Upsert(flows []types.AutomationFlow, f types.AutomationFlow) []types.AutomationFlow {
	out := make([]types.AutomationFlow, len(flows), len(flows)+1)
	copy(out, flows)
	for i := range out {
		if out[i].ID == f.ID {
			out[i] = f
			return out
		}
	}
	return append(out, f)
}

// Delete removes the flow with the given id
func Delete(flows []types.AutomationFlow, id string) ([]types.AutomationFlow, bool) {
	for i, f := range flows {
		if f.ID != id {
			continue
		}
		out := make([]types.AutomationFlow, 0, len(flows)-1)
		out = append(out, flows[:i]...)
		return append(out, flows[i+1:]...), true
	}
	return flows, false
}

// Find returns the flow with the given id
func Find(flows []types.AutomationFlow, id string) (types.AutomationFlow, bool) {
	for _, f := range flows {
		if f.ID == id {
			return f, true
		}
	}
	return types.AutomationFlow{}, false
}

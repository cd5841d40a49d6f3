package workspace

import (
	"context"

	"github.com/arthur-debert/nanoboard/nanoboard/flow"
	"github.com/arthur-debert/nanoboard/nanoboard/storage"
	"github.com/arthur-debert/nanoboard/types"
)

// Flows returns a copy of the flow list
func (s *Service) Flows() []types.AutomationFlow {
	return storage.Read(s.lm, func() []types.AutomationFlow {
		out := make([]types.AutomationFlow, len(s.flowList))
		for i, f := range s.flowList {
			out[i] = f.Clone()
		}
		return out
	})
}

// Flow returns one flow
func (s *Service) Flow(flowID string) (types.AutomationFlow, error) {
	var out types.AutomationFlow
	err := s.lm.Execute(storage.ReadOperation, func() error {
		f, ok := flow.Find(s.flowList, flowID)
		if !ok {
			return notFound("flow", flowID)
		}
		out = f.Clone()
		return nil
	})
	return out, err
}

// commitFlows saves a new flow list and adopts it. Callers hold the write
// lock.
func (s *Service) commitFlows(ctx context.Context, op, flowID string, flows []types.AutomationFlow) error {
	if err := s.flows.Save(ctx, flows); err != nil {
		s.logger.Warn("failed to save flows", "op", op, "error", err)
		return err
	}
	s.flowList = flows
	s.logger.Debug("applied flow change", "op", op, "flow", flowID)
	return nil
}

// editFlow applies fn to one flow. fn reports false when its own target,
// named by kind and id, is missing.
func (s *Service) editFlow(ctx context.Context, op, flowID, kind, id string, fn func(types.AutomationFlow) (types.AutomationFlow, bool, error)) error {
	return s.lm.Execute(storage.WriteOperation, func() error {
		f, ok := flow.Find(s.flowList, flowID)
		if !ok {
			return notFound("flow", flowID)
		}
		out, ok, err := fn(f)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(kind, id)
		}
		return s.commitFlows(ctx, op, flowID, flow.Upsert(s.flowList, out))
	})
}

// SaveFlow inserts or replaces a flow as-is, after validating it
func (s *Service) SaveFlow(ctx context.Context, f types.AutomationFlow) error {
	if err := flow.Validate(f); err != nil {
		return err
	}
	f = f.Clone()
	return s.lm.Execute(storage.WriteOperation, func() error {
		return s.commitFlows(ctx, "save_flow", f.ID, flow.Upsert(s.flowList, f))
	})
}

// CreateFlow adds an empty Draft flow
func (s *Service) CreateFlow(ctx context.Context, name string) (types.AutomationFlow, error) {
	f := s.editor.NewFlow(name)
	if err := s.SaveFlow(ctx, f); err != nil {
		return types.AutomationFlow{}, err
	}
	return f, nil
}

// InstantiateTemplate adds an editable Draft copy of a template
func (s *Service) InstantiateTemplate(ctx context.Context, tpl types.AutomationFlow) (types.AutomationFlow, error) {
	f := s.editor.InstantiateTemplate(tpl)
	if err := s.SaveFlow(ctx, f); err != nil {
		return types.AutomationFlow{}, err
	}
	return f, nil
}

// DeleteFlow removes a flow
func (s *Service) DeleteFlow(ctx context.Context, flowID string) error {
	return s.lm.Execute(storage.WriteOperation, func() error {
		out, ok := flow.Delete(s.flowList, flowID)
		if !ok {
			return notFound("flow", flowID)
		}
		return s.commitFlows(ctx, "delete_flow", flowID, out)
	})
}

// AppendNode adds a marketplace node to the end of a flow
func (s *Service) AppendNode(ctx context.Context, flowID string, tpl types.NodeTemplate) (types.AutomationNode, error) {
	var node types.AutomationNode
	err := s.editFlow(ctx, "append_node", flowID, "flow", flowID, func(f types.AutomationFlow) (types.AutomationFlow, bool, error) {
		out, n := s.editor.AppendNode(f, tpl)
		node = n
		return out, true, nil
	})
	return node, err
}

// RemoveNode drops a node from a flow
func (s *Service) RemoveNode(ctx context.Context, flowID, nodeID string) error {
	err := s.editFlow(ctx, "remove_node", flowID, "node", nodeID, func(f types.AutomationFlow) (types.AutomationFlow, bool, error) {
		out, ok := s.editor.RemoveNode(f, nodeID)
		return out, ok, nil
	})
	return err
}

// MoveNode moves a node to a new position
func (s *Service) MoveNode(ctx context.Context, flowID, nodeID string, index int) error {
	err := s.editFlow(ctx, "move_node", flowID, "node", nodeID, func(f types.AutomationFlow) (types.AutomationFlow, bool, error) {
		out, ok := s.editor.MoveNode(f, nodeID, index)
		return out, ok, nil
	})
	return err
}

// UpdateNode applies a patch to a node
func (s *Service) UpdateNode(ctx context.Context, flowID, nodeID string, patch flow.NodePatch) error {
	err := s.editFlow(ctx, "update_node", flowID, "node", nodeID, func(f types.AutomationFlow) (types.AutomationFlow, bool, error) {
		out, ok := s.editor.UpdateNode(f, nodeID, patch)
		return out, ok, nil
	})
	return err
}

// SetFlowStatus changes a flow's editorial status
func (s *Service) SetFlowStatus(ctx context.Context, flowID string, status types.FlowStatus) error {
	err := s.editFlow(ctx, "set_flow_status", flowID, "flow", flowID, func(f types.AutomationFlow) (types.AutomationFlow, bool, error) {
		out, err := s.editor.SetStatus(f, status)
		return out, true, err
	})
	return err
}

// AttachMaterial adds a reference asset to a node
func (s *Service) AttachMaterial(ctx context.Context, flowID, nodeID string, m types.WorkflowMaterial) (types.WorkflowMaterial, error) {
	var attached types.WorkflowMaterial
	err := s.editFlow(ctx, "attach_material", flowID, "node", nodeID, func(f types.AutomationFlow) (types.AutomationFlow, bool, error) {
		out, mat, ok := s.editor.AttachMaterial(f, nodeID, m)
		attached = mat
		return out, ok, nil
	})
	return attached, err
}

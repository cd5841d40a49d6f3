// Package workspace holds the live board graph and flow list of one user.
//
// A Service loads both collections once, applies the pure mutation
// functions from the graph and flow packages, and saves the whole
// collection after every change. Unlike the pure layer, which answers a
// missing target by returning its input, the service reports ErrNotFound.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arthur-debert/nanoboard/nanoboard/flow"
	"github.com/arthur-debert/nanoboard/nanoboard/graph"
	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/nanoboard/migration"
	"github.com/arthur-debert/nanoboard/nanoboard/query"
	"github.com/arthur-debert/nanoboard/nanoboard/storage"
	"github.com/arthur-debert/nanoboard/search"
	"github.com/arthur-debert/nanoboard/types"
)

// ErrNotFound is returned, wrapped with the missing id, when a mutation's
// target does not exist
var ErrNotFound = errors.New("not found")

// The workspace seeded into an empty store. Its id is fixed so that it
// survives reloads before anything is saved.
const (
	DefaultWorkspaceID   = "ws-main"
	DefaultWorkspaceName = "Main Workspace"
)

// Service is safe for concurrent use
type Service struct {
	lm     *storage.LockManager
	graphs *storage.Collection[*types.Graph]
	flows  *storage.Collection[[]types.AutomationFlow]

	mut    *graph.Mutator
	editor *flow.Editor
	ids    ids.Generator
	now    func() time.Time
	logger *slog.Logger

	graph    *types.Graph
	flowList []types.AutomationFlow
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock sets the time source for mutation stamps
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// WithIDGenerator sets the generator for new entities
func WithIDGenerator(gen ids.Generator) Option {
	return func(s *Service) { s.ids = gen }
}

// DefaultGraph is the graph of a fresh store: one empty workspace
func DefaultGraph() *types.Graph {
	return &types.Graph{Workspaces: []*types.Workspace{{
		ID:     DefaultWorkspaceID,
		Name:   DefaultWorkspaceName,
		Boards: []*types.Board{},
	}}}
}

// Open loads the graph and flows from kv. Collections stored only under an
// older schema version are migrated first. Otherwise missing or unreadable
// values fall back to the defaults and nothing is written until the first
// mutation.
func Open(ctx context.Context, kv storage.KV, opts ...Option) (*Service, error) {
	if kv == nil {
		return nil, errors.New("workspace: nil store")
	}
	s := &Service{
		lm:     storage.NewLockManager(),
		ids:    ids.Default,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mut = graph.New(graph.WithClock(s.now), graph.WithIDGenerator(s.ids))
	s.editor = flow.New(flow.WithIDGenerator(s.ids))
	s.graphs = storage.NewCollection(kv, storage.WorkspacesKey, DefaultGraph).WithLogger(s.logger)
	s.flows = storage.NewCollection(kv, storage.FlowsKey, func() []types.AutomationFlow {
		return []types.AutomationFlow{}
	}).WithLogger(s.logger)

	if err := migrate(ctx, kv, s.logger); err != nil {
		return nil, err
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload discards the in-memory state and reads both collections again
func (s *Service) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.lm.Execute(storage.WriteOperation, func() error {
		g := s.graphs.Load(ctx)
		if g == nil || len(g.Workspaces) == 0 {
			g = DefaultGraph()
		}
		flows := s.flows.Load(ctx)
		if flows == nil {
			flows = []types.AutomationFlow{}
		}
		s.graph, s.flowList = g, flows
		s.logger.Debug("loaded workspace state", "workspaces", len(g.Workspaces), "flows", len(flows))
		return nil
	})
}

// migrate upgrades collections that have no current-version key yet.
// Saving over a pending migration would hide the older data for good, so a
// failed migration fails Open.
func migrate(ctx context.Context, kv storage.KV, logger *slog.Logger) error {
	m := migration.NewMigrator().WithLogger(logger)
	for _, key := range []storage.Key{storage.WorkspacesKey, storage.FlowsKey} {
		r, err := m.Run(ctx, kv, key, migration.Options{})
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", key.Name, err)
		}
		if err := r.Err(); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", key.Name, err)
		}
	}
	return nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// mutate applies fn to the graph and saves the result. fn returning its
// input means the target was missing. State only advances once the save
// succeeded.
func (s *Service) mutate(ctx context.Context, op, kind, id string, fn func(*types.Graph) *types.Graph) error {
	return s.lm.Execute(storage.WriteOperation, func() error {
		out := fn(s.graph)
		if out == s.graph {
			return notFound(kind, id)
		}
		if err := s.graphs.Save(ctx, out); err != nil {
			s.logger.Warn("failed to save workspaces", "op", op, "error", err)
			return err
		}
		s.graph = out
		s.logger.Debug("applied mutation", "op", op, kind, id)
		return nil
	})
}

// Graph returns the current graph. Callers must treat it as read-only.
func (s *Service) Graph() *types.Graph {
	return storage.Read(s.lm, func() *types.Graph { return s.graph })
}

// Board returns one board
func (s *Service) Board(boardID string) (*types.Board, error) {
	b, ok := graph.FindBoard(s.Graph(), boardID)
	if !ok {
		return nil, notFound("board", boardID)
	}
	return b, nil
}

// FilteredBoard returns a board with its groups filtered
func (s *Service) FilteredBoard(boardID string, f query.Filter) (*types.Board, error) {
	b, err := s.Board(boardID)
	if err != nil {
		return nil, err
	}
	return query.FilterBoard(b, f), nil
}

// Summary counts a board's items by status and priority
func (s *Service) Summary(boardID string) (query.Summary, error) {
	b, err := s.Board(boardID)
	if err != nil {
		return query.Summary{}, err
	}
	return query.Summarize(b, s.now()), nil
}

// Search ranks items across every board
func (s *Service) Search(opts search.Options) ([]search.Result, error) {
	return search.SearchGraph(s.Graph(), opts)
}

// AddWorkspace appends an empty workspace
func (s *Service) AddWorkspace(ctx context.Context, name string) (*types.Workspace, error) {
	var ws *types.Workspace
	err := s.mutate(ctx, "add_workspace", "workspace", name, func(g *types.Graph) *types.Graph {
		out, w := s.mut.AddWorkspace(g, name)
		ws = w
		return out
	})
	return ws, err
}

// AddBoard appends an empty board to a workspace
func (s *Service) AddBoard(ctx context.Context, workspaceID, name, description string) (*types.Board, error) {
	var board *types.Board
	err := s.mutate(ctx, "add_board", "workspace", workspaceID, func(g *types.Graph) *types.Graph {
		out, b := s.mut.AddBoard(g, workspaceID, name, description)
		board = b
		return out
	})
	return board, err
}

// ImportBoard appends a fully built board, such as a generated one
func (s *Service) ImportBoard(ctx context.Context, workspaceID string, board *types.Board) error {
	if board == nil {
		return errors.New("workspace: nil board")
	}
	return s.mutate(ctx, "import_board", "workspace", workspaceID, func(g *types.Graph) *types.Graph {
		return s.mut.MergeBoard(g, workspaceID, board)
	})
}

// UpdateBoard renames or re-describes a board. An empty patch is a no-op.
func (s *Service) UpdateBoard(ctx context.Context, boardID string, patch graph.BoardPatch) error {
	if patch.Name == nil && patch.Description == nil {
		return nil
	}
	return s.mutate(ctx, "update_board", "board", boardID, func(g *types.Graph) *types.Graph {
		return s.mut.UpdateBoard(g, boardID, patch)
	})
}

// DeleteBoard removes a board and everything on it
func (s *Service) DeleteBoard(ctx context.Context, boardID string) error {
	return s.mutate(ctx, "delete_board", "board", boardID, func(g *types.Graph) *types.Graph {
		return s.mut.DeleteBoard(g, boardID)
	})
}

// AddGroup appends a group to a board
func (s *Service) AddGroup(ctx context.Context, boardID, name, color string) (*types.Group, error) {
	var group *types.Group
	err := s.mutate(ctx, "add_group", "board", boardID, func(g *types.Graph) *types.Graph {
		out, gr := s.mut.AddGroup(g, boardID, name, color)
		group = gr
		return out
	})
	return group, err
}

// UpdateGroup renames or recolors a group. An empty patch is a no-op.
func (s *Service) UpdateGroup(ctx context.Context, boardID, groupID string, patch graph.GroupPatch) error {
	if patch.Name == nil && patch.Color == nil {
		return nil
	}
	return s.mutate(ctx, "update_group", "group", groupID, func(g *types.Graph) *types.Graph {
		return s.mut.UpdateGroup(g, boardID, groupID, patch)
	})
}

// DeleteGroup removes a group and its items
func (s *Service) DeleteGroup(ctx context.Context, boardID, groupID string) error {
	return s.mutate(ctx, "delete_group", "group", groupID, func(g *types.Graph) *types.Graph {
		return s.mut.DeleteGroup(g, boardID, groupID)
	})
}

// AddItem appends a new item to a group
func (s *Service) AddItem(ctx context.Context, boardID, groupID, name string) (*types.Item, error) {
	var item *types.Item
	err := s.mutate(ctx, "add_item", "group", groupID, func(g *types.Graph) *types.Graph {
		out, it := s.mut.AddItem(g, boardID, groupID, name)
		item = it
		return out
	})
	return item, err
}

// UpdateItem merges a patch over an item
func (s *Service) UpdateItem(ctx context.Context, ref graph.ItemRef, patch graph.ItemPatch) error {
	return s.mutate(ctx, "update_item", "item", ref.ItemID, func(g *types.Graph) *types.Graph {
		return s.mut.UpdateItem(g, ref.BoardID, ref.GroupID, ref.ItemID, patch)
	})
}

// MoveItem moves an item to the end of another group on the same board
func (s *Service) MoveItem(ctx context.Context, boardID, sourceGroupID, targetGroupID, itemID string) error {
	return s.mutate(ctx, "move_item", "item", itemID, func(g *types.Graph) *types.Graph {
		return s.mut.MoveItem(g, boardID, sourceGroupID, targetGroupID, itemID)
	})
}

// DeleteItem removes an item
func (s *Service) DeleteItem(ctx context.Context, ref graph.ItemRef) error {
	return s.mutate(ctx, "delete_item", "item", ref.ItemID, func(g *types.Graph) *types.Graph {
		return s.mut.DeleteItem(g, ref.BoardID, ref.GroupID, ref.ItemID)
	})
}

// AddComment posts a comment on an item
func (s *Service) AddComment(ctx context.Context, ref graph.ItemRef, text, authorName, authorID string) (*types.Comment, error) {
	var comment *types.Comment
	err := s.mutate(ctx, "add_comment", "item", ref.ItemID, func(g *types.Graph) *types.Graph {
		out, c := s.mut.AddComment(g, ref, text, authorName, authorID)
		comment = c
		return out
	})
	return comment, err
}

// ToggleCommentLike likes or unlikes a comment for userID
func (s *Service) ToggleCommentLike(ctx context.Context, ref graph.ItemRef, commentID, userID string) error {
	return s.mutate(ctx, "toggle_like", "comment", commentID, func(g *types.Graph) *types.Graph {
		return s.mut.ToggleCommentLike(g, ref, commentID, userID)
	})
}

// AddSubtask appends a subtask to an item
func (s *Service) AddSubtask(ctx context.Context, ref graph.ItemRef, name string) (*types.Subtask, error) {
	var sub *types.Subtask
	err := s.mutate(ctx, "add_subtask", "item", ref.ItemID, func(g *types.Graph) *types.Graph {
		out, st := s.mut.AddSubtask(g, ref, name)
		sub = st
		return out
	})
	return sub, err
}

// UpdateSubtask merges a patch over a subtask
func (s *Service) UpdateSubtask(ctx context.Context, ref graph.ItemRef, subtaskID string, patch graph.SubtaskPatch) error {
	return s.mutate(ctx, "update_subtask", "subtask", subtaskID, func(g *types.Graph) *types.Graph {
		return s.mut.UpdateSubtask(g, ref, subtaskID, patch)
	})
}

// DeleteSubtask removes a subtask
func (s *Service) DeleteSubtask(ctx context.Context, ref graph.ItemRef, subtaskID string) error {
	return s.mutate(ctx, "delete_subtask", "subtask", subtaskID, func(g *types.Graph) *types.Graph {
		return s.mut.DeleteSubtask(g, ref, subtaskID)
	})
}

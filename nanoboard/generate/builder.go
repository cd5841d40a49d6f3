package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arthur-debert/nanoboard/nanoboard/flow"
	"github.com/arthur-debert/nanoboard/nanoboard/graph"
	"github.com/arthur-debert/nanoboard/nanoboard/ids"
	"github.com/arthur-debert/nanoboard/types"
)

// Builder asks a Generator for content and merges the decoded result
type Builder struct {
	gen    Generator
	ids    ids.Generator
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithIDGenerator sets the generator used for decoded entities
func WithIDGenerator(gen ids.Generator) Option {
	return func(b *Builder) { b.ids = gen }
}

// WithClock sets the time source for lastUpdated stamps
func WithClock(fn func() time.Time) Option {
	return func(b *Builder) { b.now = fn }
}

// WithLogger sets the logger that records provider failures
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a Builder over gen
func NewBuilder(gen Generator, opts ...Option) *Builder {
	b := &Builder{
		gen:    gen,
		ids:    ids.Default,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) mutator() *graph.Mutator {
	return graph.New(graph.WithClock(b.now), graph.WithIDGenerator(b.ids))
}

func (b *Builder) fail(op string, err error) error {
	b.logger.Warn("generation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

// Board generates a board from a brief and appends it to a workspace
func (b *Builder) Board(ctx context.Context, g *types.Graph, workspaceID, brief string) (*types.Graph, *types.Board, error) {
	if _, ok := graph.FindWorkspace(g, workspaceID); !ok {
		return g, nil, fmt.Errorf("workspace %q not found", workspaceID)
	}
	prompt := "Create a project board as JSON for: " + brief
	raw, err := b.gen.GenerateJSON(ctx, prompt, SchemaFor(&BoardDraft{}))
	if err != nil {
		return g, nil, b.fail("generate board", fmt.Errorf("%w: %v", ErrGeneration, err))
	}
	board, err := DecodeBoard(raw, b.ids, b.now())
	if err != nil {
		return g, nil, b.fail("generate board", err)
	}
	return b.mutator().MergeBoard(g, workspaceID, board), board, nil
}

// Flow generates a Draft automation flow from a brief
func (b *Builder) Flow(ctx context.Context, brief string) (types.AutomationFlow, error) {
	prompt := "Create a marketing automation flow as JSON for: " + brief
	raw, err := b.gen.GenerateJSON(ctx, prompt, SchemaFor(&FlowDraft{}))
	if err != nil {
		return types.AutomationFlow{}, b.fail("generate flow", fmt.Errorf("%w: %v", ErrGeneration, err))
	}
	f, err := DecodeFlow(raw, b.ids)
	if err != nil {
		return types.AutomationFlow{}, b.fail("generate flow", err)
	}
	return f, nil
}

// DescribeItem fills an item's description with generated text
func (b *Builder) DescribeItem(ctx context.Context, g *types.Graph, ref graph.ItemRef) (*types.Graph, error) {
	it, ok := graph.FindItem(g, ref.BoardID, ref.GroupID, ref.ItemID)
	if !ok {
		return g, fmt.Errorf("item %q not found", ref.ItemID)
	}
	text, err := b.gen.GenerateText(ctx, "Write a short task description for: "+it.Name)
	if err != nil {
		return g, b.fail("describe item", fmt.Errorf("%w: %v", ErrGeneration, err))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return g, b.fail("describe item", fmt.Errorf("%w: empty response", ErrGeneration))
	}
	return b.mutator().UpdateItem(g, ref.BoardID, ref.GroupID, ref.ItemID, graph.ItemPatch{Description: &text}), nil
}

// NodeImage generates an image for a node from its label and description
// and stores the asset URL on the node
func (b *Builder) NodeImage(ctx context.Context, f types.AutomationFlow, nodeID string) (types.AutomationFlow, error) {
	n, ok := flow.FindNode(f, nodeID)
	if !ok {
		return f, fmt.Errorf("node %q not found", nodeID)
	}
	asset, err := b.gen.GenerateAsset(ctx, AssetImage, strings.TrimSpace(n.Label+". "+n.Description))
	if err != nil {
		return f, b.fail("node image", fmt.Errorf("%w: %v", ErrGeneration, err))
	}
	if asset.URL == "" {
		return f, b.fail("node image", fmt.Errorf("%w: asset has no URL", ErrGeneration))
	}
	out, _ := flow.New(flow.WithIDGenerator(b.ids)).UpdateNode(f, nodeID, flow.NodePatch{Image: &asset.URL})
	return out, nil
}

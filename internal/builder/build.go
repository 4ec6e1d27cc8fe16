package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/specialistvlad/bagelgo/internal/config"
	"github.com/specialistvlad/bagelgo/internal/ctxlog"
	"github.com/specialistvlad/bagelgo/internal/graph"
	"github.com/specialistvlad/bagelgo/internal/hcl"
	"github.com/specialistvlad/bagelgo/internal/registry"
	"github.com/specialistvlad/bagelgo/internal/yamlio"
)

// Options controls how a model is turned into a graph.
type Options struct {
	// FS is used to read subgraph files. Defaults to the OS filesystem.
	FS vfs.FileSystem
	// LoadPath is the directory subgraph references are resolved against.
	LoadPath string
	// Formats are tried by file extension when loading subgraphs. Defaults
	// to YAML and HCL on FS.
	Formats []config.Format
	// Logger is handed to every created graph. Defaults to the context
	// logger.
	Logger *slog.Logger

	depth int
}

func (o Options) withDefaults(ctx context.Context) Options {
	if o.FS == nil {
		o.FS = osfs.OsFs
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats(o.FS)
	}
	if o.Logger == nil {
		o.Logger = ctxlog.FromContext(ctx)
	}
	return o
}

// DefaultFormats returns the YAML and HCL formats on fs.
func DefaultFormats(fs vfs.FileSystem) []config.Format {
	return []config.Format{yamlio.New(fs), hcl.New(fs)}
}

// Build constructs a graph from m.
func Build(ctx context.Context, reg *registry.Registry, m *config.Model, opts Options) (*graph.Graph, error) {
	opts = opts.withDefaults(ctx)
	ctx, logger := ctxlog.With(ctx, "graph", m.Name)
	logger.Debug("Build: Starting graph construction.", "nodes", len(m.Nodes), "edges", len(m.Edges), "depth", opts.depth)

	if opts.depth >= graph.MaxDepth {
		return nil, fmt.Errorf("graph %q: subgraphs nested deeper than %d", m.Name, graph.MaxDepth)
	}

	g := graph.New(m.Name, reg, graph.WithLogger(opts.Logger), graph.WithLoadPath(opts.LoadPath))

	ids, err := createNodes(ctx, g, m)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(ids))

	if err := loadSubgraphs(ctx, g, m, ids, opts); err != nil {
		return nil, err
	}
	if err := bindExterns(ctx, g, m, ids); err != nil {
		return nil, err
	}
	if err := configurePorts(ctx, g, m, ids); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node configuration complete.")

	if err := linkNodes(ctx, g, m); err != nil {
		return nil, err
	}
	logger.Debug("Build: Graph construction successful.", "edges", g.EdgeCount(false))
	return g, nil
}

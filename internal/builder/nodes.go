package builder

import (
	"context"
	"fmt"
	"path"

	"github.com/specialistvlad/bagelgo/internal/config"
	"github.com/specialistvlad/bagelgo/internal/ctxlog"
	"github.com/specialistvlad/bagelgo/internal/graph"
	"github.com/specialistvlad/bagelgo/internal/merge"
)

// createNodes performs the first pass and returns the graph id of every
// model node, index for index.
func createNodes(ctx context.Context, g *graph.Graph, m *config.Model) ([]graph.NodeID, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node creation pass.")

	ids := make([]graph.NodeID, len(m.Nodes))
	for i, n := range m.Nodes {
		id := graph.NodeID(n.ID)
		if id == 0 {
			id = g.NextID()
		}
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", id)
		}
		created, err := g.CreateNode(name, id, n.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		ids[i] = created
	}
	return ids, nil
}

// loadSubgraphs performs the second pass. Each nested graph is named after
// the reference that loaded it.
func loadSubgraphs(ctx context.Context, g *graph.Graph, m *config.Model, ids []graph.NodeID, opts Options) error {
	for i, n := range m.Nodes {
		if !isType(g, ids[i], "SUBGRAPH") {
			continue
		}
		if n.Subgraph == "" {
			return fmt.Errorf("node %d: SUBGRAPH without a subgraph reference", ids[i])
		}
		sub, err := loadSubgraph(ctx, g, n.Subgraph, opts)
		if err != nil {
			return fmt.Errorf("node %d: %w", ids[i], err)
		}
		if err := g.SetSubgraph(ids[i], sub); err != nil {
			return fmt.Errorf("node %d: %w", ids[i], err)
		}
	}
	return nil
}

func loadSubgraph(ctx context.Context, g *graph.Graph, ref string, opts Options) (*graph.Graph, error) {
	file, err := resolve(ref, opts.LoadPath)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Loading subgraph.", "ref", ref, "path", file)

	f, err := config.FormatFor(file, opts.Formats...)
	if err != nil {
		return nil, err
	}
	m, err := f.Load(ctx, file)
	if err != nil {
		return nil, err
	}
	m.Name = ref

	nested := opts
	nested.LoadPath = path.Dir(file)
	nested.depth++
	return Build(ctx, g.Registry(), m, nested)
}

// resolve expands ref and joins it to loadPath unless it is absolute.
func resolve(ref, loadPath string) (string, error) {
	p, err := config.ExpandPath(ref)
	if err != nil {
		return "", err
	}
	if path.IsAbs(p) || loadPath == "" {
		return p, nil
	}
	dir, err := config.ExpandPath(loadPath)
	if err != nil {
		return "", err
	}
	return path.Join(dir, p), nil
}

// bindExterns performs the third pass.
func bindExterns(ctx context.Context, g *graph.Graph, m *config.Model, ids []graph.NodeID) error {
	for i, n := range m.Nodes {
		if !isType(g, ids[i], "EXTERN") {
			continue
		}
		if n.Extern == "" {
			ctxlog.FromContext(ctx).Debug("EXTERN node left unbound.", "node", ids[i])
			continue
		}
		if err := g.SetExtern(ids[i], n.Extern); err != nil {
			return fmt.Errorf("node %d: %w", ids[i], err)
		}
	}
	return nil
}

// configurePorts performs the fourth pass. Unset fields keep the port's
// current configuration.
func configurePorts(ctx context.Context, g *graph.Graph, m *config.Model, ids []graph.NodeID) error {
	for i, n := range m.Nodes {
		id := ids[i]
		for _, in := range n.Inputs {
			if err := configureInput(g, id, in); err != nil {
				return fmt.Errorf("node %d input %d: %w", id, in.Index, err)
			}
		}
		for _, out := range n.Outputs {
			if out.Name == "" {
				continue
			}
			if err := g.SetOutput(id, out.Index, out.Name); err != nil {
				return fmt.Errorf("node %d output %d: %w", id, out.Index, err)
			}
		}
	}
	ctxlog.FromContext(ctx).Debug("Applied port configuration.")
	return nil
}

func configureInput(g *graph.Graph, id graph.NodeID, in *config.Input) error {
	kind, err := g.Merge(id, in.Index)
	if err != nil {
		return err
	}
	if in.Merge != "" {
		t, err := merge.Lookup(in.Merge)
		if err != nil {
			return err
		}
		kind = t.Kind
	}
	def, err := g.Default(id, in.Index)
	if err != nil {
		return err
	}
	if in.Default != nil {
		def = *in.Default
	}
	bias, err := g.Bias(id, in.Index)
	if err != nil {
		return err
	}
	if in.Bias != nil {
		bias = *in.Bias
	}
	return g.SetInput(id, in.Index, kind, def, bias, in.Name)
}

func isType(g *graph.Graph, id graph.NodeID, name string) bool {
	n, err := g.Node(id)
	if err != nil {
		return false
	}
	return n.Type().Name == name
}

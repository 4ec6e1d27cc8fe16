package builder

import (
	"context"
	"fmt"

	"github.com/specialistvlad/bagelgo/internal/config"
	"github.com/specialistvlad/bagelgo/internal/ctxlog"
	"github.com/specialistvlad/bagelgo/internal/graph"
)

// linkNodes performs the final pass, creating the edges in model order.
func linkNodes(ctx context.Context, g *graph.Graph, m *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting edge linking pass.", "count", len(m.Edges))

	for i, e := range m.Edges {
		src, srcPort, err := resolveSource(g, e)
		if err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
		sink, sinkPort, err := resolveSink(g, e)
		if err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
		id, err := g.CreateEdge(src, srcPort, sink, sinkPort, e.Weight, graph.EdgeID(e.ID))
		if err != nil {
			return fmt.Errorf("edge %d (%d:%d -> %d:%d): %w", i, src, srcPort, sink, sinkPort, err)
		}
		if e.IgnoreForSort {
			if err := g.SetIgnoreForSort(id, true); err != nil {
				return fmt.Errorf("edge %d: %w", i, err)
			}
		}
	}
	logger.Debug("Finished edge linking pass.")
	return nil
}

func resolveSource(g *graph.Graph, e *config.Edge) (graph.NodeID, int, error) {
	id := graph.NodeID(e.From)
	if e.FromName != "" {
		found, err := g.NodeIDByName(e.FromName)
		if err != nil {
			return 0, 0, err
		}
		id = found
	}
	port := e.FromPort
	if e.FromPortName != "" {
		idx, err := g.OutputIndex(id, e.FromPortName)
		if err != nil {
			return 0, 0, err
		}
		port = idx
	}
	return id, port, nil
}

func resolveSink(g *graph.Graph, e *config.Edge) (graph.NodeID, int, error) {
	id := graph.NodeID(e.To)
	if e.ToName != "" {
		found, err := g.NodeIDByName(e.ToName)
		if err != nil {
			return 0, 0, err
		}
		id = found
	}
	port := e.ToPort
	if e.ToPortName != "" {
		idx, err := g.InputIndex(id, e.ToPortName)
		if err != nil {
			return 0, 0, err
		}
		port = idx
	}
	return id, port, nil
}

package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/bagelgo/internal/ctxlog"
	"github.com/specialistvlad/bagelgo/internal/dot"
	"github.com/specialistvlad/bagelgo/internal/graph"
	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/specialistvlad/bagelgo/internal/publish"
)

// Run loads the configured graph and executes the configured mode.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.", "mode", a.config.Mode, "graph", a.config.GraphPath)

	a.startHealthcheckServer()
	defer func() {
		if cerr := a.closeHealthcheckServer(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	g, err := a.engine.Load(ctx, a.config.GraphPath, a.config.LoadPath)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	a.logger.Info("Graph loaded.", "graph", g.Name(), "nodes", g.NodeCount(true),
		"inputs", g.NumInputs(), "outputs", g.NumOutputs())

	switch a.config.Mode {
	case ModeSearch:
		err = a.search(ctx, g)
	case ModeDot:
		err = a.dot(ctx, g)
	case ModeConvert:
		err = a.convert(ctx, g)
	default:
		err = a.evaluate(ctx, g)
	}
	if err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) evaluate(ctx context.Context, g *graph.Graph) error {
	if len(a.config.Inputs) > 0 {
		if err := a.engine.SetInputs(g, a.config.Inputs); err != nil {
			return err
		}
		defer a.engine.Release(g)
	}
	if a.config.PublishURL != "" {
		opts := []publish.Option{publish.WithGraph(g.Name())}
		if a.config.PublishInsecure {
			opts = append(opts, publish.WithInsecureSkipVerify())
		}
		p, err := publish.Connect(ctx, a.config.PublishURL, a.config.PublishNamespace, opts...)
		if err != nil {
			return fmt.Errorf("failed to connect publisher: %w", err)
		}
		a.publisher = p
		defer func() {
			a.publisher.Close()
			a.publisher = nil
		}()
	}

	names := outputNames(g)
	for step := 1; step <= a.config.Steps; step++ {
		if err := a.engine.Evaluate(ctx, g); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		outputs := a.engine.Outputs(g)
		fmt.Fprintf(a.outW, "step %d: %s\n", step, formatOutputs(names, outputs))
		if a.publisher != nil {
			if err := a.publisher.Publish(step, outputs); err != nil {
				a.logger.Warn("Failed to publish outputs.", "step", step, "error", err)
			}
		}
	}
	return nil
}

func (a *App) search(ctx context.Context, g *graph.Graph) error {
	bounds := a.config.Bounds
	if len(bounds) == 0 {
		bounds = make([]interval.Interval, g.NumInputs())
		for i := range bounds {
			bounds[i] = interval.Entire()
		}
	}
	result, err := a.engine.FindInfNaN(ctx, g, bounds, a.config.Resolution)
	if err != nil {
		return err
	}
	for i, b := range result.Boxes {
		fmt.Fprintf(a.outW, "box %d: %s\n", i+1, b)
	}
	fmt.Fprintf(a.outW, "found %d boxes in %d evaluations\n", len(result.Boxes), result.Stats.Evaluations)
	return nil
}

func (a *App) dot(ctx context.Context, g *graph.Graph) error {
	if a.config.OutPath != "" {
		return dot.Write(ctx, a.fs, g, a.config.OutPath)
	}
	data, err := dot.Marshal(g)
	if err != nil {
		return err
	}
	_, err = a.outW.Write(data)
	return err
}

func (a *App) convert(ctx context.Context, g *graph.Graph) error {
	if err := a.engine.Save(ctx, g, a.config.OutPath); err != nil {
		return fmt.Errorf("failed to convert graph: %w", err)
	}
	fmt.Fprintf(a.outW, "wrote %s\n", a.config.OutPath)
	return nil
}

func outputNames(g *graph.Graph) []string {
	ids := g.OutputIDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		if n, err := g.Node(id); err == nil {
			names[i] = n.Name()
		}
	}
	return names
}

func formatOutputs(names []string, values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = names[i] + "=" + strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

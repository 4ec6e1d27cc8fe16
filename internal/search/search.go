package search

import (
	"context"
	"fmt"
	"math"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/ctxlog"
	"github.com/specialistvlad/bagelgo/internal/graph"
	"github.com/specialistvlad/bagelgo/internal/interval"
)

// ExpensiveEstimate is the evaluation count above which a bounded search is
// reported as expensive before it starts.
const ExpensiveEstimate = 1e6

// Stats describes a finished or aborted search.
type Stats struct {
	// Estimate is 2*prod(width/res) for a bounded search and +Inf otherwise.
	Estimate    float64
	Unbounded   bool
	Evaluations int
	Bisections  int
}

// Result is the outcome of FindInfNaN.
type Result struct {
	Boxes []Box
	Stats Stats
}

// FindInfNaN returns the disjoint boxes inside bounds, at most res wide on
// every side, whose evaluation yields an infinite or NaN output. bounds holds
// one interval per graph input.
func FindInfNaN(ctx context.Context, g *graph.Graph, bounds []interval.Interval, res float64) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	stats, err := preflight(g, bounds, res)
	if err != nil {
		return nil, err
	}
	if stats.Unbounded {
		logger.Warn("Search bounds are unbounded; this may need many evaluations.", "graph", g.Name())
	} else if stats.Estimate > ExpensiveEstimate {
		logger.Warn("Search may be expensive.", "graph", g.Name(), "evaluations", stats.Estimate)
	}

	result := &Result{Stats: stats}
	work := []Box{Box(bounds).Clone()}
	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		last := len(work) - 1
		box := work[last]
		work = work[:last]

		hit, err := DetectInfNaN(g, box)
		result.Stats.Evaluations++
		if err != nil {
			return result, fmt.Errorf("search: evaluate %v: %w", box, err)
		}
		if !hit {
			continue
		}

		dim := splitDim(box, res)
		if dim < 0 {
			result.Boxes = coalesce(append(result.Boxes, box), res)
			logger.Debug("Found non-finite box.", "box", box.String(), "results", len(result.Boxes))
			continue
		}
		left, right := bisect(box, dim)
		work = append(work, left, right)
		result.Stats.Bisections++
	}
	logger.Debug("Search finished.", "graph", g.Name(), "evaluations", result.Stats.Evaluations,
		"boxes", len(result.Boxes))
	return result, nil
}

func preflight(g *graph.Graph, bounds []interval.Interval, res float64) (Stats, error) {
	const op = "search.FindInfNaN"
	var stats Stats
	if len(bounds) != g.NumInputs() {
		return stats, bgerr.New(bgerr.WrongArgCount, op, "graph %q has %d inputs, got %d bounds", g.Name(), g.NumInputs(), len(bounds))
	}
	if !(res > 0) {
		return stats, bgerr.New(bgerr.OutOfRange, op, "resolution must be positive, got %g", res)
	}
	estimate := 2.0
	for i, b := range bounds {
		if b.IsNaN() {
			return stats, bgerr.New(bgerr.Unknown, op, "bound %d is NaN", i)
		}
		if !b.IsBounded() {
			stats.Unbounded = true
			continue
		}
		if n := width(b) / res; n > 1 {
			estimate *= n
		}
	}
	stats.Estimate = estimate
	if stats.Unbounded {
		stats.Estimate = math.Inf(1)
	}
	return stats, nil
}

// DetectInfNaN evaluates the graph once over box and reports whether any
// output reaches an infinity or NaN. Values in the graph are reset first.
// The graph is left structurally unchanged.
func DetectInfNaN(g *graph.Graph, box Box) (hit bool, err error) {
	if len(box) != g.NumInputs() {
		return false, bgerr.New(bgerr.WrongArgCount, "search.DetectInfNaN", "graph %q has %d inputs, got %d intervals", g.Name(), g.NumInputs(), len(box))
	}
	g.Reset(true)
	edges, err := g.AttachInputs()
	if err != nil {
		return false, err
	}
	defer func() {
		if derr := g.DetachEdges(edges); derr != nil && err == nil {
			err = derr
		}
	}()

	for i, id := range edges {
		if err := g.SetInterval(id, box[i]); err != nil {
			return false, err
		}
	}
	if err := g.EvaluateInterval(); err != nil {
		return false, err
	}
	for i := 0; i < g.NumOutputs(); i++ {
		out, err := g.OutputInterval(i)
		if err != nil {
			return false, err
		}
		if out.IsNaN() || out.IsInf() {
			return true, nil
		}
	}
	return false, nil
}

package bagel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/builder"
	"github.com/specialistvlad/bagelgo/internal/ctxlog"
	"github.com/specialistvlad/bagelgo/internal/graph"
	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/specialistvlad/bagelgo/internal/registry"
	"github.com/specialistvlad/bagelgo/internal/search"
)

type (
	Graph    = graph.Graph
	NodeID   = graph.NodeID
	EdgeID   = graph.EdgeID
	NodeType = registry.NodeType
	Module   = registry.Module
	Interval = interval.Interval
	Box      = search.Box
	Result   = search.Result
	Kind     = bgerr.Kind
)

// Engine is the library entry point. It owns the node type registry shared
// by the graphs it creates and remembers the first error any of its methods
// returned.
type Engine struct {
	reg    *registry.Registry
	fs     vfs.FileSystem
	logger *slog.Logger
	latch  bgerr.Latch

	modules []registry.Module

	mu     sync.Mutex
	inputs map[*graph.Graph][]float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithFileSystem sets the filesystem used by Load and Save.
func WithFileSystem(fs vfs.FileSystem) Option {
	return func(e *Engine) {
		if fs != nil {
			e.fs = fs
		}
	}
}

// WithLogger sets the logger handed to new graphs and loaders.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithModules registers the extern types of every module once the engine
// is configured.
func WithModules(modules ...registry.Module) Option {
	return func(e *Engine) { e.modules = append(e.modules, modules...) }
}

// New creates an engine with the built-in node types.
func New(opts ...Option) *Engine {
	e := &Engine{
		fs:     osfs.OsFs,
		logger: slog.Default(),
		inputs: make(map[*graph.Graph][]float64),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reg = registry.New(registry.WithLogger(e.logger))
	e.reg.Use(e.modules...)
	return e
}

// Registry returns the node type registry.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// FileSystem returns the filesystem used for graph files.
func (e *Engine) FileSystem() vfs.FileSystem { return e.fs }

func (e *Engine) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, e.logger)
}

// NewGraph creates an empty graph bound to the engine's registry.
func (e *Engine) NewGraph(name string) *Graph {
	return graph.New(name, e.reg, graph.WithLogger(e.logger))
}

// RegisterExtern adds external node types.
func (e *Engine) RegisterExtern(types ...*NodeType) error {
	return e.latch.Set(e.reg.Register(types...))
}

// Load reads a graph file. Relative paths and subgraph references are
// resolved against loadPath, which may contain ${VAR} references.
func (e *Engine) Load(ctx context.Context, file, loadPath string) (*Graph, error) {
	g, err := builder.LoadFile(e.context(ctx), e.fs, e.reg, file, loadPath)
	if err != nil {
		return nil, e.latch.Set(err)
	}
	return g, nil
}

// Save writes g to file in the format matching the file extension.
func (e *Engine) Save(ctx context.Context, g *Graph, file string) error {
	return e.latch.Set(builder.SaveFile(e.context(ctx), e.fs, g, file))
}

// SetInputs stores the values fed to the input nodes of g on every
// following Evaluate. A nil slice stops feeding.
func (e *Engine) SetInputs(g *Graph, values []float64) error {
	if values != nil && len(values) != g.NumInputs() {
		return e.latch.Set(bgerr.New(bgerr.OutOfRange, "bagel.SetInputs",
			"graph %q has %d inputs, got %d values", g.Name(), g.NumInputs(), len(values)))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if values == nil {
		delete(e.inputs, g)
		return nil
	}
	e.inputs[g] = append([]float64(nil), values...)
	return nil
}

// Release forgets everything the engine holds for g. Call it once g is no
// longer evaluated through the engine.
func (e *Engine) Release(g *Graph) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inputs, g)
}

// Evaluate runs one pass over g. Values set with SetInputs are fed through
// temporary edges that are removed again afterwards.
func (e *Engine) Evaluate(ctx context.Context, g *Graph) error {
	if err := ctx.Err(); err != nil {
		return e.latch.Set(err)
	}
	e.mu.Lock()
	values, ok := e.inputs[g]
	e.mu.Unlock()
	if !ok {
		return e.latch.Set(g.Evaluate())
	}
	if len(values) != g.NumInputs() {
		return e.latch.Set(bgerr.New(bgerr.OutOfRange, "bagel.Evaluate",
			"graph %q has %d inputs, %d values were set", g.Name(), g.NumInputs(), len(values)))
	}

	feeds, err := g.AttachInputs()
	if err != nil {
		return e.latch.Set(err)
	}
	err = func() error {
		for i, id := range feeds {
			if err := g.SetValue(id, values[i]); err != nil {
				return err
			}
		}
		return g.Evaluate()
	}()
	if derr := g.DetachEdges(feeds); err == nil {
		err = derr
	}
	return e.latch.Set(err)
}

// Outputs returns the values of the output nodes of g.
func (e *Engine) Outputs(g *Graph) []float64 {
	return g.Outputs()
}

// Output returns the value of the i-th output node of g.
func (e *Engine) Output(g *Graph, i int) (float64, error) {
	v, err := g.Output(i)
	return v, e.latch.Set(err)
}

// FindInfNaN searches bounds, one interval per input, for the boxes no wider
// than res that drive an output of g to an infinity or NaN.
func (e *Engine) FindInfNaN(ctx context.Context, g *Graph, bounds []Interval, res float64) (*Result, error) {
	r, err := search.FindInfNaN(e.context(ctx), g, bounds, res)
	if err != nil {
		return r, e.latch.Set(fmt.Errorf("search graph %q: %w", g.Name(), err))
	}
	return r, nil
}

// Err returns the first error returned by any engine method since the last
// ClearErr.
func (e *Engine) Err() error { return e.latch.Get() }

// ClearErr forgets the latched error.
func (e *Engine) ClearErr() { e.latch.Clear() }

// NewInterval returns the closed interval [lo, hi].
func NewInterval(lo, hi float64) Interval { return interval.New(lo, hi) }

// KindOf reports the error kind of err.
func KindOf(err error) Kind { return bgerr.KindOf(err) }

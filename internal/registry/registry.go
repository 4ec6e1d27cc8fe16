package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
)

// Module bundles external node types that register together.
type Module interface {
	Register(r *Registry)
}

// Registry holds the built-in node types and the registered external types
// for a single engine instance.
type Registry struct {
	mu       sync.RWMutex
	builtins []*NodeType
	byName   map[string]*NodeType
	externs  map[string]*NodeType
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registrations and handed to modules.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a registry populated with the built-in types.
func New(opts ...Option) *Registry {
	r := &Registry{
		builtins: builtins(),
		byName:   make(map[string]*NodeType),
		externs:  make(map[string]*NodeType),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, t := range r.builtins {
		r.byName[t.Name] = t
	}
	return r
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *slog.Logger { return r.logger }

// Lookup finds a built-in type by name. Names are matched case-insensitively
// so that "pipe" and "PIPE" both resolve.
func (r *Registry) Lookup(name string) (*NodeType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.byName[strings.ToUpper(name)]; ok {
		return t, nil
	}
	return nil, bgerr.New(bgerr.NotFound, "registry.Lookup", "unknown node type %q", name)
}

// MustLookup is Lookup for names known to be built in.
func (r *Registry) MustLookup(name string) *NodeType {
	t, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Types returns the built-in types in declaration order.
func (r *Registry) Types() []*NodeType {
	out := make([]*NodeType, len(r.builtins))
	copy(out, r.builtins)
	return out
}

// Register adds external node types. Each type is validated and must carry a
// name not yet taken by another external type. The batch is registered as a
// whole or not at all. The registry keeps copies, so the caller's values
// are left untouched.
func (r *Registry) Register(types ...*NodeType) error {
	const op = "registry.Register"
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make([]*NodeType, 0, len(types))
	seen := make(map[string]bool, len(types))
	for _, t := range types {
		if err := validateExtern(t); err != nil {
			return err
		}
		if _, exists := r.externs[t.Name]; exists || seen[t.Name] {
			return bgerr.New(bgerr.DuplicateID, op, "extern type %q already registered", t.Name)
		}
		seen[t.Name] = true
		c := *t
		c.Kind = Extern
		batch = append(batch, &c)
	}
	for _, t := range batch {
		r.logger.Debug("Registering extern node type.", "name", t.Name, "inputs", t.Inputs, "outputs", t.Outputs)
		r.externs[t.Name] = t
	}
	return nil
}

// MustRegister is Register for use in Module implementations.
func (r *Registry) MustRegister(types ...*NodeType) {
	if err := r.Register(types...); err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
}

// Use registers every module in order.
func (r *Registry) Use(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// Extern finds a registered external type by its exact name.
func (r *Registry) Extern(name string) (*NodeType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.externs[name]; ok {
		return t, nil
	}
	return nil, bgerr.New(bgerr.ExternNotFound, "registry.Extern", "no extern node type named %q", name)
}

// Externs returns the registered external type names, sorted.
func (r *Registry) Externs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.externs))
	for name := range r.externs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

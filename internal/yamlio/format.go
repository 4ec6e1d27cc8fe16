package yamlio

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"

	"github.com/specialistvlad/bagelgo/internal/config"
	"github.com/specialistvlad/bagelgo/internal/ctxlog"
)

// Format loads and writes YAML graph files on a virtual filesystem.
type Format struct {
	fs vfs.FileSystem
}

var _ config.Format = (*Format)(nil)

// New creates a Format on the first given filesystem, or on the OS
// filesystem when none is given.
func New(fss ...vfs.FileSystem) *Format {
	fs := vfs.FileSystem(osfs.OsFs)
	if len(fss) > 0 && fss[0] != nil {
		fs = fss[0]
	}
	return &Format{fs: fs}
}

// Extensions implements config.Format.
func (f *Format) Extensions() []string {
	return []string{".yml", ".yaml"}
}

// Load reads the graph file at path. The model is named after the file.
func (f *Format) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading YAML graph file.", "path", path)

	data, err := vfs.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file %s: %w", path, err)
	}
	m, err := Decode(data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
	}
	logger.Debug("Parsed YAML graph file.", "path", path, "nodes", len(m.Nodes), "edges", len(m.Edges))
	return m, nil
}

// Write serializes m to path, creating the parent directory if needed.
func (f *Format) Write(ctx context.Context, path string, m *config.Model) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o700); err != nil && !errors.Is(err, vfs.ErrExist) {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	ctxlog.FromContext(ctx).Debug("Writing YAML graph file.", "path", path, "bytes", len(data))
	return vfs.WriteFile(f.fs, path, data, 0o600)
}

// Decode parses a YAML document into a model called name.
func Decode(data []byte, name string) (*config.Model, error) {
	var d document
	if strings.TrimSpace(string(data)) == "" {
		return &config.Model{Name: name}, nil
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return d.toModel(name)
}

// Encode renders m as a YAML document. The model name is not stored.
func Encode(m *config.Model) ([]byte, error) {
	data, err := yaml.Marshal(fromModel(m))
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph %q: %w", m.Name, err)
	}
	return data, nil
}

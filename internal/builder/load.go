package builder

import (
	"context"
	"path"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/specialistvlad/bagelgo/internal/config"
	"github.com/specialistvlad/bagelgo/internal/graph"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

// LoadFile reads the graph file at file, choosing the format by extension,
// and builds it. A relative file is resolved against loadPath when one is
// given; subgraphs are then resolved against the directory of the file.
func LoadFile(ctx context.Context, fs vfs.FileSystem, reg *registry.Registry, file, loadPath string) (*graph.Graph, error) {
	if fs == nil {
		fs = osfs.OsFs
	}
	full, err := resolve(file, loadPath)
	if err != nil {
		return nil, err
	}
	formats := DefaultFormats(fs)
	f, err := config.FormatFor(full, formats...)
	if err != nil {
		return nil, err
	}
	m, err := f.Load(ctx, full)
	if err != nil {
		return nil, err
	}
	return Build(ctx, reg, m, Options{FS: fs, LoadPath: path.Dir(full), Formats: formats})
}

// SaveFile writes g to file in the format matching its extension. Nested
// graphs are referenced by name and not written.
func SaveFile(ctx context.Context, fs vfs.FileSystem, g *graph.Graph, file string) error {
	if fs == nil {
		fs = osfs.OsFs
	}
	f, err := config.FormatFor(file, DefaultFormats(fs)...)
	if err != nil {
		return err
	}
	return f.Write(ctx, file, Extract(g))
}

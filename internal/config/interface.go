package config

import (
	"context"
)

// Loader reads a graph description from a path into the model.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}

// Writer serializes the model to a path.
type Writer interface {
	Write(ctx context.Context, path string, m *Model) error
}

// Format is a file format that can both load and write graphs.
type Format interface {
	Loader
	Writer
	// Extensions lists the file extensions of the format, with the dot.
	Extensions() []string
}

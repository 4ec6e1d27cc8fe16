package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/specialistvlad/bagelgo/internal/ctxlog"
	"github.com/specialistvlad/bagelgo/internal/publish"
	"github.com/specialistvlad/bagelgo/internal/registry"
	"github.com/specialistvlad/bagelgo/pkg/bagel"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	fs         vfs.FileSystem
	engine     *bagel.Engine
	httpServer *http.Server
	publisher  *publish.Publisher
}

// NewApp is the constructor for the main application. Results are written
// to outW and logs to logW. Without modules the core modules are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	fs := cfg.FS
	if fs == nil {
		fs = osfs.OsFs
	}
	if len(modules) == 0 {
		modules = coreModules(logger)
	}
	engine := bagel.New(
		bagel.WithFileSystem(fs),
		bagel.WithLogger(logger),
		bagel.WithModules(modules...),
	)
	logger.Debug("All extern modules registered.", "count", len(modules), "externs", engine.Registry().Externs())

	return &App{
		ctx:    ctx,
		outW:   outW,
		logger: logger,
		config: cfg,
		fs:     fs,
		engine: engine,
	}
}

// Engine returns the application's engine. This is primarily for testing.
func (a *App) Engine() *bagel.Engine {
	return a.engine
}

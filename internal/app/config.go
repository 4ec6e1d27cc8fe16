package app

import (
	"errors"
	"fmt"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/specialistvlad/bagelgo/internal/interval"
)

// Modes supported by Run.
const (
	ModeEvaluate = "evaluate"
	ModeSearch   = "search"
	ModeDot      = "dot"
	ModeConvert  = "convert"
)

// DefaultResolution is the search resolution used when none is given.
const DefaultResolution = 1e-6

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath string // .yml, .yaml or .hcl
	LoadPath  string // subgraph directory, may contain ${VAR}
	Mode      string

	Inputs     []float64
	Steps      int
	Bounds     []interval.Interval
	Resolution float64
	OutPath    string

	LogFormat        string
	LogLevel         string
	HealthcheckPort  int
	PublishURL       string
	PublishNamespace string
	PublishInsecure  bool // skip TLS verification of PublishURL

	// FS is the filesystem graph files are read from and written to. Nil
	// means the OS filesystem.
	FS vfs.FileSystem
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeEvaluate
	}
	switch cfg.Mode {
	case ModeEvaluate, ModeSearch, ModeDot:
	case ModeConvert:
		if cfg.OutPath == "" {
			return nil, errors.New("convert mode requires an output path")
		}
	default:
		return nil, fmt.Errorf("unknown mode %q: must be one of %s, %s, %s or %s", cfg.Mode, ModeEvaluate, ModeSearch, ModeDot, ModeConvert)
	}
	if cfg.Steps == 0 {
		cfg.Steps = 1
	}
	if cfg.Steps < 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.Resolution == 0 {
		cfg.Resolution = DefaultResolution
	}
	if !(cfg.Resolution > 0) {
		return nil, fmt.Errorf("resolution must be positive, got %g", cfg.Resolution)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}
	if cfg.PublishNamespace == "" {
		cfg.PublishNamespace = "/"
	}
	return &cfg, nil
}

package app

import (
	"log/slog"

	"github.com/specialistvlad/bagelgo/internal/registry"
	"github.com/specialistvlad/bagelgo/modules/env_vars"
	"github.com/specialistvlad/bagelgo/modules/mathx"
	prnt "github.com/specialistvlad/bagelgo/modules/print"
)

// coreModules is the definitive list of all extern node type modules that
// are compiled into the bagel binary.
func coreModules(logger *slog.Logger) []registry.Module {
	return []registry.Module{
		&env_vars.Module{Logger: logger},
		&mathx.Module{},
		&prnt.Module{Logger: logger},
	}
}

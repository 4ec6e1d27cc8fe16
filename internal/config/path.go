package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/drone/envsubst"
)

// ExpandPath replaces ${VAR} references in p with values from the
// environment.
func ExpandPath(p string) (string, error) {
	if !strings.Contains(p, "$") {
		return p, nil
	}
	out, err := envsubst.EvalEnv(p)
	if err != nil {
		return "", fmt.Errorf("expand path %q: %w", p, err)
	}
	return out, nil
}

// FormatFor returns the format registered for the extension of path.
func FormatFor(path string, formats ...Format) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range formats {
		for _, e := range f.Extensions() {
			if e == ext {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("no graph format for %q", path)
}

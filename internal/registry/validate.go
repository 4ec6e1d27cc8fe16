package registry

import (
	"strings"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
)

// validateExtern checks that an external type is usable before it is
// accepted. The problems found are reported together.
func validateExtern(t *NodeType) error {
	if t == nil {
		return bgerr.New(bgerr.Unknown, "registry.Register", "nil node type")
	}
	var errs []string
	if t.Name == "" {
		errs = append(errs, "name is empty")
	}
	if t.Inputs < 0 || t.Outputs < 0 {
		errs = append(errs, "port counts must not be negative")
	}
	if t.Eval == nil {
		errs = append(errs, "Eval is required")
	}
	if len(t.InputNames) > t.Inputs {
		errs = append(errs, "more input names than inputs")
	}
	if len(t.OutputNames) > t.Outputs {
		errs = append(errs, "more output names than outputs")
	}
	if len(errs) > 0 {
		return bgerr.New(bgerr.WrongType, "registry.Register", "extern type %q: %s", t.Name, strings.Join(errs, "; "))
	}
	return nil
}

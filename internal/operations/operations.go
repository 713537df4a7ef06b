package operations

import (
	"fmt"
	"math"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// Registrar accepts named operations.
type Registrar interface {
	Register(name, description string, handler domain.OperationHandler) error
}

// Operation is a built-in operation definition.
type Operation struct {
	Name        string
	Description string
	Handler     domain.OperationHandler
}

// Builtins returns every built-in operation.
func Builtins() []Operation {
	return []Operation{
		{
			Name:        EchoName,
			Description: "Echo a message back unchanged. Params: message (string).",
			Handler:     Echo,
		},
		{
			Name:        InfoName,
			Description: "Report host system information: OS, architecture, CPU count, hostname and Go runtime version.",
			Handler:     Info,
		},
		{
			Name:        HashName,
			Description: "Compute the checksum digest of a file. Params: path (string), algorithm (sha256|sha512, default sha256).",
			Handler:     HashFile,
		},
		{
			Name:        GlobName,
			Description: "List files matching a glob pattern such as **/*.log, newest first. Params: pattern (string), path (base directory), limit (number).",
			Handler:     Glob,
		},
	}
}

// Register adds all built-ins to r.
func Register(r Registrar) error {
	for _, op := range Builtins() {
		if err := r.Register(op.Name, op.Description, op.Handler); err != nil {
			return fmt.Errorf("register %s: %w", op.Name, err)
		}
	}
	return nil
}

// stringParam returns params[key] if it is a string.
func stringParam(params domain.Params, key string) (string, bool) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intParam accepts the number types JSON and TOML decoding produce.
func intParam(params domain.Params, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

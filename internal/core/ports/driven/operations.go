package driven

import (
	"context"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// OperationRegistry is the generic registry of named operations that the
// scheduler invokes through. It is populated at startup.
type OperationRegistry interface {
	// Invoke runs the named operation with params.
	// Returns domain.ErrNotFound if no operation has that name.
	Invoke(ctx context.Context, name string, params domain.Params) (*domain.OperationResult, error)

	// List returns a snapshot of all registered operations.
	List() []domain.OperationInfo

	// Has reports whether an operation with the exact name exists.
	Has(name string) bool
}

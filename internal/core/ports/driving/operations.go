package driving

import (
	"context"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// OperationMatch is one ranked fuzzy-resolution candidate.
type OperationMatch struct {
	domain.OperationInfo

	// Similarity is in [0, 1]; 1 is a perfect match.
	Similarity float64 `json:"similarity"`
}

// OperationCatalog exposes the registered operations to callers.
type OperationCatalog interface {
	// List returns all registered operations sorted by name.
	List() []domain.OperationInfo

	// Invoke runs an operation directly, outside any task.
	Invoke(ctx context.Context, name string, params domain.Params) (*domain.OperationResult, error)
}

// NameResolver maps an exact name or a free-text query to one operation.
type NameResolver interface {
	// Resolve returns the operation name. Exactly one argument must be non-empty.
	Resolve(exactName, query string) (string, error)

	// Candidates returns up to limit operations ranked by similarity to query.
	Candidates(query string, limit int) []OperationMatch
}

package driven

import (
	"context"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// TaskStore persists the full ordered task collection as one document.
// Every Save rewrites the whole document; there is no incremental append.
type TaskStore interface {
	// Load reads the persisted collection.
	// Returns an empty slice and no error if nothing has been saved yet.
	Load(ctx context.Context) ([]domain.ScheduledTask, error)

	// Save replaces the persisted collection with tasks.
	// The document is durable once Save returns nil.
	Save(ctx context.Context, tasks []domain.ScheduledTask) error

	// Path returns a human-readable location of the document.
	Path() string
}

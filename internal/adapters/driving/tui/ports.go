// Package tui provides an interactive terminal user interface for tidy.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Tasks manages scheduled tasks.
	Tasks driving.TaskService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Tasks == nil {
		return ErrMissingTaskService
	}
	return nil
}

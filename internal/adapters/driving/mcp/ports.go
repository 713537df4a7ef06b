package mcp

import (
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tasks manages scheduled tasks.
	Tasks driving.TaskService

	// Operations lists and invokes registered operations.
	Operations driving.OperationCatalog

	// Resolver backs Scheduler_FindTool. Optional.
	Resolver driving.NameResolver
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Tasks == nil {
		return ErrMissingTaskService
	}
	if p.Operations == nil {
		return ErrMissingCatalog
	}
	return nil
}

// Package mcp provides an MCP (Model Context Protocol) server adapter for tidy.
// It exposes task scheduling and every registered operation as tools, so an
// assistant can create, inspect and run scheduled tasks.
package mcp

import "errors"

// Errors returned by NewServer for missing ports.
var (
	ErrMissingTaskService = errors.New("mcp: task service is required")
	ErrMissingCatalog     = errors.New("mcp: operation catalog is required")
)

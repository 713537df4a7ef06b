package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for tidy resources.
	uriScheme = "tidy://"

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tasks",
		Name:        "tasks",
		Description: "All scheduled tasks without execution history",
		MIMEType:    mimeJSON,
	}, s.handleTasksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tasks/{taskId}",
		Name:        "task",
		Description: "Full record of a scheduled task, including execution history",
		MIMEType:    mimeJSON,
	}, s.handleTaskResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "operations",
		Name:        "operations",
		Description: "Registered operations that tasks can run",
		MIMEType:    mimeJSON,
	}, s.handleOperationsResource)
}

func (s *Server) handleTasksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	tasks, err := s.ports.Tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	out := make([]TaskOutput, len(tasks))
	for i := range tasks {
		out[i] = summaryOutput(tasks[i])
	}
	return jsonResource(req.Params.URI, out)
}

func (s *Server) handleTaskResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract taskId from URI: tidy://tasks/{taskId}
	taskID := extractTaskID(req.Params.URI)
	if taskID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	task, err := s.ports.Tasks.Get(ctx, taskID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return jsonResource(req.Params.URI, taskOutput(task))
}

func (s *Server) handleOperationsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ops := s.ports.Operations.List()
	if ops == nil {
		ops = []domain.OperationInfo{}
	}
	return jsonResource(req.Params.URI, ops)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractTaskID extracts the task ID from a URI like tidy://tasks/{taskId}.
func extractTaskID(uri string) string {
	const prefix = uriScheme + "tasks/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/logger"
)

// registerOperationTools exposes every registered operation as its own tool.
// Arguments are passed through untouched as the operation's params.
func (s *Server) registerOperationTools() {
	for _, op := range s.ports.Operations.List() {
		if schedulerTools[op.Name] {
			logger.Warn("mcp: operation %s shadows a scheduler tool; not exposed", op.Name)
			continue
		}
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        op.Name,
			Description: op.Description,
		}, s.operationHandler(op.Name))
	}
}

func (s *Server) operationHandler(
	name string,
) func(context.Context, *mcp.CallToolRequest, map[string]any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		result, err := s.ports.Operations.Invoke(ctx, name, domain.Params(args))
		if err != nil {
			return nil, nil, err
		}
		return callToolResult(result), nil, nil
	}
}

func callToolResult(result *domain.OperationResult) *mcp.CallToolResult {
	out := &mcp.CallToolResult{IsError: result.IsError}
	for _, text := range result.Content {
		out.Content = append(out.Content, &mcp.TextContent{Text: text})
	}
	if len(out.Content) == 0 {
		out.Content = []mcp.Content{&mcp.TextContent{Text: ""}}
	}
	return out
}

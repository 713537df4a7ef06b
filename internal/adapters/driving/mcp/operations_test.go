package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

func TestServer_operationHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("passes arguments as params", func(t *testing.T) {
		catalog := &mockCatalog{result: domain.TextResult("hello")}
		server := newTestServer(t, &mockTaskService{}, catalog, nil)

		res, _, err := server.operationHandler("System_Echo")(ctx, nil, map[string]any{"message": "hello"})

		require.NoError(t, err)
		assert.Equal(t, "System_Echo", catalog.lastName)
		assert.Equal(t, domain.Params{"message": "hello"}, catalog.lastParams)
		assert.False(t, res.IsError)
		require.Len(t, res.Content, 1)
		assert.Equal(t, "hello", res.Content[0].(*mcp.TextContent).Text)
	})

	t.Run("handler-reported error", func(t *testing.T) {
		catalog := &mockCatalog{result: domain.ErrorResult("path is required")}
		server := newTestServer(t, &mockTaskService{}, catalog, nil)

		res, _, err := server.operationHandler("Hash_File")(ctx, nil, nil)

		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("invoke error", func(t *testing.T) {
		catalog := &mockCatalog{err: domain.ErrNotFound}
		server := newTestServer(t, &mockTaskService{}, catalog, nil)

		_, _, err := server.operationHandler("Gone")(ctx, nil, nil)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCallToolResult_EmptyContent(t *testing.T) {
	res := callToolResult(&domain.OperationResult{})

	require.Len(t, res.Content, 1)
	assert.Equal(t, "", res.Content[0].(*mcp.TextContent).Text)
}

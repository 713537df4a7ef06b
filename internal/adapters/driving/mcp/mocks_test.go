package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

// mockTaskService is a mock implementation of driving.TaskService.
type mockTaskService struct {
	task      *domain.ScheduledTask
	summaries []driving.TaskSummary
	record    domain.TaskExecutionRecord
	history   []domain.TaskExecutionRecord
	changed   bool
	err       error

	lastCreate  driving.CreateTaskRequest
	lastUpdate  driving.UpdateTaskRequest
	lastID      string
	lastLimit   int
	deleteCalls int
}

func (m *mockTaskService) Create(_ context.Context, req driving.CreateTaskRequest) (*domain.ScheduledTask, error) {
	m.lastCreate = req
	return m.task, m.err
}

func (m *mockTaskService) List(_ context.Context) ([]driving.TaskSummary, error) {
	return m.summaries, m.err
}

func (m *mockTaskService) Get(_ context.Context, id string) (*domain.ScheduledTask, error) {
	m.lastID = id
	return m.task, m.err
}

func (m *mockTaskService) Update(
	_ context.Context,
	id string,
	req driving.UpdateTaskRequest,
) (*domain.ScheduledTask, error) {
	m.lastID = id
	m.lastUpdate = req
	return m.task, m.err
}

func (m *mockTaskService) Enable(_ context.Context, id string) (*domain.ScheduledTask, bool, error) {
	m.lastID = id
	return m.task, m.changed, m.err
}

func (m *mockTaskService) Disable(_ context.Context, id string) (*domain.ScheduledTask, bool, error) {
	m.lastID = id
	return m.task, m.changed, m.err
}

func (m *mockTaskService) Delete(_ context.Context, id string) error {
	m.lastID = id
	m.deleteCalls++
	return m.err
}

func (m *mockTaskService) RunNow(_ context.Context, id string) (domain.TaskExecutionRecord, error) {
	m.lastID = id
	return m.record, m.err
}

func (m *mockTaskService) History(_ context.Context, id string, limit int) ([]domain.TaskExecutionRecord, error) {
	m.lastID = id
	m.lastLimit = limit
	return m.history, m.err
}

// mockCatalog is a mock implementation of driving.OperationCatalog.
type mockCatalog struct {
	ops    []domain.OperationInfo
	result *domain.OperationResult
	err    error

	lastName   string
	lastParams domain.Params
}

func (m *mockCatalog) List() []domain.OperationInfo {
	return m.ops
}

func (m *mockCatalog) Invoke(_ context.Context, name string, params domain.Params) (*domain.OperationResult, error) {
	m.lastName = name
	m.lastParams = params
	return m.result, m.err
}

// mockResolver is a mock implementation of driving.NameResolver.
type mockResolver struct {
	matches   []driving.OperationMatch
	lastQuery string
	lastLimit int
}

func (m *mockResolver) Resolve(exactName, _ string) (string, error) {
	return exactName, nil
}

func (m *mockResolver) Candidates(query string, limit int) []driving.OperationMatch {
	m.lastQuery = query
	m.lastLimit = limit
	return m.matches
}

// resultText returns the text of the first content block of res.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "first content block is %T", res.Content[0])
	return text.Text
}

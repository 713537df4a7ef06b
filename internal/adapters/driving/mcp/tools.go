package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

// Scheduler tool names.
const (
	ToolCreateTask     = "Scheduler_CreateTask"
	ToolListTasks      = "Scheduler_ListTasks"
	ToolGetTaskDetails = "Scheduler_GetTaskDetails"
	ToolUpdateTask     = "Scheduler_UpdateTask"
	ToolEnableTask     = "Scheduler_EnableTask"
	ToolDisableTask    = "Scheduler_DisableTask"
	ToolDeleteTask     = "Scheduler_DeleteTask"
	ToolRunTaskNow     = "Scheduler_RunTaskNow"
	ToolGetTaskHistory = "Scheduler_GetTaskHistory"
	ToolFindTool       = "Scheduler_FindTool"
)

// schedulerTools lists the names registered by registerTools.
var schedulerTools = map[string]bool{
	ToolCreateTask: true, ToolListTasks: true, ToolGetTaskDetails: true,
	ToolUpdateTask: true, ToolEnableTask: true, ToolDisableTask: true,
	ToolDeleteTask: true, ToolRunTaskNow: true, ToolGetTaskHistory: true,
	ToolFindTool: true,
}

// CreateTaskInput is the input schema for Scheduler_CreateTask.
type CreateTaskInput struct {
	Name           string         `json:"name" jsonschema:"human-readable task name"`
	CronExpression string         `json:"cronExpression" jsonschema:"cron expression (e.g. 0 2 * * *) or interval such as 15m"`
	ToolName       string         `json:"toolName,omitempty" jsonschema:"exact operation name; mutually exclusive with toolQuery"`
	ToolQuery      string         `json:"toolQuery,omitempty" jsonschema:"free-text description of the operation to run; mutually exclusive with toolName"`
	ToolParams     map[string]any `json:"toolParams,omitempty" jsonschema:"parameters passed to the operation on every run"`
	Enabled        *bool          `json:"enabled,omitempty" jsonschema:"whether to arm the schedule immediately (default true)"`
}

// CreateTaskOutput is the output schema for Scheduler_CreateTask.
type CreateTaskOutput struct {
	TaskID   string `json:"taskId"`
	ToolName string `json:"toolName"`
	Enabled  bool   `json:"enabled"`
	Message  string `json:"message"`
}

// TaskIDInput is the input schema for tools addressing a single task.
type TaskIDInput struct {
	TaskID string `json:"taskId" jsonschema:"the task id"`
}

// ListTasksInput is the (empty) input schema for Scheduler_ListTasks.
type ListTasksInput struct{}

// ListTasksOutput is the output schema for Scheduler_ListTasks.
type ListTasksOutput struct {
	Tasks []TaskOutput `json:"tasks"`
	Count int          `json:"count"`
}

// UpdateTaskInput is the input schema for Scheduler_UpdateTask.
type UpdateTaskInput struct {
	TaskID         string         `json:"taskId" jsonschema:"the task id"`
	Name           *string        `json:"name,omitempty" jsonschema:"new task name"`
	CronExpression *string        `json:"cronExpression,omitempty" jsonschema:"new cron expression or interval"`
	ToolName       *string        `json:"toolName,omitempty" jsonschema:"new exact operation name; mutually exclusive with toolQuery"`
	ToolQuery      *string        `json:"toolQuery,omitempty" jsonschema:"free-text description of the new operation; mutually exclusive with toolName"`
	ToolParams     map[string]any `json:"toolParams,omitempty" jsonschema:"replacement operation parameters"`
	Enabled        *bool          `json:"enabled,omitempty" jsonschema:"enable or disable the task"`
}

// MessageOutput is the output schema for tools that confirm a change.
type MessageOutput struct {
	TaskID  string `json:"taskId"`
	Message string `json:"message"`
}

// StateOutput is the output schema for Scheduler_EnableTask and Scheduler_DisableTask.
type StateOutput struct {
	TaskID  string `json:"taskId"`
	Enabled bool   `json:"enabled"`
	Changed bool   `json:"changed"`
	Message string `json:"message"`
}

// RunTaskOutput is the output schema for Scheduler_RunTaskNow.
type RunTaskOutput struct {
	TaskID string `json:"taskId"`
	ExecutionOutput
}

// HistoryInput is the input schema for Scheduler_GetTaskHistory.
type HistoryInput struct {
	TaskID string `json:"taskId" jsonschema:"the task id"`
	Limit  int    `json:"limit,omitempty" jsonschema:"number of records to return, newest first (default 10, max 20)"`
}

// HistoryOutput is the output schema for Scheduler_GetTaskHistory.
type HistoryOutput struct {
	TaskID  string            `json:"taskId"`
	Records []ExecutionOutput `json:"records"`
	Count   int               `json:"count"`
}

// FindToolInput is the input schema for Scheduler_FindTool.
type FindToolInput struct {
	Query string `json:"query" jsonschema:"free-text description of what the operation should do"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of candidates (default 3)"`
}

// FindToolOutput is the output schema for Scheduler_FindTool.
type FindToolOutput struct {
	Matches []MatchOutput `json:"matches"`
	Count   int           `json:"count"`
}

// MatchOutput is a ranked operation candidate.
type MatchOutput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Similarity  float64 `json:"similarity"`
}

// registerTools registers all scheduler tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolCreateTask,
		Description: "Create a scheduled task that runs an operation on a cron schedule. Give either toolName or toolQuery.",
	}, s.handleCreateTask)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolListTasks,
		Description: "List all scheduled tasks without their execution history",
	}, s.handleListTasks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolGetTaskDetails,
		Description: "Get the full record of a scheduled task, including execution history",
	}, s.handleGetTaskDetails)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolUpdateTask,
		Description: "Update fields of a scheduled task; only the fields given are changed",
	}, s.handleUpdateTask)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolEnableTask,
		Description: "Enable a scheduled task and arm its timer",
	}, s.handleEnableTask)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolDisableTask,
		Description: "Disable a scheduled task and stop its timer",
	}, s.handleDisableTask)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolDeleteTask,
		Description: "Delete a scheduled task",
	}, s.handleDeleteTask)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolRunTaskNow,
		Description: "Run a scheduled task immediately and return the execution result",
	}, s.handleRunTaskNow)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolGetTaskHistory,
		Description: "Get the most recent execution records of a scheduled task",
	}, s.handleGetTaskHistory)

	if s.ports.Resolver != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolFindTool,
			Description: "Find registered operations matching a free-text description",
		}, s.handleFindTool)
	}
}

func (s *Server) handleCreateTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateTaskInput,
) (*mcp.CallToolResult, CreateTaskOutput, error) {
	task, err := s.ports.Tasks.Create(ctx, driving.CreateTaskRequest{
		Name:           input.Name,
		CronExpression: input.CronExpression,
		ToolName:       input.ToolName,
		ToolQuery:      input.ToolQuery,
		ToolParams:     input.ToolParams,
		Enabled:        input.Enabled,
	})
	if task == nil {
		return nil, CreateTaskOutput{}, err
	}

	output := CreateTaskOutput{
		TaskID:   task.ID,
		ToolName: task.ToolName,
		Enabled:  task.Enabled,
		Message:  fmt.Sprintf("Created task %q (%s) running %s", task.Name, task.ID, task.ToolName),
	}
	if err != nil {
		output.Message = err.Error()
		return scheduleFailure(err), output, nil
	}
	return nil, output, nil
}

// scheduleFailure reports a task that was stored but left disabled because
// its schedule could not be armed. The structured output still carries the
// task so the caller can fix the expression.
func scheduleFailure(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}

func (s *Server) handleListTasks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListTasksInput,
) (*mcp.CallToolResult, ListTasksOutput, error) {
	tasks, err := s.ports.Tasks.List(ctx)
	if err != nil {
		return nil, ListTasksOutput{}, err
	}

	output := ListTasksOutput{
		Tasks: make([]TaskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i := range tasks {
		output.Tasks[i] = summaryOutput(tasks[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetTaskDetails(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TaskIDInput,
) (*mcp.CallToolResult, TaskOutput, error) {
	task, err := s.ports.Tasks.Get(ctx, input.TaskID)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	return nil, taskOutput(task), nil
}

func (s *Server) handleUpdateTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateTaskInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	task, err := s.ports.Tasks.Update(ctx, input.TaskID, driving.UpdateTaskRequest{
		Name:           input.Name,
		CronExpression: input.CronExpression,
		ToolName:       input.ToolName,
		ToolQuery:      input.ToolQuery,
		ToolParams:     input.ToolParams,
		Enabled:        input.Enabled,
	})
	if task == nil {
		return nil, MessageOutput{}, err
	}

	output := MessageOutput{
		TaskID:  task.ID,
		Message: fmt.Sprintf("Updated task %q", task.Name),
	}
	if err != nil {
		output.Message = err.Error()
		return scheduleFailure(err), output, nil
	}
	return nil, output, nil
}

func (s *Server) handleEnableTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TaskIDInput,
) (*mcp.CallToolResult, StateOutput, error) {
	task, changed, err := s.ports.Tasks.Enable(ctx, input.TaskID)
	if err != nil {
		return nil, StateOutput{}, err
	}
	return nil, stateOutput(task, changed, "enabled"), nil
}

func (s *Server) handleDisableTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TaskIDInput,
) (*mcp.CallToolResult, StateOutput, error) {
	task, changed, err := s.ports.Tasks.Disable(ctx, input.TaskID)
	if err != nil {
		return nil, StateOutput{}, err
	}
	return nil, stateOutput(task, changed, "disabled"), nil
}

func stateOutput(task *domain.ScheduledTask, changed bool, state string) StateOutput {
	msg := fmt.Sprintf("Task %q %s", task.Name, state)
	if !changed {
		msg = fmt.Sprintf("Task %q is already %s", task.Name, state)
	}
	return StateOutput{
		TaskID:  task.ID,
		Enabled: task.Enabled,
		Changed: changed,
		Message: msg,
	}
}

func (s *Server) handleDeleteTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TaskIDInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	if err := s.ports.Tasks.Delete(ctx, input.TaskID); err != nil {
		return nil, MessageOutput{}, err
	}
	return nil, MessageOutput{
		TaskID:  input.TaskID,
		Message: fmt.Sprintf("Deleted task %s", input.TaskID),
	}, nil
}

func (s *Server) handleRunTaskNow(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TaskIDInput,
) (*mcp.CallToolResult, RunTaskOutput, error) {
	record, err := s.ports.Tasks.RunNow(ctx, input.TaskID)
	if err != nil {
		return nil, RunTaskOutput{}, err
	}
	return nil, RunTaskOutput{
		TaskID:          input.TaskID,
		ExecutionOutput: executionOutput(record),
	}, nil
}

func (s *Server) handleGetTaskHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	records, err := s.ports.Tasks.History(ctx, input.TaskID, input.Limit)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	return nil, HistoryOutput{
		TaskID:  input.TaskID,
		Records: executionOutputs(records),
		Count:   len(records),
	}, nil
}

func (s *Server) handleFindTool(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FindToolInput,
) (*mcp.CallToolResult, FindToolOutput, error) {
	if input.Query == "" {
		return nil, FindToolOutput{}, errors.New("query is required")
	}

	matches := s.ports.Resolver.Candidates(input.Query, input.Limit)
	output := FindToolOutput{
		Matches: make([]MatchOutput, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Matches[i] = MatchOutput{
			Name:        m.Name,
			Description: m.Description,
			Similarity:  m.Similarity,
		}
	}
	return nil, output, nil
}

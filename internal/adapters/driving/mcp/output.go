package mcp

import (
	"maps"
	"time"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

// TaskOutput is the wire form of a task. Times are RFC 3339 strings.
type TaskOutput struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	CronExpression   string            `json:"cronExpression"`
	ToolName         string            `json:"toolName"`
	ToolParams       map[string]any    `json:"toolParams"`
	Enabled          bool              `json:"enabled"`
	Scheduled        bool              `json:"scheduled,omitempty"`
	NextRunAt        string            `json:"nextRunAt,omitempty"`
	CreatedAt        string            `json:"createdAt"`
	UpdatedAt        string            `json:"updatedAt"`
	LastRunAt        string            `json:"lastRunAt,omitempty"`
	LastRunResult    string            `json:"lastRunResult,omitempty"`
	ExecutionHistory []ExecutionOutput `json:"executionHistory,omitempty"`
}

// ExecutionOutput is the wire form of an execution record.
type ExecutionOutput struct {
	Timestamp string `json:"timestamp"`
	Result    string `json:"result"`
	Details   string `json:"details"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func params(p domain.Params) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	return maps.Clone(p)
}

func taskOutput(t *domain.ScheduledTask) TaskOutput {
	out := TaskOutput{
		ID:             t.ID,
		Name:           t.Name,
		CronExpression: t.CronExpression,
		ToolName:       t.ToolName,
		ToolParams:     params(t.ToolParams),
		Enabled:        t.Enabled,
		CreatedAt:      formatTime(t.CreatedAt),
		UpdatedAt:      formatTime(t.UpdatedAt),
		LastRunAt:      formatTimePtr(t.LastRunAt),
		LastRunResult:  t.LastRunResult.String(),
	}
	if len(t.ExecutionHistory) > 0 {
		out.ExecutionHistory = executionOutputs(t.ExecutionHistory)
	}
	return out
}

func summaryOutput(s driving.TaskSummary) TaskOutput {
	return TaskOutput{
		ID:             s.ID,
		Name:           s.Name,
		CronExpression: s.CronExpression,
		ToolName:       s.ToolName,
		ToolParams:     params(s.ToolParams),
		Enabled:        s.Enabled,
		Scheduled:      s.Scheduled,
		NextRunAt:      formatTimePtr(s.NextRunAt),
		CreatedAt:      formatTime(s.CreatedAt),
		UpdatedAt:      formatTime(s.UpdatedAt),
		LastRunAt:      formatTimePtr(s.LastRunAt),
		LastRunResult:  s.LastRunResult.String(),
	}
}

func executionOutput(r domain.TaskExecutionRecord) ExecutionOutput {
	return ExecutionOutput{
		Timestamp: formatTime(r.Timestamp),
		Result:    r.Result.String(),
		Details:   r.Details,
	}
}

func executionOutputs(records []domain.TaskExecutionRecord) []ExecutionOutput {
	out := make([]ExecutionOutput, len(records))
	for i, r := range records {
		out[i] = executionOutput(r)
	}
	return out
}

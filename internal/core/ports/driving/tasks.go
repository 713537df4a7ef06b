package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// DefaultHistoryLimit is used when a history request gives no limit.
const DefaultHistoryLimit = 10

// CreateTaskRequest holds the inputs for creating a task.
// Exactly one of ToolName and ToolQuery must be set.
type CreateTaskRequest struct {
	Name           string
	CronExpression string
	ToolName       string
	ToolQuery      string
	ToolParams     domain.Params

	// Enabled defaults to true when nil.
	Enabled *bool
}

// UpdateTaskRequest holds optional changes to a task. Nil fields are left
// untouched. At most one of ToolName and ToolQuery may be set.
type UpdateTaskRequest struct {
	Name           *string
	CronExpression *string
	ToolName       *string
	ToolQuery      *string
	ToolParams     domain.Params
	Enabled        *bool
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateTaskRequest) IsEmpty() bool {
	return r.Name == nil && r.CronExpression == nil && r.ToolName == nil &&
		r.ToolQuery == nil && r.ToolParams == nil && r.Enabled == nil
}

// TaskSummary is a task without its execution history.
type TaskSummary struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	CronExpression string                 `json:"cronExpression"`
	ToolName       string                 `json:"toolName"`
	ToolParams     domain.Params          `json:"toolParams"`
	Enabled        bool                   `json:"enabled"`
	Scheduled      bool                   `json:"scheduled"`
	NextRunAt      *time.Time             `json:"nextRunAt,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	LastRunAt      *time.Time             `json:"lastRunAt,omitempty"`
	LastRunResult  domain.ExecutionResult `json:"lastRunResult,omitempty"`
}

// TaskService manages scheduled tasks.
type TaskService interface {
	// Create adds a task, resolving its operation by exact name or fuzzy query.
	// If arming the schedule fails, the task is kept disabled and an error
	// wrapping domain.ErrSchedule is returned together with the task.
	Create(ctx context.Context, req CreateTaskRequest) (*domain.ScheduledTask, error)

	// List returns summaries of all tasks in store order.
	List(ctx context.Context) ([]TaskSummary, error)

	// Get returns the full task record, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.ScheduledTask, error)

	// Update applies req to the task and reschedules if needed.
	Update(ctx context.Context, id string, req UpdateTaskRequest) (*domain.ScheduledTask, error)

	// Enable arms the task. changed is false if it was already enabled.
	Enable(ctx context.Context, id string) (task *domain.ScheduledTask, changed bool, err error)

	// Disable disarms the task. changed is false if it was already disabled.
	Disable(ctx context.Context, id string) (task *domain.ScheduledTask, changed bool, err error)

	// Delete disarms and removes the task, or returns domain.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// RunNow executes the task immediately, regardless of schedule or state.
	// The record is always returned; err wraps domain.ErrExecution on failure.
	RunNow(ctx context.Context, id string) (domain.TaskExecutionRecord, error)

	// History returns up to limit of the newest execution records.
	History(ctx context.Context, id string, limit int) ([]domain.TaskExecutionRecord, error)
}

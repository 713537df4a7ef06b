package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
	"github.com/custodia-labs/tidy/internal/logger"
)

// Executor runs a task's operation and records the outcome in its history.
type Executor struct {
	registry driven.OperationRegistry
	tasks    *TaskCollection
	now      func() time.Time
}

// NewExecutor creates an executor that invokes through registry and records into tasks.
func NewExecutor(registry driven.OperationRegistry, tasks *TaskCollection) *Executor {
	return &Executor{
		registry: registry,
		tasks:    tasks,
		now:      time.Now,
	}
}

// Execute invokes the task's operation once and records the result.
//
// The record is always returned. On failure the error wraps
// domain.ErrExecution; the failure is recorded in history either way.
// If the task is deleted while the operation runs, the record is
// dropped and only logged.
func (e *Executor) Execute(ctx context.Context, taskID string) (domain.TaskExecutionRecord, error) {
	task, ok := e.tasks.Find(taskID)
	if !ok {
		return domain.TaskExecutionRecord{}, fmt.Errorf("%w: task %s", domain.ErrNotFound, taskID)
	}

	logger.Debug("executing task %s (%s) via %s", task.ID, task.Name, task.ToolName)
	rec := domain.TaskExecutionRecord{Timestamp: e.now()}

	result, err := e.registry.Invoke(ctx, task.ToolName, task.ToolParams)
	switch {
	case err != nil:
		rec.Result = domain.ExecutionFailure
		rec.Details = domain.TruncateDetails(err.Error())
	case result != nil && result.IsError:
		rec.Result = domain.ExecutionFailure
		rec.Details = domain.TruncateDetails(result.Text())
		if rec.Details == "" {
			rec.Details = "operation reported an error"
		}
	default:
		rec.Result = domain.ExecutionSuccess
		rec.Details = domain.TruncateDetails(result.Text())
	}

	_, err = e.tasks.Update(ctx, taskID, func(t *domain.ScheduledTask) error {
		t.RecordExecution(rec, e.now())
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("task %s was deleted while running; result not recorded", taskID)
	}

	if rec.Result == domain.ExecutionFailure {
		return rec, fmt.Errorf("%w: %s", domain.ErrExecution, rec.Details)
	}
	return rec, nil
}

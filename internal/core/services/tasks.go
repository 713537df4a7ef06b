package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
	"github.com/custodia-labs/tidy/internal/logger"
)

// Ensure TaskService implements the interfaces.
var (
	_ driving.TaskService = (*TaskService)(nil)
	_ driving.Scheduler   = (*TaskService)(nil)
)

// TaskService implements task management on top of the collection,
// resolver, engine and executor.
type TaskService struct {
	tasks    *TaskCollection
	resolver driving.NameResolver
	engine   *Engine
	executor *Executor

	now   func() time.Time
	newID func() string
}

// NewTaskService creates a task service.
func NewTaskService(
	tasks *TaskCollection,
	resolver driving.NameResolver,
	engine *Engine,
	executor *Executor,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		resolver: resolver,
		engine:   engine,
		executor: executor,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Load reads the task document without arming timers. A malformed or
// unreadable document is logged and the service continues with no tasks.
func (s *TaskService) Load(ctx context.Context) error {
	if err := s.tasks.Load(ctx); err != nil {
		logger.Error("%v; starting with an empty task list", err)
	}
	logger.Debug("loaded %d task(s) from %s", s.tasks.Len(), s.tasks.Path())
	return nil
}

// Start loads tasks, arms a timer for every enabled task and starts firing.
func (s *TaskService) Start(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	logger.Section("Restoring schedules")
	if failed := s.engine.Restore(s.tasks.List()); failed > 0 {
		logger.Warn("%d task(s) could not be scheduled", failed)
	}
	s.engine.Start()
	return nil
}

// Stop halts all timers and waits for in-flight executions or ctx.
func (s *TaskService) Stop(ctx context.Context) error {
	return s.engine.Stop(ctx)
}

// Reload re-reads the task document and re-arms timers if it changed.
func (s *TaskService) Reload(ctx context.Context) error {
	changed, err := s.tasks.Reload(ctx)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	logger.Info("task document changed; re-arming timers")
	s.engine.Restore(s.tasks.List())
	return nil
}

// Create adds a task bound to a resolved operation and schedules it.
func (s *TaskService) Create(ctx context.Context, req driving.CreateTaskRequest) (*domain.ScheduledTask, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	expr := strings.TrimSpace(req.CronExpression)
	if expr == "" {
		return nil, fmt.Errorf("%w: cronExpression is required", domain.ErrInvalidInput)
	}

	toolName, err := s.resolver.Resolve(req.ToolName, req.ToolQuery)
	if err != nil {
		return nil, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	params := maps.Clone(req.ToolParams)
	if params == nil {
		params = domain.Params{}
	}

	now := s.now()
	task := domain.ScheduledTask{
		ID:             s.newID(),
		Name:           name,
		CronExpression: expr,
		ToolName:       toolName,
		ToolParams:     params,
		Enabled:        enabled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.tasks.Add(ctx, task); err != nil {
		return nil, err
	}
	logger.Info("created task %s (%s) -> %s", task.ID, task.Name, task.ToolName)

	if err := s.engine.Schedule(task); err != nil {
		disabled := s.forceDisable(ctx, task.ID)
		return disabled, fmt.Errorf("task %s was created but disabled: %w", task.ID, err)
	}
	return &task, nil
}

// List returns summaries of every task in store order.
func (s *TaskService) List(_ context.Context) ([]driving.TaskSummary, error) {
	tasks := s.tasks.List()
	out := make([]driving.TaskSummary, len(tasks))
	for i := range tasks {
		out[i] = s.summarise(&tasks[i])
	}
	return out, nil
}

func (s *TaskService) summarise(t *domain.ScheduledTask) driving.TaskSummary {
	summary := driving.TaskSummary{
		ID:             t.ID,
		Name:           t.Name,
		CronExpression: t.CronExpression,
		ToolName:       t.ToolName,
		ToolParams:     t.ToolParams,
		Enabled:        t.Enabled,
		Scheduled:      s.engine.IsScheduled(t.ID),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		LastRunAt:      t.LastRunAt,
		LastRunResult:  t.LastRunResult,
	}
	if next, ok := s.engine.NextRun(t.ID); ok {
		summary.NextRunAt = &next
	}
	return summary
}

// Get returns the full task record.
func (s *TaskService) Get(_ context.Context, id string) (*domain.ScheduledTask, error) {
	task, ok := s.tasks.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
	}
	return &task, nil
}

// Update applies the non-nil fields of req. The timer is replaced only if
// the expression or enabled state changed.
func (s *TaskService) Update(
	ctx context.Context,
	id string,
	req driving.UpdateTaskRequest,
) (*domain.ScheduledTask, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}

	var (
		name, expr, toolName string
		err                  error
	)
	if req.Name != nil {
		if name = strings.TrimSpace(*req.Name); name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
	}
	if req.CronExpression != nil {
		if expr = strings.TrimSpace(*req.CronExpression); expr == "" {
			return nil, fmt.Errorf("%w: cronExpression cannot be empty", domain.ErrInvalidInput)
		}
	}
	if req.ToolName != nil || req.ToolQuery != nil {
		toolName, err = s.resolver.Resolve(deref(req.ToolName), deref(req.ToolQuery))
		if err != nil {
			return nil, err
		}
	}

	var reschedule bool
	updated, err := s.tasks.Update(ctx, id, func(t *domain.ScheduledTask) error {
		if name != "" {
			t.Name = name
		}
		if expr != "" && expr != t.CronExpression {
			t.CronExpression = expr
			reschedule = true
		}
		if toolName != "" {
			t.ToolName = toolName
		}
		if req.ToolParams != nil {
			t.ToolParams = maps.Clone(req.ToolParams)
		}
		if req.Enabled != nil && *req.Enabled != t.Enabled {
			t.Enabled = *req.Enabled
			reschedule = true
		}
		t.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reschedule {
		if err := s.engine.Schedule(updated); err != nil {
			disabled := s.forceDisable(ctx, id)
			return disabled, fmt.Errorf("task %s was updated but disabled: %w", id, err)
		}
	}
	return &updated, nil
}

// Enable arms the task's timer. An already-enabled task is returned unchanged.
func (s *TaskService) Enable(ctx context.Context, id string) (*domain.ScheduledTask, bool, error) {
	return s.setEnabled(ctx, id, true)
}

// Disable stops the task's timer. An already-disabled task is returned unchanged.
func (s *TaskService) Disable(ctx context.Context, id string) (*domain.ScheduledTask, bool, error) {
	return s.setEnabled(ctx, id, false)
}

func (s *TaskService) setEnabled(ctx context.Context, id string, enabled bool) (*domain.ScheduledTask, bool, error) {
	current, ok := s.tasks.Find(id)
	if !ok {
		return nil, false, fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
	}
	if current.Enabled == enabled {
		return &current, false, nil
	}

	updated, err := s.tasks.Update(ctx, id, func(t *domain.ScheduledTask) error {
		t.Enabled = enabled
		t.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if err := s.engine.Schedule(updated); err != nil {
		disabled := s.forceDisable(ctx, id)
		return disabled, false, fmt.Errorf("task %s was updated but disabled: %w", id, err)
	}
	return &updated, true, nil
}

// Delete stops the task's timer and removes it from the store.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if _, ok := s.tasks.Find(id); !ok {
		return fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
	}

	s.engine.Unschedule(id)
	if !s.tasks.Remove(ctx, id) {
		return fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
	}
	logger.Info("deleted task %s", id)
	return nil
}

// RunNow executes the task immediately, whatever its schedule or state.
func (s *TaskService) RunNow(ctx context.Context, id string) (domain.TaskExecutionRecord, error) {
	return s.executor.Execute(ctx, id)
}

// History returns up to limit of the newest records. A non-positive limit
// means DefaultHistoryLimit; limits above domain.MaxHistoryEntries are capped.
func (s *TaskService) History(_ context.Context, id string, limit int) ([]domain.TaskExecutionRecord, error) {
	task, ok := s.tasks.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
	}
	return task.RecentHistory(clampHistoryLimit(limit)), nil
}

func clampHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return driving.DefaultHistoryLimit
	case limit > domain.MaxHistoryEntries:
		return domain.MaxHistoryEntries
	default:
		return limit
	}
}

// forceDisable persists enabled=false after a scheduling failure and
// returns the stored task.
func (s *TaskService) forceDisable(ctx context.Context, id string) *domain.ScheduledTask {
	s.engine.Unschedule(id)
	task, err := s.tasks.Update(ctx, id, func(t *domain.ScheduledTask) error {
		t.Enabled = false
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("disable task %s: %v", id, err)
		}
		return nil
	}
	return &task
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

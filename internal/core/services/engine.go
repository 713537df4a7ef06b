package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
	"github.com/custodia-labs/tidy/internal/logger"
)

// Engine binds enabled tasks to live timers. A task is Scheduled while its
// timer is armed and Unscheduled otherwise; at most one timer exists per id.
type Engine struct {
	timers   driven.Timers
	executor *Executor

	mu    sync.Mutex
	armed map[string]string // task id -> armed expression
}

// NewEngine creates an engine that arms timers through timers and runs
// fires through executor.
func NewEngine(timers driven.Timers, executor *Executor) *Engine {
	return &Engine{
		timers:   timers,
		executor: executor,
		armed:    make(map[string]string),
	}
}

// Validate checks that expr can be scheduled.
func (e *Engine) Validate(expr string) error {
	if err := e.timers.Validate(expr); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchedule, err)
	}
	return nil
}

// Schedule stops any timer for the task, then arms a new one if the task
// is enabled. A disabled task ends Unscheduled.
func (e *Engine) Schedule(task domain.ScheduledTask) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.disarm(task.ID)
	if !task.Enabled {
		return nil
	}

	if err := e.timers.Arm(task.ID, task.CronExpression, e.fire(task.ID)); err != nil {
		return fmt.Errorf("%w: %q: %v", domain.ErrSchedule, task.CronExpression, err)
	}
	e.armed[task.ID] = task.CronExpression
	logger.Debug("armed task %s with %q", task.ID, task.CronExpression)
	return nil
}

// Unschedule stops the task's timer. Returns false if none was armed.
func (e *Engine) Unschedule(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disarm(id)
}

func (e *Engine) disarm(id string) bool {
	delete(e.armed, id)
	return e.timers.Disarm(id)
}

// IsScheduled reports whether the task has a live timer.
func (e *Engine) IsScheduled(id string) bool {
	return e.timers.Armed(id)
}

// NextRun returns the next fire time of a scheduled task.
func (e *Engine) NextRun(id string) (time.Time, bool) {
	return e.timers.Next(id)
}

// Restore brings timers in line with tasks: tasks that are gone or disabled
// lose their timer, enabled tasks whose expression changed are re-armed, and
// untouched timers keep running. An invalid expression is logged and the
// task skipped. Returns the number of failed tasks.
func (e *Engine) Restore(tasks []domain.ScheduledTask) int {
	want := make(map[string]struct{}, len(tasks))
	for i := range tasks {
		if tasks[i].Enabled {
			want[tasks[i].ID] = struct{}{}
		}
	}

	e.mu.Lock()
	for id := range e.armed {
		if _, ok := want[id]; !ok {
			e.disarm(id)
		}
	}
	e.mu.Unlock()

	failed := 0
	for i := range tasks {
		t := tasks[i]
		if !t.Enabled || e.armedWith(t.ID, t.CronExpression) {
			continue
		}
		if err := e.Schedule(t); err != nil {
			failed++
			logger.Error("task %s (%s) not scheduled: %v", t.ID, t.Name, err)
		}
	}
	return failed
}

func (e *Engine) armedWith(id, expr string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	armedExpr, ok := e.armed[id]
	return ok && armedExpr == expr && e.timers.Armed(id)
}

// Start begins firing armed timers.
func (e *Engine) Start() {
	e.timers.Start()
}

// Stop halts all timers and waits for in-flight executions or ctx.
func (e *Engine) Stop(ctx context.Context) error {
	return e.timers.Stop(ctx)
}

// fire returns the timer callback for id. Outcomes are recorded in history
// by the executor; here they are only logged.
func (e *Engine) fire(id string) driven.FireFunc {
	return func(ctx context.Context) {
		rec, err := e.executor.Execute(ctx, id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			logger.Warn("timer fired for missing task %s", id)
		case err != nil:
			logger.Error("scheduled run of task %s failed: %v", id, err)
		default:
			logger.Info("scheduled run of task %s: %s", id, rec.Result)
		}
	}
}

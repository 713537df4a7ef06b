package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
)

// Ensure TaskStore implements the interface.
var _ driven.TaskStore = (*TaskStore)(nil)

// TaskStore keeps the task document in memory; nothing survives a restart.
type TaskStore struct {
	mu    sync.RWMutex
	tasks []domain.ScheduledTask
}

// NewTaskStore creates an in-memory task store seeded with tasks.
func NewTaskStore(tasks ...domain.ScheduledTask) *TaskStore {
	return &TaskStore{tasks: cloneTasks(tasks)}
}

// Load returns a copy of the stored tasks.
func (s *TaskStore) Load(_ context.Context) ([]domain.ScheduledTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks), nil
}

// Save replaces the stored tasks with a copy of tasks.
func (s *TaskStore) Save(_ context.Context, tasks []domain.ScheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = cloneTasks(tasks)
	return nil
}

// Path returns ":memory:".
func (s *TaskStore) Path() string {
	return ":memory:"
}

func cloneTasks(tasks []domain.ScheduledTask) []domain.ScheduledTask {
	out := make([]domain.ScheduledTask, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}

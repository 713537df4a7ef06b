package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
	"github.com/custodia-labs/tidy/internal/logger"
)

// TaskCollection is the authoritative in-memory list of scheduled tasks.
// Every mutation is persisted through the TaskStore before it returns.
//
// Access is serialised by mu. Saves are serialised by saveMu and take their
// snapshot while holding it, so the last save to finish always carries the
// newest state even when mutations race. gen counts mutations and savedGen is
// the newest generation known to be on disk; Reload never adopts the document
// while they differ.
type TaskCollection struct {
	store driven.TaskStore

	mu       sync.RWMutex
	tasks    []domain.ScheduledTask
	gen      uint64
	savedGen uint64

	saveMu sync.Mutex
}

// NewTaskCollection creates an empty collection backed by store.
func NewTaskCollection(store driven.TaskStore) *TaskCollection {
	return &TaskCollection{store: store}
}

// Load replaces the in-memory list with the persisted document.
// A store error leaves the collection empty and is returned for logging.
func (c *TaskCollection) Load(ctx context.Context) error {
	tasks, err := c.store.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.savedGen = c.gen
	if err != nil {
		c.tasks = nil
		return fmt.Errorf("load tasks from %s: %w", c.store.Path(), err)
	}
	c.tasks = tasks
	return nil
}

// Reload re-reads the persisted document and adopts it if it differs from
// memory. It reports whether anything changed. A store error leaves memory
// untouched, and so do mutations that have not been saved yet: their pending
// save wins over the document.
func (c *TaskCollection) Reload(ctx context.Context) (bool, error) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	loaded, err := c.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("reload tasks from %s: %w", c.store.Path(), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != c.savedGen {
		logger.Debug("reload of %s skipped: unsaved changes pending", c.store.Path())
		return false, nil
	}
	if sameTasks(c.tasks, loaded) {
		return false, nil
	}
	c.tasks = loaded
	c.gen++
	c.savedGen = c.gen
	return true, nil
}

// Save writes the current collection and returns any store error.
func (c *TaskCollection) Save(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.RLock()
	snapshot, gen := c.snapshot(), c.gen
	c.mu.RUnlock()

	if err := c.store.Save(ctx, snapshot); err != nil {
		return err
	}

	c.mu.Lock()
	c.savedGen = max(c.savedGen, gen)
	c.mu.Unlock()
	return nil
}

// persist is Save for mutators: errors are logged, never returned.
func (c *TaskCollection) persist(ctx context.Context) {
	if err := c.Save(ctx); err != nil {
		logger.Error("save tasks to %s: %v", c.store.Path(), err)
	}
}

// Add appends task and persists. Returns domain.ErrAlreadyExists if the id is taken.
func (c *TaskCollection) Add(ctx context.Context, task domain.ScheduledTask) error {
	c.mu.Lock()
	if c.indexOf(task.ID) >= 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: task %s", domain.ErrAlreadyExists, task.ID)
	}
	c.tasks = append(c.tasks, task.Clone())
	c.gen++
	c.mu.Unlock()

	c.persist(ctx)
	return nil
}

// Remove deletes the task with id and persists. Returns false if absent.
func (c *TaskCollection) Remove(ctx context.Context, id string) bool {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
	c.gen++
	c.mu.Unlock()

	c.persist(ctx)
	return true
}

// Find returns a copy of the task with id.
func (c *TaskCollection) Find(id string) (domain.ScheduledTask, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return domain.ScheduledTask{}, false
	}
	return c.tasks[i].Clone(), true
}

// Update applies mutate to the task with id and persists the result.
// If mutate returns an error the task is left unchanged and nothing is saved.
// Returns domain.ErrNotFound if no task has that id.
func (c *TaskCollection) Update(
	ctx context.Context,
	id string,
	mutate func(*domain.ScheduledTask) error,
) (domain.ScheduledTask, error) {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return domain.ScheduledTask{}, fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
	}

	working := c.tasks[i].Clone()
	if err := mutate(&working); err != nil {
		c.mu.Unlock()
		return domain.ScheduledTask{}, err
	}
	working.ID = id
	c.tasks[i] = working
	c.gen++
	c.mu.Unlock()

	c.persist(ctx)
	return working.Clone(), nil
}

// List returns copies of all tasks in store order.
func (c *TaskCollection) List() []domain.ScheduledTask {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot()
}

// snapshot copies the tasks. Caller must hold mu.
func (c *TaskCollection) snapshot() []domain.ScheduledTask {
	out := make([]domain.ScheduledTask, len(c.tasks))
	for i := range c.tasks {
		out[i] = c.tasks[i].Clone()
	}
	return out
}

// Len returns the number of tasks.
func (c *TaskCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// Path returns the location of the persisted document.
func (c *TaskCollection) Path() string {
	return c.store.Path()
}

// indexOf returns the position of id, or -1. Caller must hold mu.
func (c *TaskCollection) indexOf(id string) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// sameTasks compares two collections by their document encoding, which
// ignores monotonic clock readings that differ after a round trip.
func sameTasks(a, b []domain.ScheduledTask) bool {
	if len(a) != len(b) {
		return false
	}
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}

package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
)

// --- mockTaskStore ---

// mockTaskStore implements driven.TaskStore in memory, counting saves.
type mockTaskStore struct {
	mu      sync.Mutex
	tasks   []domain.ScheduledTask
	saves   int
	loadErr error
	saveErr error
}

func newMockTaskStore(tasks ...domain.ScheduledTask) *mockTaskStore {
	return &mockTaskStore{tasks: tasks}
}

func (m *mockTaskStore) Load(_ context.Context) ([]domain.ScheduledTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]domain.ScheduledTask, len(m.tasks))
	for i := range m.tasks {
		out[i] = m.tasks[i].Clone()
	}
	return out, nil
}

func (m *mockTaskStore) Save(_ context.Context, tasks []domain.ScheduledTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tasks = make([]domain.ScheduledTask, len(tasks))
	for i := range tasks {
		m.tasks[i] = tasks[i].Clone()
	}
	return nil
}

func (m *mockTaskStore) Path() string { return "mock://tasks" }

func (m *mockTaskStore) saved() []domain.ScheduledTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks
}

func (m *mockTaskStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// --- fakeTimers ---

var errBadExpression = errors.New("bad expression")

type fakeTimer struct {
	expr string
	fire driven.FireFunc
}

// fakeTimers implements driven.Timers without real clocks. Expressions
// starting with "invalid" are rejected. Fire triggers a timer by hand.
type fakeTimers struct {
	mu      sync.Mutex
	live    map[string]fakeTimer
	arms    map[string]int
	started bool
	stopped bool
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{
		live: make(map[string]fakeTimer),
		arms: make(map[string]int),
	}
}

func (f *fakeTimers) Validate(expr string) error {
	if strings.HasPrefix(expr, "invalid") || strings.TrimSpace(expr) == "" {
		return errBadExpression
	}
	return nil
}

func (f *fakeTimers) Arm(id, expr string, fire driven.FireFunc) error {
	if err := f.Validate(expr); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.live[id] = fakeTimer{expr: expr, fire: fire}
	f.arms[id]++
	return nil
}

func (f *fakeTimers) Disarm(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.live[id]
	delete(f.live, id)
	return ok
}

func (f *fakeTimers) Armed(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.live[id]
	return ok
}

func (f *fakeTimers) Next(id string) (time.Time, bool) {
	if !f.Armed(id) {
		return time.Time{}, false
	}
	return time.Date(2030, 1, 1, 2, 0, 0, 0, time.UTC), true
}

func (f *fakeTimers) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func (f *fakeTimers) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
}

func (f *fakeTimers) Stop(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeTimers) Fire(ctx context.Context, id string) bool {
	f.mu.Lock()
	t, ok := f.live[id]
	f.mu.Unlock()
	if ok {
		t.fire(ctx)
	}
	return ok
}

func (f *fakeTimers) armCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.arms[id]
}

// --- fakeClock ---

// fakeClock returns a strictly increasing time on every call.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

var (
	_ driven.TaskStore = (*mockTaskStore)(nil)
	_ driven.Timers    = (*fakeTimers)(nil)
)

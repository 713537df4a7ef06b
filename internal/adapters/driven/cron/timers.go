package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/custodia-labs/tidy/internal/core/ports/driven"
	"github.com/custodia-labs/tidy/internal/logger"
)

// Ensure Timers implements the interface.
var _ driven.Timers = (*Timers)(nil)

type entry struct {
	id       cron.EntryID
	schedule cron.Schedule
}

// Timers keeps one cron entry per task id.
type Timers struct {
	mu      sync.Mutex
	cron    *cron.Cron
	parser  cron.Parser
	entries map[string]entry

	ctx    context.Context
	cancel context.CancelFunc
}

// NewTimers creates a stopped timer set evaluating schedules in loc.
// A nil loc means time.Local.
func NewTimers(loc *time.Location) *Timers {
	if loc == nil {
		loc = time.Local
	}
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	ctx, cancel := context.WithCancel(context.Background())

	return &Timers{
		cron:    cron.New(cron.WithParser(parser), cron.WithLocation(loc)),
		parser:  parser,
		entries: make(map[string]entry),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Validate checks that expr parses.
func (t *Timers) Validate(expr string) error {
	_, err := t.parse(expr)
	return err
}

func (t *Timers) parse(expr string) (cron.Schedule, error) {
	spec, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}
	schedule, err := t.parser.Parse(spec.Cron)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec.Cron, err)
	}
	return schedule, nil
}

// Arm replaces any timer for id with one firing on expr.
// On a parse error any existing timer for id is removed as well.
func (t *Timers) Arm(id, expr string, fire driven.FireFunc) error {
	schedule, parseErr := t.parse(expr)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.removeLocked(id)
	if parseErr != nil {
		return parseErr
	}

	eid := t.cron.Schedule(schedule, cron.FuncJob(t.guard(id, fire)))
	t.entries[id] = entry{id: eid, schedule: schedule}
	return nil
}

// guard wraps fire so a timer never runs twice concurrently.
func (t *Timers) guard(id string, fire driven.FireFunc) func() {
	var slot sync.Mutex
	return func() {
		if !slot.TryLock() {
			logger.Warn("task %s is still running; skipping this fire", id)
			return
		}
		defer slot.Unlock()
		fire(t.ctx)
	}
}

// Disarm removes the timer for id.
func (t *Timers) Disarm(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removeLocked(id)
}

func (t *Timers) removeLocked(id string) bool {
	e, ok := t.entries[id]
	if !ok {
		return false
	}
	t.cron.Remove(e.id)
	delete(t.entries, id)
	return true
}

// Armed reports whether id has a timer.
func (t *Timers) Armed(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[id]
	return ok
}

// Next returns the next fire time for id. Before Start it is computed
// from the schedule instead of the running cron.
func (t *Timers) Next(id string) (time.Time, bool) {
	t.mu.Lock()
	e, ok := t.entries[id]
	t.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}

	if next := t.cron.Entry(e.id).Next; !next.IsZero() {
		return next, true
	}
	return e.schedule.Next(time.Now().In(t.cron.Location())), true
}

// Len returns the number of armed timers.
func (t *Timers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Start begins firing. It is a no-op if already started.
func (t *Timers) Start() {
	t.cron.Start()
	logger.Debug("cron: started with %d timer(s)", t.Len())
}

// Stop halts firing and waits for in-flight fires. If ctx ends first,
// the fire context is cancelled and ctx's error returned.
func (t *Timers) Stop(ctx context.Context) error {
	done := t.cron.Stop()

	select {
	case <-done.Done():
		t.cancel()
		logger.Debug("cron: stopped")
		return nil
	case <-ctx.Done():
		t.cancel()
		return fmt.Errorf("waiting for running tasks: %w", ctx.Err())
	}
}

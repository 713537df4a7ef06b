package driving

import "context"

// Scheduler controls the lifetime of live task timers.
type Scheduler interface {
	// Start loads tasks and arms timers for every enabled task.
	Start(ctx context.Context) error

	// Stop disarms all timers and waits for in-flight fires.
	Stop(ctx context.Context) error

	// Reload re-reads the task document and re-arms timers if it changed.
	Reload(ctx context.Context) error
}

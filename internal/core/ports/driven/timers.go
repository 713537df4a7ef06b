package driven

import (
	"context"
	"time"
)

// FireFunc is invoked each time a timer fires.
// The context is cancelled when the timer service stops.
type FireFunc func(ctx context.Context)

// Timers owns live recurring triggers keyed by task id.
// Implementations must guarantee at most one live timer per id.
type Timers interface {
	// Validate checks that expr is a schedule the implementation can arm.
	Validate(expr string) error

	// Arm installs a timer for id, replacing any existing one.
	// Returns an error, and leaves no timer for id, if expr is invalid.
	Arm(id, expr string, fire FireFunc) error

	// Disarm stops and removes the timer for id.
	// Returns false if no timer was armed.
	Disarm(id string) bool

	// Armed reports whether a timer exists for id.
	Armed(id string) bool

	// Next returns the next fire time for id.
	Next(id string) (time.Time, bool)

	// Len returns the number of live timers.
	Len() int

	// Start begins firing armed timers. Timers may be armed before or after Start.
	Start()

	// Stop halts all firing and waits for in-flight fires to return
	// or for ctx to be done, whichever is first.
	Stop(ctx context.Context) error
}

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Used for unknown task ids and unknown exact operation names.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or conflicting input,
	// e.g. both toolName and toolQuery supplied.
	ErrInvalidInput = errors.New("invalid input")

	// Resolution Errors.

	// ErrNoMatch indicates a fuzzy query matched no registered operation.
	ErrNoMatch = errors.New("no matching operation")

	// ErrAmbiguous indicates a fuzzy query matched operations, but none
	// strongly enough to be chosen without disambiguation.
	ErrAmbiguous = errors.New("ambiguous operation query")

	// Scheduling Errors.

	// ErrSchedule indicates a schedule expression could not be armed.
	ErrSchedule = errors.New("schedule error")

	// ErrExecution indicates the invoked operation itself failed.
	ErrExecution = errors.New("execution failed")
)

package domain

import (
	"maps"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxHistoryEntries caps the execution history kept per task.
// Older entries are dropped silently once the cap is exceeded.
const MaxHistoryEntries = 20

// MaxDetailsLength caps the details text of an execution record, in runes.
const MaxDetailsLength = 500

// truncationSuffix marks details that were cut at MaxDetailsLength.
const truncationSuffix = "..."

// ExecutionResult is the outcome of one execution attempt.
type ExecutionResult string

// Execution outcomes.
const (
	// ExecutionSuccess means the operation returned without failure.
	ExecutionSuccess ExecutionResult = "success"

	// ExecutionFailure means the operation was missing, errored, or reported an error result.
	ExecutionFailure ExecutionResult = "failure"
)

// IsValid returns true if the result is recognised.
func (r ExecutionResult) IsValid() bool {
	return r == ExecutionSuccess || r == ExecutionFailure
}

// String returns the string representation.
func (r ExecutionResult) String() string {
	return string(r)
}

// TaskExecutionRecord is an immutable log entry for one execution attempt.
type TaskExecutionRecord struct {
	// Timestamp is when the execution started.
	Timestamp time.Time `json:"timestamp"`

	// Result is success or failure.
	Result ExecutionResult `json:"result"`

	// Details is a truncated summary (success) or the error message (failure).
	Details string `json:"details"`
}

// ScheduledTask is a user-defined binding of a schedule to an operation
// invocation with fixed parameters.
type ScheduledTask struct {
	// ID is the unique identifier for the task. Immutable after creation.
	ID string `json:"id"`

	// Name is a human-readable label.
	Name string `json:"name"`

	// CronExpression is a cron expression or interval shorthand.
	CronExpression string `json:"cronExpression"`

	// ToolName is the resolved, exact operation name the task invokes.
	ToolName string `json:"toolName"`

	// ToolParams is passed verbatim to the operation on every run.
	ToolParams Params `json:"toolParams"`

	// Enabled indicates whether the task has a live timer.
	Enabled bool `json:"enabled"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every mutation, including history appends.
	UpdatedAt time.Time `json:"updatedAt"`

	// LastRunAt is when the task last ran, if ever.
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`

	// LastRunResult is the outcome of the last run, if any.
	LastRunResult ExecutionResult `json:"lastRunResult,omitempty"`

	// ExecutionHistory holds the most recent runs, newest first.
	ExecutionHistory []TaskExecutionRecord `json:"executionHistory,omitempty"`
}

// RecordExecution prepends rec to the history, drops entries beyond
// MaxHistoryEntries and refreshes the denormalised last-run fields.
func (t *ScheduledTask) RecordExecution(rec TaskExecutionRecord, now time.Time) {
	history := make([]TaskExecutionRecord, 0, min(len(t.ExecutionHistory)+1, MaxHistoryEntries))
	history = append(history, rec)
	for _, prev := range t.ExecutionHistory {
		if len(history) == MaxHistoryEntries {
			break
		}
		history = append(history, prev)
	}
	t.ExecutionHistory = history

	ranAt := rec.Timestamp
	t.LastRunAt = &ranAt
	t.LastRunResult = rec.Result
	t.UpdatedAt = now
}

// RecentHistory returns up to limit of the newest execution records.
func (t *ScheduledTask) RecentHistory(limit int) []TaskExecutionRecord {
	if limit <= 0 || limit > len(t.ExecutionHistory) {
		limit = len(t.ExecutionHistory)
	}
	out := make([]TaskExecutionRecord, limit)
	copy(out, t.ExecutionHistory[:limit])
	return out
}

// Clone returns a deep copy so callers can hand tasks out without sharing
// the params map or history slice with the owning collection.
func (t *ScheduledTask) Clone() ScheduledTask {
	c := *t
	if t.ToolParams != nil {
		c.ToolParams = maps.Clone(t.ToolParams)
	}
	if t.ExecutionHistory != nil {
		c.ExecutionHistory = make([]TaskExecutionRecord, len(t.ExecutionHistory))
		copy(c.ExecutionHistory, t.ExecutionHistory)
	}
	if t.LastRunAt != nil {
		ranAt := *t.LastRunAt
		c.LastRunAt = &ranAt
	}
	return c
}

// TruncateDetails trims s to MaxDetailsLength runes, appending "..." when cut.
func TruncateDetails(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxDetailsLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxDetailsLength-len(truncationSuffix)]) + truncationSuffix
}

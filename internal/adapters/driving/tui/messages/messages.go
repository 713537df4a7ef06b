// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewTasks is the task list.
	ViewTasks ViewType = iota
	// ViewTaskDetail shows one task with its history.
	ViewTaskDetail
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewTasks:
		return "tasks"
	case ViewTaskDetail:
		return "task_detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// TasksLoaded carries the task list from the service.
type TasksLoaded struct {
	Tasks []driving.TaskSummary
	Err   error
}

// TaskSelected is sent when a task is opened from the list.
type TaskSelected struct {
	ID string
}

// TaskLoaded carries a single task with its history.
type TaskLoaded struct {
	ID   string
	Task *domain.ScheduledTask
	Err  error
}

// TaskRan signals a manual run finished. Record is set even when Err is.
type TaskRan struct {
	ID     string
	Record domain.TaskExecutionRecord
	Err    error
}

// TaskToggled signals an enable or disable finished.
type TaskToggled struct {
	ID      string
	Task    *domain.ScheduledTask
	Changed bool
	Err     error
}

// TaskDeleted signals a task was removed.
type TaskDeleted struct {
	ID  string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

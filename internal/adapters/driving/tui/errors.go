package tui

import "errors"

// ErrMissingTaskService is returned when the task service is not provided.
var ErrMissingTaskService = errors.New("tui: task service is required")

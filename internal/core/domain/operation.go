package domain

import (
	"context"
	"strings"
)

// Params is an opaque string-keyed bag of loosely-typed values.
// The scheduler never inspects it; only the target operation validates it.
type Params map[string]any

// OperationInfo describes a registered operation.
type OperationInfo struct {
	// Name is the unique operation identifier, e.g. "Hash_File".
	Name string `json:"name"`

	// Description is human-readable text, also used as fuzzy-match corpus.
	Description string `json:"description"`
}

// OperationResult is what an operation returns.
type OperationResult struct {
	// Content holds text segments in order.
	Content []string

	// IsError marks a handler-reported failure; Content then carries the message.
	IsError bool
}

// Text returns the first non-empty content segment.
func (r *OperationResult) Text() string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}

// TextResult is a convenience constructor for single-segment results.
func TextResult(text string) *OperationResult {
	return &OperationResult{Content: []string{text}}
}

// ErrorResult is a convenience constructor for handler-reported failures.
func ErrorResult(message string) *OperationResult {
	return &OperationResult{Content: []string{message}, IsError: true}
}

// OperationHandler executes an operation with the given parameters.
type OperationHandler func(ctx context.Context, params Params) (*OperationResult, error)

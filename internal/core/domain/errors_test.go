package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNoMatch", ErrNoMatch},
		{"ErrAmbiguous", ErrAmbiguous},
		{"ErrSchedule", ErrSchedule},
		{"ErrExecution", ErrExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrNoMatch, ErrAmbiguous, ErrSchedule, ErrExecution}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("task %q: %w", "abc", ErrSchedule)

	assert.True(t, errors.Is(wrapped, ErrSchedule))
	assert.False(t, errors.Is(wrapped, ErrExecution))
	assert.Contains(t, wrapped.Error(), "schedule error")
}

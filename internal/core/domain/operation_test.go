package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationResult_Text(t *testing.T) {
	tests := []struct {
		name   string
		result *OperationResult
		want   string
	}{
		{"nil result", nil, ""},
		{"empty content", &OperationResult{}, ""},
		{"single segment", TextResult("hello"), "hello"},
		{"skips blank segments", &OperationResult{Content: []string{"", "  ", "second"}}, "second"},
		{"first of many", &OperationResult{Content: []string{"one", "two"}}, "one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Text())
		})
	}
}

func TestErrorResult(t *testing.T) {
	r := ErrorResult("disk full")

	assert.True(t, r.IsError)
	assert.Equal(t, "disk full", r.Text())
}

func TestTextResult(t *testing.T) {
	r := TextResult("ok")

	assert.False(t, r.IsError)
	assert.Equal(t, []string{"ok"}, r.Content)
}

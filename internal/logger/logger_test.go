package logger

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetTimestamps(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name string
		log  func(string, ...any)
		want string
	}{
		{"debug", Debug, "[DEBUG] task abc armed\n"},
		{"info", Info, "[INFO] task abc armed\n"},
		{"warn", Warn, "[WARN] task abc armed\n"},
		{"error", Error, "[ERROR] task abc armed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log("task %s armed", "abc")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("save failed: %v", "disk full")

	assert.Equal(t, "[ERROR] save failed: disk full\n", buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Restore")

	assert.Equal(t, "\n=== Restore ===\n", buf.String())
}

func TestTimestamps(t *testing.T) {
	buf := capture(t, false)
	fixed := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	SetTimestamps(true)
	Error("task %s failed", "abc")

	assert.Equal(t, "2026-03-01T02:00:00.000Z [ERROR] task abc failed\n", buf.String())
}

// Package logger provides levelled diagnostic output for tidy.
// Debug, Info and Warn are printed only in verbose mode (--verbose or
// log.verbose = true); Error is always printed. Everything goes to stderr
// so stdout stays clean for JSON output and the stdio tool transport.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// timeLayout prefixes lines when timestamps are on.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	mu         sync.RWMutex
	verbose    bool
	timestamps bool
	output     io.Writer = os.Stderr
	now        = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetTimestamps prefixes every line with the current time. Long-running
// commands turn this on so timer fires can be correlated afterwards.
func SetTimestamps(on bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = on
}

func printf(level, format string, args ...any) {
	prefix := "[" + level + "] "
	if timestamps {
		prefix = now().Format(timeLayout) + " " + prefix
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		printf("DEBUG", format, args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		printf("INFO", format, args...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		printf("WARN", format, args...)
	}
}

// Error prints an error message regardless of verbose mode.
// Used for failures nobody else will report, such as a timer fire
// whose execution or save went wrong.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	printf("ERROR", format, args...)
}

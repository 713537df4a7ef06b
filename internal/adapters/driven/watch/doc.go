// Package watch reloads the task document when it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// atomic rename-over writes are seen. Bursts of events are collapsed into a
// single reload after a short quiet period.
package watch

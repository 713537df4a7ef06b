// Package jsonfile provides the default driven.TaskStore: the whole task
// collection as one indented JSON array at ~/.tidy/scheduled-tasks.json.
//
// Saves are crash-atomic. The document is written to a temporary file in
// the same directory, synced, and renamed over the old one, so readers
// only ever see a complete document.
package jsonfile

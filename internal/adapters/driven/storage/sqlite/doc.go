// Package sqlite provides a SQLite implementation of driven.TaskStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. It is selected with storage.backend = "sqlite".
//
// The task collection keeps document semantics: every Save rewrites all
// rows inside one transaction, so a crash mid-save leaves the previous
// collection intact.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files.
// Execution history lives in task_executions, ordered newest first by seq.
//
// # Data Location
//
// By default, the database is stored at ~/.tidy/scheduled-tasks.db
package sqlite

// Package services implements the driving port interfaces.
// Services contain the scheduling logic and orchestrate calls to
// driven ports (adapters).
//
// Dependency order, leaves first:
//
//   - Registry: named operations and their handlers
//   - Resolver: exact-name or fuzzy lookup over the registry
//   - TaskCollection: the in-memory task list, persisted on every mutation
//   - Executor: runs one task and records the outcome in its history
//   - Engine: binds enabled tasks to live timers
//   - TaskService: task management built on all of the above
//
// Services are pure Go with no CGO dependencies.
package services

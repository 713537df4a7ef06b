// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TaskStore: Task document persistence (JSON file, SQLite, or memory)
//   - Timers: Live, cancelable recurring triggers (robfig/cron)
//   - Scorer: Fuzzy text similarity used by the name resolver
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or operation package
package driven

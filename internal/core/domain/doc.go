// Package domain defines the core business entities for tidy.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ScheduledTask: A recurring binding of a schedule to an operation call
//   - TaskExecutionRecord: One immutable entry of a task's execution history
//   - OperationInfo: The name and description of a registered operation
//   - OperationResult: The text content returned by an operation
//   - AppSettings: User configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

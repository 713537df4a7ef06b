// Package operations provides the built-in operations registered at startup.
//
// They are deliberately small and stateless so that a fresh install always
// has something a scheduled task can invoke.
package operations

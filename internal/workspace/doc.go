// Package workspace persists the editing session between command
// invocations and guards the workspace directory with a file lock.
package workspace

// Package watch re-runs an action when a file changes on disk. The generate
// command uses it to keep modules in sync with the package list.
package watch

// Package runstore persists launch reports as JSON files, one per run, keyed
// by the run ID.
package runstore

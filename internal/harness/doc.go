// Package harness manages a standalone distribution of the launch test
// harness: extracting it, staging generated modules into its testcases
// directory and running its launcher in an isolated environment.
package harness

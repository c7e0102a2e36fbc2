// Package exec abstracts external process execution behind the Runner
// interface so device and harness code can be exercised without spawning
// real processes.
//
// Every invocation is synchronous: Run blocks until the process exits and
// returns the captured stdout, stderr and exit status. Callers choose per call
// whether a non-zero exit is a failure (Command.Check); checked failures are
// reported as *CommandFailedError with the captured streams attached.
package exec

package orchestrator

import (
	"errors"
	"fmt"
)

// ErrNoSerial is returned when no device serial is configured. The harness
// must never pick a device on its own.
var ErrNoSerial = errors.New("no device serial given")

// SetupError is a fatal failure to prepare or drive a run. The device or the
// workspace was not in a state where the launch could be judged.
type SetupError struct {
	Phase Phase
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// OutcomeError is a test-level failure: the run completed but the app did not
// behave as required.
type OutcomeError struct {
	Phase  Phase
	Reason string
	// Output is supporting evidence, such as the collected log snippet.
	Output string
}

func (e *OutcomeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Reason)
}

// IsFatal reports whether err must stop a batch of runs. Outcome failures
// only fail the package they belong to.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var outcome *OutcomeError
	return !errors.As(err, &outcome)
}

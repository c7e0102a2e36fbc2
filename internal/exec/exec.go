package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"csuite/pkg/logging"
)

const execSubsystem = "Exec"

// Command describes one external process invocation.
type Command struct {
	// Args is the program followed by its arguments.
	Args []string
	// Env is the complete environment for the process. Nil inherits the caller's environment.
	Env []string
	// Dir is the working directory. Empty uses the caller's working directory.
	Dir string
	// Check turns a non-zero exit status into a *CommandFailedError.
	Check bool
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Result is the captured outcome of a finished process.
type Result struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
}

// Runner executes external commands and waits for them to complete.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// CommandFailedError is returned by checked commands that exit non-zero.
// It carries the captured streams for diagnosis.
type CommandFailedError struct {
	Args   []string
	Result Result
}

func (e *CommandFailedError) Error() string {
	msg := fmt.Sprintf("command %q exited with status %d", strings.Join(e.Args, " "), e.Result.ExitCode)
	if stderr := strings.TrimSpace(e.Result.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Output returns both captured streams in a form suitable for printing to a user.
func (e *CommandFailedError) Output() string {
	var b strings.Builder
	if e.Result.Stdout != "" {
		b.WriteString("--- stdout ---\n")
		b.WriteString(e.Result.Stdout)
		if !strings.HasSuffix(e.Result.Stdout, "\n") {
			b.WriteByte('\n')
		}
	}
	if e.Result.Stderr != "" {
		b.WriteString("--- stderr ---\n")
		b.WriteString(e.Result.Stderr)
		if !strings.HasSuffix(e.Result.Stderr, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// execCommandContext is a variable to allow mocking in tests
var execCommandContext = exec.CommandContext

// OSRunner runs commands as child processes of the current process.
type OSRunner struct{}

// NewOSRunner creates a Runner backed by os/exec.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run starts the command, waits for it and captures stdout and stderr separately.
// A process that cannot be started is always an error; a non-zero exit is an
// error only when cmd.Check is set.
func (r *OSRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if len(cmd.Args) == 0 {
		return Result{}, errors.New("command has no arguments")
	}

	c := execCommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	if cmd.Env != nil {
		c.Env = cmd.Env
	}
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	logging.Debug(execSubsystem, "Running: %s", cmd)
	err := c.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, fmt.Errorf("failed to run %q: %w", cmd.String(), err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("command %q interrupted: %w", cmd.String(), ctxErr)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	logging.Debug(execSubsystem, "Exited with status %d: %s", result.ExitCode, cmd)

	if cmd.Check && result.ExitCode != 0 {
		return result, &CommandFailedError{Args: cmd.Args, Result: result}
	}
	return result, nil
}

package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"csuite/internal/exec"
)

// Handler produces the result of one faked command.
type Handler func(cmd exec.Command) exec.Result

type route struct {
	prefix  []string
	handler Handler
}

// Runner is a scripted exec.Runner. Commands are matched against registered
// argument prefixes; the longest matching prefix wins, and among equally long
// prefixes the one registered last. Unmatched commands
// exit with status 127 like a missing binary would under a shell.
type Runner struct {
	mu     sync.Mutex
	routes []route
	calls  []exec.Command
}

// NewRunner creates an empty scripted runner.
func NewRunner() *Runner {
	return &Runner{}
}

// On registers a handler for commands starting with prefix.
func (r *Runner) On(prefix []string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route{prefix: append([]string(nil), prefix...), handler: h})
}

// Respond registers a fixed result for commands starting with prefix.
func (r *Runner) Respond(prefix []string, result exec.Result) {
	r.On(prefix, func(exec.Command) exec.Result { return result })
}

// Run implements exec.Runner with the same check semantics as exec.OSRunner.
func (r *Runner) Run(ctx context.Context, cmd exec.Command) (exec.Result, error) {
	if err := ctx.Err(); err != nil {
		return exec.Result{}, err
	}

	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	var best *route
	for i := range r.routes {
		rt := &r.routes[i]
		if hasPrefix(cmd.Args, rt.prefix) && (best == nil || len(rt.prefix) >= len(best.prefix)) {
			best = rt
		}
	}
	r.mu.Unlock()

	result := exec.Result{ExitCode: 127, Stderr: fmt.Sprintf("mock: no handler for %q\n", cmd.String())}
	if best != nil {
		result = best.handler(cmd)
	}

	if cmd.Check && result.ExitCode != 0 {
		return result, &exec.CommandFailedError{Args: cmd.Args, Result: result}
	}
	return result, nil
}

// Calls returns every command received so far.
func (r *Runner) Calls() []exec.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]exec.Command(nil), r.calls...)
}

// CommandLines returns the received commands as space-joined strings.
func (r *Runner) CommandLines() []string {
	calls := r.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, strings.Join(c.Args, " "))
	}
	return lines
}

func hasPrefix(args, prefix []string) bool {
	if len(prefix) > len(args) {
		return false
	}
	for i, p := range prefix {
		if args[i] != p {
			return false
		}
	}
	return true
}

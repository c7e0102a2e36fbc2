package mock

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"csuite/internal/exec"
)

// Device simulates the subset of adb behaviour the launch workflow relies on:
// package install state, `pm list packages` output and a logcat buffer.
type Device struct {
	mu        sync.Mutex
	binary    string
	serial    string
	installed map[string]bool
	logs      []logLine
	// Malformed, when set, is emitted as an extra `pm list packages` line.
	Malformed string
}

type logLine struct {
	tag  string
	text string
}

// NewDevice creates a simulated device reachable as `<binary> -s <serial>`.
func NewDevice(binary, serial string) *Device {
	return &Device{
		binary:    binary,
		serial:    serial,
		installed: make(map[string]bool),
	}
}

// Attach registers the device's adb handlers on r.
func (d *Device) Attach(r *Runner) {
	base := []string{d.binary, "-s", d.serial}
	r.On(append(base, "uninstall"), d.uninstall)
	r.On(append(base, "install"), d.install)
	r.On(append(base, "install-multiple"), d.install)
	r.On(append(base, "shell", "pm", "list", "packages"), d.listPackages)
	r.On(append(base, "logcat", "-c"), d.clearLogs)
	r.On(append(base, "logcat", "-d"), d.dumpLogs)
}

// Install marks pkg as installed.
func (d *Device) Install(pkg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.installed[pkg] = true
}

// Remove marks pkg as not installed.
func (d *Device) Remove(pkg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.installed, pkg)
}

// IsInstalled reports the simulated install state of pkg.
func (d *Device) IsInstalled(pkg string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.installed[pkg]
}

// Log appends a line to the simulated logcat buffer.
func (d *Device) Log(tag, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logs = append(d.logs, logLine{tag: tag, text: text})
}

func (d *Device) uninstall(cmd exec.Command) exec.Result {
	pkg := cmd.Args[len(cmd.Args)-1]
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.installed[pkg] {
		return exec.Result{ExitCode: 1, Stdout: "Failure [DELETE_FAILED_INTERNAL_ERROR]\n"}
	}
	delete(d.installed, pkg)
	return exec.Result{Stdout: "Success\n"}
}

func (d *Device) install(cmd exec.Command) exec.Result {
	return exec.Result{Stdout: "Success\n"}
}

func (d *Device) listPackages(exec.Command) exec.Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	pkgs := make([]string, 0, len(d.installed))
	for pkg := range d.installed {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	var b strings.Builder
	for _, pkg := range pkgs {
		fmt.Fprintf(&b, "package:%s\n", pkg)
	}
	if d.Malformed != "" {
		b.WriteString(d.Malformed + "\n")
	}
	return exec.Result{Stdout: b.String()}
}

func (d *Device) clearLogs(exec.Command) exec.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logs = nil
	return exec.Result{}
}

func (d *Device) dumpLogs(cmd exec.Command) exec.Result {
	tag := cmd.Args[len(cmd.Args)-1]
	d.mu.Lock()
	defer d.mu.Unlock()

	var b strings.Builder
	for _, l := range d.logs {
		if l.tag == tag {
			fmt.Fprintf(&b, "I/%s( 1234): %s\n", l.tag, l.text)
		}
	}
	return exec.Result{Stdout: b.String()}
}

package device

import (
	"context"
	"fmt"
	"strings"

	"csuite/internal/exec"
	"csuite/pkg/logging"
)

const adbSubsystem = "ADB"

// DefaultBinary is the bridge tool looked up on PATH when no path is configured.
const DefaultBinary = "adb"

const packageLinePrefix = "package"

// Options configures an ADB device.
type Options struct {
	// BinaryPath is the adb executable. Defaults to DefaultBinary.
	BinaryPath string
	// Serial selects the device. Empty lets adb pick the only attached device.
	Serial string
}

// ADB drives one device through the adb command-line tool.
type ADB struct {
	runner exec.Runner
	binary string
	serial string
}

var _ Controller = (*ADB)(nil)

// New creates an adapter that runs adb through runner.
func New(runner exec.Runner, opts Options) *ADB {
	binary := opts.BinaryPath
	if binary == "" {
		binary = DefaultBinary
	}
	return &ADB{runner: runner, binary: binary, serial: opts.Serial}
}

// Serial returns the configured device serial.
func (d *ADB) Serial() string {
	return d.serial
}

func (d *ADB) command(args []string) []string {
	cmd := []string{d.binary}
	if d.serial != "" {
		cmd = append(cmd, "-s", d.serial)
	}
	return append(cmd, args...)
}

// Run executes an adb subcommand against the device.
func (d *ADB) Run(ctx context.Context, args []string, check bool) (exec.Result, error) {
	cmd := exec.Command{Args: d.command(args), Check: check}
	logging.Debug(adbSubsystem, "Running %s", cmd)
	return d.runner.Run(ctx, cmd)
}

// Shell executes a shell command on the device.
func (d *ADB) Shell(ctx context.Context, args []string, check bool) (exec.Result, error) {
	return d.Run(ctx, append([]string{"shell"}, args...), check)
}

// Uninstall removes pkg from the device.
func (d *ADB) Uninstall(ctx context.Context, pkg string, check bool) (exec.Result, error) {
	logging.Info(adbSubsystem, "Uninstalling %s", pkg)
	return d.Run(ctx, []string{"uninstall", pkg}, check)
}

// Install installs apkPaths. Several files are installed together as the
// splits of one package.
func (d *ADB) Install(ctx context.Context, apkPaths []string, check bool) (exec.Result, error) {
	if len(apkPaths) == 0 {
		return exec.Result{}, fmt.Errorf("no APK files to install")
	}
	verb := "install"
	if len(apkPaths) > 1 {
		verb = "install-multiple"
	}
	logging.Info(adbSubsystem, "Installing %s", strings.Join(apkPaths, ", "))
	return d.Run(ctx, append([]string{verb}, apkPaths...), check)
}

// ListPackages returns every package reported by the package manager.
func (d *ADB) ListPackages(ctx context.Context) ([]string, error) {
	result, err := d.Shell(ctx, []string{"pm", "list", "packages"}, true)
	if err != nil {
		return nil, err
	}
	return ParsePackageList(result.Stdout)
}

// IsInstalled reports whether pkg appears in the package list.
func (d *ADB) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	pkgs, err := d.ListPackages(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range pkgs {
		if p == pkg {
			return true, nil
		}
	}
	return false, nil
}

// ClearLogs empties the logcat buffer.
func (d *ADB) ClearLogs(ctx context.Context) error {
	_, err := d.Run(ctx, []string{"logcat", "-c"}, true)
	return err
}

// DumpLogs returns the logcat buffer in brief format, filtered to tag.
func (d *ADB) DumpLogs(ctx context.Context, tag string) (string, error) {
	result, err := d.Run(ctx, []string{"logcat", "-d", "-v", "brief", "-s", tag}, true)
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// ParsePackageList parses `pm list packages` output. Each non-blank line must
// have the form package:<id>.
func ParsePackageList(output string) ([]string, error) {
	var pkgs []string
	for i, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 || parts[0] != packageLinePrefix || parts[1] == "" {
			return nil, &ParseError{Line: i + 1, Text: line}
		}
		pkgs = append(pkgs, parts[1])
	}
	return pkgs, nil
}

// ParseError reports unexpected package manager output.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected package list line %d: %q", e.Line, e.Text)
}

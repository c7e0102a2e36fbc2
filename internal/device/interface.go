package device

import (
	"context"

	"csuite/internal/exec"
)

// Controller is the device surface the launch workflow depends on.
type Controller interface {
	// Serial identifies the target device. Empty means the only attached one.
	Serial() string

	// Uninstall removes pkg. With check set, a failing uninstall is an error.
	Uninstall(ctx context.Context, pkg string, check bool) (exec.Result, error)

	// Install installs the given APK files as one package.
	Install(ctx context.Context, apkPaths []string, check bool) (exec.Result, error)

	// ListPackages returns the identifiers of every installed package.
	ListPackages(ctx context.Context) ([]string, error)

	// IsInstalled reports whether pkg is installed.
	IsInstalled(ctx context.Context, pkg string) (bool, error)

	// ClearLogs empties the device log buffer.
	ClearLogs(ctx context.Context) error

	// DumpLogs returns the current log buffer filtered to tag.
	DumpLogs(ctx context.Context, tag string) (string, error)
}

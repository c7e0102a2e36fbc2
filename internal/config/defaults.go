package config

import (
	"time"

	"csuite/internal/module"
	"csuite/internal/orchestrator"
)

const (
	// DefaultRunsKeep is the number of reports `runs prune` keeps.
	DefaultRunsKeep = 100

	// DefaultLaunchTimeout bounds a single launch run.
	DefaultLaunchTimeout = 15 * time.Minute
)

// GetDefaultConfig returns the configuration used when no config.yaml exists.
func GetDefaultConfig() CSuiteConfig {
	return CSuiteConfig{
		Launch: LaunchConfig{
			LogMarker:      orchestrator.DefaultLogMarker,
			HarnessCommand: append([]string(nil), orchestrator.DefaultHarnessCommand...),
			Timeout:        DefaultLaunchTimeout,
		},
		Module: module.DefaultTemplate(),
		Runs: RunsConfig{
			Persist: true,
			Keep:    DefaultRunsKeep,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

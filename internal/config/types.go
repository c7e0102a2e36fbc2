package config

import (
	"time"

	"csuite/internal/module"
)

// CSuiteConfig is the top-level configuration structure for csuite.
type CSuiteConfig struct {
	Device  DeviceConfig    `yaml:"device"`
	Launch  LaunchConfig    `yaml:"launch"`
	Module  module.Template `yaml:"module"`
	Runs    RunsConfig      `yaml:"runs"`
	Logging LoggingConfig   `yaml:"logging"`
}

// DeviceConfig selects the device and the bridge tool.
type DeviceConfig struct {
	ADBPath string `yaml:"adbPath,omitempty"` // adb executable (default: adb on PATH)
	Serial  string `yaml:"serial,omitempty"`  // device serial; the --serial flag overrides it
}

// LaunchConfig shapes launch runs.
type LaunchConfig struct {
	LogMarker             string        `yaml:"logMarker,omitempty"`             // expected log line (default: "App launched")
	LogTag                string        `yaml:"logTag,omitempty"`                // logcat tag filter (default: the package)
	HarnessCommand        []string      `yaml:"harnessCommand,omitempty"`        // harness verb (default: run commandAndExit launch)
	FailOnHarnessFailures bool          `yaml:"failOnHarnessFailures,omitempty"` // also fail on harness failure counters
	Timeout               time.Duration `yaml:"timeout,omitempty"`               // bound for one launch run, 0 for none
}

// RunsConfig controls report persistence.
type RunsConfig struct {
	Persist bool   `yaml:"persist"`        // store a report per run (default: true)
	Dir     string `yaml:"dir,omitempty"`  // report directory (default: <config dir>/runs)
	Keep    int    `yaml:"keep,omitempty"` // newest reports kept by `runs prune` (default: 100)
}

// LoggingConfig sets the default log level.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn or error (default: info)
}

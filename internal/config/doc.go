// Package config provides configuration management for csuite.
//
// Configuration is loaded from a single directory. The default directory is
// ~/.config/csuite, and commands accept --config-path to use another one.
//
// # Configuration Directory
//
// The directory contains:
//   - config.yaml (main configuration file)
//   - runs/ (one JSON report per launch run, see package runstore)
//
// # config.yaml
//
// Every section is optional and falls back to GetDefaultConfig:
//
//	device:
//	  adbPath: /opt/android-sdk/platform-tools/adb
//	  serial: emulator-5554
//	launch:
//	  logMarker: App launched
//	  logTag: AppCompatibility
//	  failOnHarnessFailures: true
//	  timeout: 10m
//	module:
//	  prefix: csuite
//	  plan: app-launch
//	runs:
//	  persist: true
//	  keep: 50
//	logging:
//	  level: info
//
// Command-line flags take precedence over values from the file.
//
// # Errors
//
// Unreadable, malformed and invalid files are reported as ConfigurationError,
// which carries the file, the kind of problem and, for YAML syntax errors,
// the line number. DetailedError renders all of it for the terminal.
//
// # Entity Storage
//
// Storage persists named entity files in per-type subdirectories of the
// configuration directory. It is the backing store for run reports.
package config

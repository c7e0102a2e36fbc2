// Package logging provides subsystem-tagged structured logging for csuite.
//
// The package is a thin layer over log/slog. Every entry carries a subsystem
// attribute so output from the generator, the device adapter and the
// orchestrator can be told apart in a single stream.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Generator", "Generated module for %s", pkg)
//	logging.Debug("Device", "adb %s", strings.Join(args, " "))
//	logging.Error("Orchestrator", err, "Run failed for %s", pkg)
//
// Messages logged before InitForCLI is called are dropped unless they are
// warnings or errors, which are written to stderr.
package logging

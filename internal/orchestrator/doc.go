// Package orchestrator runs the app launch workflow for one package at a
// time on one device.
//
// A run moves linearly through the phases in Phases. It makes sure the
// package is not installed, stages a generated module and the package
// artifacts, runs the harness, and judges the launch from the device log.
// Finally it checks that the harness left the device clean. Any failure ends
// the run at once; nothing is retried.
//
// Failures come in two kinds. A *SetupError means the launch could not be
// judged at all. An *OutcomeError means the app was judged and failed. Both
// are recorded in the Report returned for every run.
package orchestrator

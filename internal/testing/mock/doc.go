// Package mock provides test doubles for csuite's external collaborators.
//
// Runner is a scripted exec.Runner that matches commands by argument prefix.
// Device plugs into a Runner and simulates an adb-connected device with an
// install state and a logcat buffer, which is enough to drive the launch
// workflow end to end without hardware. MockClock pins report timestamps.
package mock

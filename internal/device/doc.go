// Package device controls an Android device through the adb command-line
// tool.
//
// The adapter is stateless: every query goes to the device, nothing is
// cached. All process execution happens through an exec.Runner so tests can
// substitute a scripted device.
package device

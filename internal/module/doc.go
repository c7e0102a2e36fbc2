// Package module generates the per-package test modules consumed by the
// launch harness.
//
// Each package gets its own directory holding a build descriptor
// (Android.bp) that declares the module and a test descriptor
// (AndroidTest.xml) that lists the preparers and the launch test. Every file
// written here carries AutoGeneratedMarker, and regeneration only ever deletes
// files that contain it, so hand-authored descriptors living next to generated
// ones survive.
package module

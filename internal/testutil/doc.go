// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by venvkit's tests.
//
// The Must* helpers fail the test on error instead of returning it.
// RecordingRunner stands in for runner.Runner in unit tests, and
// WriteFakePython installs a scripted stand-in for the Python interpreter
// so lifecycle sequences can be exercised end to end without a real Python.
package testutil

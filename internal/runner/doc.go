// SPDX-License-Identifier: MPL-2.0

// Package runner starts the external tools the lifecycle delegates to:
// the interpreter, pip and the test runner.
//
// An Invocation names a program and its arguments; the program is resolved
// against the Invocation's searchpath.Scope rather than the process PATH, and
// the child receives the Scope's environment. ProcessRunner streams output
// to the configured writers (Run) or captures it (Capture), and logs every
// command line through charmbracelet/log. In dry-run mode Run only logs.
package runner

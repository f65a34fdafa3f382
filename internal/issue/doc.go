// SPDX-License-Identifier: MPL-2.0

// Package issue classifies failures of the environment lifecycle and carries
// the context needed to report them.
//
// Every orchestration step returns a *StepError tagged with a Kind. The CLI
// maps the Kind to an exit status and a presentation (banner, plain
// diagnostic, or test summary). ActionableError adds an operation, a
// resource and remediation hints to a lower-level cause, and the Markdown
// catalog in catalog.go provides longer guidance for verbose output.
package issue

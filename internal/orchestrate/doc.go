// SPDX-License-Identifier: MPL-2.0

// Package orchestrate runs the four lifecycle sequences (setup, build, test
// and cleanup) against a resolved work root.
//
// Every sequence starts from a fresh search-path scope derived from the
// caller's environment. At most one environment is activated into that scope,
// and every child process receives the root as its working directory. Failures
// are returned as *issue.StepError values so callers can map them to a
// report style and exit status.
package orchestrate

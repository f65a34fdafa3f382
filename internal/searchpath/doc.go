// SPDX-License-Identifier: MPL-2.0

// Package searchpath models executable resolution as an explicit value.
//
// A Scope holds an ordered list of directories plus environment overrides. It
// is built once from the host environment and passed to every invocation,
// so "activating" an environment prepends to the Scope instead of rewriting
// the process PATH. Child processes receive the Scope's rendering of PATH.
package searchpath

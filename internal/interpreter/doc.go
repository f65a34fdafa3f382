// SPDX-License-Identifier: MPL-2.0

// Package interpreter decides which Python interpreter name to invoke, where
// an environment publishes its executables on this platform, and whether an
// interpreter's reported version satisfies a minimum.
package interpreter

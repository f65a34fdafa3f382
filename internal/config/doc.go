// SPDX-License-Identifier: MPL-2.0

// Package config handles venvkit configuration using Viper with CUE as the file format.
//
// Configuration is read from venvkit.cue in the work root, or from an explicit
// file, and validated against an embedded CUE schema (config_schema.cue).
// Values not set in the file fall back to built-in defaults, and every key can
// be overridden from the environment with the VENVKIT_ prefix, e.g.
// VENVKIT_TEST_MIN_PYTHON=3.11.
package config

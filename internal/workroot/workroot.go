// SPDX-License-Identifier: MPL-2.0

// Package workroot resolves the directory every lifecycle step runs from.
package workroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotDirectory is returned when the resolved root is not a directory.
var ErrNotDirectory = errors.New("working root is not a directory")

// Root is an absolute, symlink-free directory. It is computed once per run
// and never changes afterwards.
type Root struct {
	path string
}

// Resolve computes the canonical directory for location. A location naming a
// regular file resolves to the file's containing directory. An empty location
// means the current directory.
func Resolve(location string) (Root, error) {
	if location == "" {
		location = "."
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return Root{}, fmt.Errorf("resolve %q: %w", location, err)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Root{}, fmt.Errorf("resolve %q: %w", location, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return Root{}, fmt.Errorf("stat %q: %w", canonical, err)
	}
	if !info.IsDir() {
		canonical = filepath.Dir(canonical)
	}

	// The directory must be enterable, not merely present.
	f, err := os.Open(canonical)
	if err != nil {
		return Root{}, fmt.Errorf("open %q: %w", canonical, err)
	}
	_ = f.Close()

	return Root{path: canonical}, nil
}

// Path returns the absolute root directory.
func (r Root) Path() string { return r.path }

// String implements fmt.Stringer.
func (r Root) String() string { return r.path }

// IsZero reports whether the Root was never resolved.
func (r Root) IsZero() bool { return r.path == "" }

// Join resolves rel against the root. Absolute paths are returned cleaned but
// otherwise unchanged.
func (r Root) Join(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(r.path, rel)
}

// Chdir makes the root the process working directory.
func (r Root) Chdir() error {
	if r.IsZero() {
		return fmt.Errorf("chdir: %w", ErrNotDirectory)
	}
	if err := os.Chdir(r.path); err != nil {
		return fmt.Errorf("chdir %q: %w", r.path, err)
	}
	return nil
}

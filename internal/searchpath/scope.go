// SPDX-License-Identifier: MPL-2.0

package searchpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/venvkit/venvkit/internal/platform"
)

// PathVar is the name of the executable search path variable.
const PathVar = "PATH"

var (
	// ErrAlreadyActivated is returned when a second environment is activated
	// into the same Scope.
	ErrAlreadyActivated = errors.New("an environment is already active in this scope")
	// ErrNotFound is returned when LookPath finds no executable.
	ErrNotFound = errors.New("executable file not found in search path")
)

type (
	// Scope is an ordered executable search path with environment overrides.
	// The zero value is an empty scope. A Scope is not safe for concurrent use.
	Scope struct {
		dirs      []string
		base      []string
		overrides map[string]*string
		active    string
		goos      string
	}

	// NotFoundError reports a failed LookPath. It wraps ErrNotFound.
	NotFoundError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q: %s", e.Name, ErrNotFound.Error())
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// FromEnviron builds a Scope from "KEY=VALUE" pairs, taking its directories
// from the PATH entry.
func FromEnviron(environ []string) *Scope {
	return ForOS(runtime.GOOS, environ)
}

// ForOS is FromEnviron with variable-name and executable lookup rules of the
// given GOOS. On Windows, variable names are case-insensitive.
func ForOS(goos string, environ []string) *Scope {
	s := &Scope{
		base:      slices.Clone(environ),
		overrides: make(map[string]*string),
		goos:      goos,
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok && s.isPathKey(k) {
			s.dirs = filepath.SplitList(v)
		}
	}
	return s
}

// FromHost builds a Scope from the current process environment.
func FromHost() *Scope {
	return FromEnviron(os.Environ())
}

// Dirs returns a copy of the directories in resolution order.
func (s *Scope) Dirs() []string {
	return slices.Clone(s.dirs)
}

// Prepend puts dir first in resolution order.
func (s *Scope) Prepend(dir string) {
	s.dirs = append([]string{dir}, s.dirs...)
}

// Activate prepends an environment's executable directory and records the
// environment root in VIRTUAL_ENV, mirroring a venv activate script. Only one
// activation per Scope is supported; it is never rolled back.
func (s *Scope) Activate(envRoot, execDir string) error {
	if s.active != "" {
		return fmt.Errorf("activate %s: %w (%s)", envRoot, ErrAlreadyActivated, s.active)
	}
	s.Prepend(execDir)
	s.Setenv("VIRTUAL_ENV", envRoot)
	s.Unsetenv("PYTHONHOME")
	s.active = envRoot
	return nil
}

// Active returns the root of the activated environment, or "".
func (s *Scope) Active() string { return s.active }

// Strip removes every directory located under prefix and returns how many
// entries were dropped.
func (s *Scope) Strip(prefix string) int {
	clean := filepath.Clean(prefix)
	kept := s.dirs[:0:0]
	removed := 0
	for _, d := range s.dirs {
		if isUnder(filepath.Clean(d), clean) {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	s.dirs = kept
	return removed
}

// Setenv overrides a variable for every child started with this Scope.
func (s *Scope) Setenv(key, value string) {
	s.unsetOverride(key)
	s.overrides[key] = &value
}

// Unsetenv removes a variable from the children's environment.
func (s *Scope) Unsetenv(key string) {
	s.unsetOverride(key)
	s.overrides[key] = nil
}

// unsetOverride drops any override whose name matches key, so a Windows
// override spelled in another case replaces the earlier one.
func (s *Scope) unsetOverride(key string) {
	if s.overrides == nil {
		s.overrides = make(map[string]*string)
	}
	for k := range s.overrides {
		if s.sameKey(k, key) {
			delete(s.overrides, k)
		}
	}
}

// override returns the override matching key, if any.
func (s *Scope) override(key string) (*string, bool) {
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	if s.goos != platform.Windows {
		return nil, false
	}
	for k, v := range s.overrides {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// Getenv returns the value a child would see for key.
func (s *Scope) Getenv(key string) (string, bool) {
	if s.isPathKey(key) {
		return s.String(), true
	}
	if v, ok := s.override(key); ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	for _, kv := range s.base {
		k, v, ok := strings.Cut(kv, "=")
		if ok && s.sameKey(k, key) {
			return v, true
		}
	}
	return "", false
}

// String renders the directories as a PATH value.
func (s *Scope) String() string {
	return strings.Join(s.dirs, string(os.PathListSeparator))
}

// Environ renders the environment for a child process: the base environment
// with overrides applied and PATH replaced by the scoped directories.
func (s *Scope) Environ() []string {
	env := make([]string, 0, len(s.base)+len(s.overrides)+1)
	for _, kv := range s.base {
		k, _, ok := strings.Cut(kv, "=")
		if ok && s.isPathKey(k) {
			continue
		}
		if _, overridden := s.override(k); overridden {
			continue
		}
		env = append(env, kv)
	}

	keys := make([]string, 0, len(s.overrides))
	for k := range s.overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := s.overrides[k]; v != nil {
			env = append(env, k+"="+*v)
		}
	}

	return append(env, PathVar+"="+s.String())
}

func (s *Scope) isPathKey(k string) bool {
	return s.sameKey(k, PathVar)
}

func (s *Scope) sameKey(a, b string) bool {
	if s.goos == platform.Windows {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func isUnder(path, prefix string) bool {
	if path == prefix {
		return true
	}
	rel, err := filepath.Rel(prefix, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SPDX-License-Identifier: MPL-2.0

package interpreter

import "github.com/venvkit/venvkit/internal/searchpath"

// Candidate names and platform subdirectories.
const (
	// DefaultPrimary is probed first on the search path.
	DefaultPrimary = "python"
	// DefaultFallback is used when the primary name is not found.
	DefaultFallback = "python3"

	// PlatformIndicatorVar is only set on Windows hosts.
	PlatformIndicatorVar = "WINDIR"
	// PosixExecSubdir holds an environment's executables on POSIX hosts.
	PosixExecSubdir = "bin"
	// WindowsExecSubdir holds an environment's executables on Windows hosts.
	WindowsExecSubdir = "Scripts"
)

// Reference is the symbolic interpreter name used for every invocation of a
// run. It is resolved against a search path only when invoked, so once an
// environment is activated the same name resolves inside it.
type Reference string

// String returns the interpreter name.
func (r Reference) String() string { return string(r) }

// Locate returns primary if lookPath finds it, otherwise fallback. The
// fallback is returned even when it is missing too; the failure surfaces
// when the interpreter is first invoked.
func Locate(lookPath func(string) (string, error), primary, fallback string) Reference {
	if primary == "" {
		primary = DefaultPrimary
	}
	if fallback == "" {
		fallback = DefaultFallback
	}
	if _, err := lookPath(primary); err == nil {
		return Reference(primary)
	}
	return Reference(fallback)
}

// ExecSubdir returns the directory name, relative to an environment root,
// that holds the activate script and installed executables.
func ExecSubdir(getenv func(string) string) string {
	if getenv(PlatformIndicatorVar) != "" {
		return WindowsExecSubdir
	}
	return PosixExecSubdir
}

// ScopeExecSubdir is ExecSubdir reading the platform indicator from scope,
// as a child started with it would see the variable.
func ScopeExecSubdir(scope *searchpath.Scope) string {
	return ExecSubdir(func(key string) string {
		v, _ := scope.Getenv(key)
		return v
	})
}

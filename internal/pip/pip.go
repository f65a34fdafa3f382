// SPDX-License-Identifier: MPL-2.0

// Package pip installs dependencies and builds wheels by invoking the
// interpreter's pip module in the active search-path scope.
package pip

import (
	"context"
	"errors"
	"fmt"

	"github.com/venvkit/venvkit/internal/interpreter"
	"github.com/venvkit/venvkit/internal/runner"
	"github.com/venvkit/venvkit/internal/searchpath"
)

// ErrNoPackages is returned by InstallPackages when called with nothing to install.
var ErrNoPackages = errors.New("no packages to install")

// Installer runs pip through a fixed interpreter name. Because the name is
// resolved through the scope at each call, an activated environment's pip is used.
type Installer struct {
	Runner      runner.Runner
	Interpreter interpreter.Reference
	// Dir is the project directory, used as the working directory and as ".".
	Dir string
}

// InstallRequirements runs "pip install -r file".
func (i *Installer) InstallRequirements(ctx context.Context, scope *searchpath.Scope, file string) error {
	return i.pip(ctx, scope, "install", "-r", file)
}

// InstallLocal installs the project in Dir, in editable mode when editable is set.
func (i *Installer) InstallLocal(ctx context.Context, scope *searchpath.Scope, editable bool) error {
	if editable {
		return i.pip(ctx, scope, "install", "-e", ".")
	}
	return i.pip(ctx, scope, "install", ".")
}

// InstallPackages installs the named packages in a single invocation.
func (i *Installer) InstallPackages(ctx context.Context, scope *searchpath.Scope, pkgs ...string) error {
	if len(pkgs) == 0 {
		return ErrNoPackages
	}
	return i.pip(ctx, scope, append([]string{"install"}, pkgs...)...)
}

// BuildWheel builds exactly one wheel for the project into wheelDir. The
// project's dependencies are not built and only binary distributions are
// accepted for build requirements.
func (i *Installer) BuildWheel(ctx context.Context, scope *searchpath.Scope, wheelDir string) error {
	return i.pip(ctx, scope, "wheel", "--no-deps", "--only-binary", ":all:", "--wheel-dir", wheelDir, ".")
}

func (i *Installer) pip(ctx context.Context, scope *searchpath.Scope, args ...string) error {
	res := i.Runner.Run(ctx, runner.Invocation{
		Program: i.Interpreter.String(),
		Args:    append([]string{"-m", "pip"}, args...),
		Dir:     i.Dir,
		Scope:   scope,
	})
	if err := res.Err(); err != nil {
		return fmt.Errorf("pip %s: %w", args[0], err)
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

// Package venv creates, activates and removes isolated Python environments.
package venv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/venvkit/venvkit/internal/interpreter"
	"github.com/venvkit/venvkit/internal/runner"
	"github.com/venvkit/venvkit/internal/searchpath"
	"github.com/venvkit/venvkit/internal/workroot"
)

// ActivateScript is the activation entry point inside the executable subdirectory.
const ActivateScript = "activate"

// ErrNotCreated is returned when activating an environment whose activation
// entry point does not exist.
var ErrNotCreated = errors.New("environment has not been created")

type (
	// Environment is an isolated installation root.
	Environment struct {
		// Path is the absolute environment directory.
		Path string
		// ExecSubdir is "bin" or "Scripts".
		ExecSubdir string
	}

	// Manager drives the environment lifecycle through the interpreter's venv module.
	Manager struct {
		Runner      runner.Runner
		Interpreter interpreter.Reference
		// Dir is the working directory for the venv invocation.
		Dir    string
		Logger *log.Logger
		// DryRun skips filesystem checks and removals that would fail or
		// mutate state without a real environment.
		DryRun bool
	}
)

// New describes the environment named name under root.
func New(root workroot.Root, name, execSubdir string) Environment {
	return Environment{Path: root.Join(name), ExecSubdir: execSubdir}
}

// BinDir returns the directory holding the environment's executables.
func (e Environment) BinDir() string {
	return filepath.Join(e.Path, e.ExecSubdir)
}

// ActivatePath returns the activation entry point.
func (e Environment) ActivatePath() string {
	return filepath.Join(e.BinDir(), ActivateScript)
}

// Exists reports whether the environment directory is present.
func (e Environment) Exists() bool {
	info, err := os.Stat(e.Path)
	return err == nil && info.IsDir()
}

// Create builds a fresh environment at env.Path, replacing any existing one.
func (m *Manager) Create(ctx context.Context, scope *searchpath.Scope, env Environment) error {
	res := m.Runner.Run(ctx, runner.Invocation{
		Program: m.Interpreter.String(),
		Args:    []string{"-m", "venv", "--clear", env.Path},
		Dir:     m.Dir,
		Scope:   scope,
	})
	if err := res.Err(); err != nil {
		return fmt.Errorf("create environment %s: %w", env.Path, err)
	}
	return nil
}

// Activate makes env's executables preferred in scope. From then on a bare
// interpreter name resolved through scope finds the environment's copy.
func (m *Manager) Activate(scope *searchpath.Scope, env Environment) error {
	if !m.DryRun {
		if _, err := os.Stat(env.ActivatePath()); err != nil {
			return fmt.Errorf("activate %s: %w: %w", env.Path, ErrNotCreated, err)
		}
	}
	if err := scope.Activate(env.Path, env.BinDir()); err != nil {
		return err
	}
	m.logger().Debug("activated", "env", env.Path, "path", scope.String())
	return nil
}

// Remove deletes the environment directory. A missing directory is not an error.
func (m *Manager) Remove(env Environment) error {
	if m.DryRun {
		m.logger().Info("dry-run", "remove", env.Path)
		return nil
	}
	m.logger().Info("remove", "env", env.Path)
	if err := os.RemoveAll(env.Path); err != nil {
		return fmt.Errorf("remove environment %s: %w", env.Path, err)
	}
	return nil
}

// StripStale drops scope entries that point into a previous copy of env, so
// a stale activation in the caller's shell cannot leak into creation.
func (m *Manager) StripStale(scope *searchpath.Scope, env Environment) int {
	if !env.Exists() {
		return 0
	}
	removed := scope.Strip(env.Path)
	if removed > 0 {
		m.logger().Debug("stripped stale entries", "env", env.Path, "count", removed)
	}
	return removed
}

func (m *Manager) logger() *log.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return log.New(io.Discard)
}

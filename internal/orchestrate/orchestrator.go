// SPDX-License-Identifier: MPL-2.0

package orchestrate

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/venvkit/venvkit/internal/config"
	"github.com/venvkit/venvkit/internal/interpreter"
	"github.com/venvkit/venvkit/internal/pip"
	"github.com/venvkit/venvkit/internal/runner"
	"github.com/venvkit/venvkit/internal/searchpath"
	"github.com/venvkit/venvkit/internal/venv"
	"github.com/venvkit/venvkit/internal/workroot"
)

// Step names, as they appear in failure reports.
const (
	StepCreateDevEnv      = "create development environment"
	StepActivateDevEnv    = "activate development environment"
	StepInstallReqs       = "install requirements"
	StepInstallEditable   = "install package"
	StepBuildWheel        = "build wheel"
	StepProbeVersion      = "query interpreter version"
	StepCheckVersion      = "check interpreter version"
	StepCreateTestEnv     = "create test environment"
	StepActivateTestEnv   = "activate test environment"
	StepInstallTestTools  = "install test packages"
	StepInstallUnderTest  = "install package under test"
	StepRunSuite          = "run test suite"
	StepRemoveDevEnv      = "remove development environment"
	bytecodeDisableEnvVar = "PYTHONDONTWRITEBYTECODE"
)

// ErrNoRoot is returned by New when Options.Root is not set.
var ErrNoRoot = errors.New("work root is required")

type (
	// Options configures an Orchestrator.
	Options struct {
		// Root is the resolved work root.
		Root workroot.Root
		// Config supplies names and directories. Nil means config.DefaultConfig().
		Config *config.Config
		// Runner executes external programs. Nil means a ProcessRunner.
		Runner runner.Runner
		// Logger receives progress messages. Nil discards.
		Logger *log.Logger
		// Environ seeds every sequence's search-path scope. Nil means os.Environ().
		Environ []string
		// DryRun prints commands instead of running them and leaves the
		// filesystem untouched. Read-only probes still run.
		DryRun bool
	}

	// Orchestrator runs lifecycle sequences.
	Orchestrator struct {
		root    workroot.Root
		cfg     *config.Config
		runner  runner.Runner
		logger  *log.Logger
		environ []string
		dryRun  bool
	}

	// session is the state of one sequence: its scope, the interpreter
	// reference resolved at its start, and the tools bound to both.
	session struct {
		scope      *searchpath.Scope
		interp     interpreter.Reference
		execSubdir string
		envs       *venv.Manager
		pip        *pip.Installer
	}
)

// New creates an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Root.IsZero() {
		return nil, ErrNoRoot
	}

	o := &Orchestrator{
		root:    opts.Root,
		cfg:     opts.Config,
		runner:  opts.Runner,
		logger:  opts.Logger,
		environ: opts.Environ,
		dryRun:  opts.DryRun,
	}
	if o.cfg == nil {
		o.cfg = config.DefaultConfig()
	}
	if valid, errs := o.cfg.IsValid(); !valid {
		return nil, &config.InvalidConfigError{FieldErrors: errs}
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.runner == nil {
		pr := runner.NewProcessRunner(o.logger)
		pr.DryRun = o.dryRun
		o.runner = pr
	}
	if o.environ == nil {
		o.environ = os.Environ()
	}
	return o, nil
}

// Root returns the work root.
func (o *Orchestrator) Root() workroot.Root { return o.root }

// DevEnvironment describes the development environment for the current platform.
func (o *Orchestrator) DevEnvironment() venv.Environment {
	return venv.New(o.root, o.cfg.Dev.EnvDir, o.execSubdir(searchpath.FromEnviron(o.environ)))
}

// TestEnvironment describes the disposable test environment for the current platform.
func (o *Orchestrator) TestEnvironment() venv.Environment {
	return venv.New(o.root, o.cfg.Test.EnvDir, o.execSubdir(searchpath.FromEnviron(o.environ)))
}

// newSession builds a fresh scope and resolves the interpreter in it.
func (o *Orchestrator) newSession() *session {
	scope := searchpath.FromEnviron(o.environ)
	interp := interpreter.Locate(scope.LookPath, o.cfg.Interpreter.Primary, o.cfg.Interpreter.Fallback)
	o.logger.Debug("interpreter", "name", interp)

	return &session{
		scope:      scope,
		interp:     interp,
		execSubdir: o.execSubdir(scope),
		envs: &venv.Manager{
			Runner:      o.runner,
			Interpreter: interp,
			Dir:         o.root.Path(),
			Logger:      o.logger,
			DryRun:      o.dryRun,
		},
		pip: &pip.Installer{
			Runner:      o.runner,
			Interpreter: interp,
			Dir:         o.root.Path(),
		},
	}
}

func (o *Orchestrator) execSubdir(scope *searchpath.Scope) string {
	return interpreter.ScopeExecSubdir(scope)
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/venvkit/venvkit/internal/config"
	"github.com/venvkit/venvkit/internal/issue"
	"github.com/venvkit/venvkit/internal/orchestrate"
	"github.com/venvkit/venvkit/internal/runner"
	"github.com/venvkit/venvkit/internal/workroot"
)

// stepResolveRoot names the root resolution step in failure reports.
const stepResolveRoot = "resolve working root"

type (
	// App wires CLI services and shared dependencies. Cobra handlers receive an
	// App reference and delegate the lifecycle work to an Orchestrator built per run.
	App struct {
		Config    config.Provider
		runner    runner.Runner
		environ   []string
		chdir     func(workroot.Root) error
		helpStyle string
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// Runner replaces the process runner.
		Runner runner.Runner
		// Environ seeds the search-path scope. Nil means os.Environ().
		Environ []string
		// Chdir moves the process into the resolved root. Nil means Root.Chdir.
		Chdir func(workroot.Root) error
		// HelpStyle is the glamour style for verbose failure help.
		HelpStyle string
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// globalFlags holds the persistent root flags.
	globalFlags struct {
		root    string
		config  string
		verbose bool
		dryRun  bool
		timeout time.Duration
	}

	// run is everything one lifecycle command needs once flags, root and
	// configuration have been resolved.
	run struct {
		orch    *orchestrate.Orchestrator
		cfg     *config.Config
		logger  *log.Logger
		verbose bool
		ctx     context.Context
		cancel  context.CancelFunc
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ()
	}
	if deps.Chdir == nil {
		deps.Chdir = workroot.Root.Chdir
	}
	if deps.HelpStyle == "" {
		deps.HelpStyle = "auto"
	}

	return &App{
		Config:    deps.Config,
		runner:    deps.Runner,
		environ:   deps.Environ,
		chdir:     deps.Chdir,
		helpStyle: deps.HelpStyle,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
}

// prepare resolves the work root, loads configuration and builds the
// orchestrator. The returned run's cancel must be called.
func (a *App) prepare(ctx context.Context, flags *globalFlags) (*run, error) {
	// --config is relative to the caller's directory, not the work root.
	configPath := flags.config
	if configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("resolve config path %s: %w", configPath, err)
		}
		configPath = abs
	}

	root, err := workroot.Resolve(flags.root)
	if err != nil {
		return nil, issue.NewStepError(issue.KindEnvironmentSetup, stepResolveRoot, err)
	}
	if err := a.chdir(root); err != nil {
		return nil, issue.NewStepError(issue.KindEnvironmentSetup, stepResolveRoot, err)
	}

	cfg, _, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: configPath,
		RootDir:        root.Path(),
	})
	if err != nil {
		return nil, err
	}

	verbose := flags.verbose || cfg.UI.Verbose
	logger := newLogger(a.stderr, verbose)

	r := a.runner
	if r == nil {
		r = &runner.ProcessRunner{
			Stdout: a.stdout,
			Stderr: a.stderr,
			Logger: logger,
			DryRun: flags.dryRun,
		}
	}

	orch, err := orchestrate.New(orchestrate.Options{
		Root:    root,
		Config:  cfg,
		Runner:  r,
		Logger:  logger,
		Environ: a.environ,
		DryRun:  flags.dryRun,
	})
	if err != nil {
		return nil, err
	}

	rc := &run{orch: orch, cfg: cfg, logger: logger, verbose: verbose}
	if flags.timeout > 0 {
		rc.ctx, rc.cancel = context.WithTimeout(ctx, flags.timeout)
	} else {
		rc.ctx, rc.cancel = context.WithCancel(ctx)
	}
	return rc, nil
}

// newLogger returns the stderr logger; verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

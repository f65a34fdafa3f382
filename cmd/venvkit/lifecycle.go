// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSetupCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the development environment and install the package into it",
		Long: `Create the development environment and install the package into it.

The environment directory (.pydevenv by default) is recreated from scratch,
the requirements file is installed, then the package itself is installed in
editable mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runLifecycle(cmd, flags, func(r *run) error {
				if err := r.orch.Setup(r.ctx); err != nil {
					return err
				}
				app.success("development environment ready", r.orch.DevEnvironment().Path)
				return nil
			})
		},
	}
}

func newBuildCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build a wheel for the package",
		Long: `Build a wheel for the package from the development environment.

Only the package itself is built (no dependencies), and only pre-built binary
distributions are accepted for anything the build needs. Run 'venvkit setup'
first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runLifecycle(cmd, flags, func(r *run) error {
				report, err := r.orch.Build(r.ctx)
				if err != nil {
					return err
				}
				if report.Wheel != "" {
					app.success("wheel built", report.Wheel)
				} else {
					app.success("wheel build finished", report.WheelDir)
				}
				return nil
			})
		},
	}
}

func newTestCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run the test suite in a disposable environment",
		Long: `Run the test suite in a disposable environment.

The interpreter version is checked first. A fresh environment (.pytest by
default) is created, the test packages and the package are installed into it,
and pytest runs with its cache disabled. The environment is removed afterwards,
whatever the outcome. The exit status is pytest's own.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runLifecycle(cmd, flags, func(r *run) error {
				if err := r.orch.Test(r.ctx); err != nil {
					return err
				}
				app.success("tests passed", "")
				return nil
			})
		},
	}
}

func newCleanupCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove the development environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runLifecycle(cmd, flags, func(r *run) error {
				if err := r.orch.Cleanup(r.ctx); err != nil {
					return err
				}
				app.success("development environment removed", r.orch.DevEnvironment().Path)
				return nil
			})
		},
	}
}

// runLifecycle prepares a run, calls fn, and turns any failure into a
// rendered report plus an *ExitError carrying the status.
func (a *App) runLifecycle(cmd *cobra.Command, flags *globalFlags, fn func(*run) error) error {
	verbose := flags.verbose

	rc, err := a.prepare(cmd.Context(), flags)
	if err == nil {
		defer rc.cancel()
		verbose = rc.verbose
		err = fn(rc)
	}
	if err == nil {
		return nil
	}

	code := a.reportFailure(cmd.Name(), err, verbose)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: code, Err: err}
}

func (a *App) success(msg, detail string) {
	if detail == "" {
		fmt.Fprintln(a.stdout, SuccessStyle.Render("✓ ")+msg)
		return
	}
	fmt.Fprintf(a.stdout, "%s%s: %s\n", SuccessStyle.Render("✓ "), msg, CmdStyle.Render(detail))
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "venvkit",
		Short: "Prepare, build and test a Python package in isolated environments",
		Long: TitleStyle.Render("venvkit") + SubtitleStyle.Render(" - isolated environments for a Python package") + `

venvkit drives python -m venv, pip and pytest through the four steps of a
package's lifecycle. Every command works from the project root and uses a
search path scoped to the environment it activates; your shell is never
modified.

` + SubtitleStyle.Render("Examples:") + `
  venvkit setup             Create .pydevenv and install the package (editable)
  venvkit build             Build a wheel into ./build
  venvkit test              Run pytest in a throwaway .pytest environment
  venvkit cleanup           Remove .pydevenv
  venvkit config show       Show the effective configuration`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.root, "root", "", "project root (default is the current directory)")
	pf.StringVar(&flags.config, "config", "", "config file (default is <root>/venvkit.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "print the commands without running them")
	pf.DurationVar(&flags.timeout, "timeout", 0, "abort the run after this long (0 disables)")

	rootCmd.AddCommand(
		newSetupCommand(app, flags),
		newBuildCommand(app, flags),
		newTestCommand(app, flags),
		newCleanupCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the status of the command. It is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// errorHandler prints errors cobra or fang produced. Failures of a lifecycle
// command arrive as *ExitError and have already been reported.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

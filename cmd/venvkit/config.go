// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venvkit/venvkit/internal/config"
	"github.com/venvkit/venvkit/internal/workroot"
)

// newConfigCommand creates the `venvkit config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage venvkit configuration",
		Long: `Manage venvkit configuration.

Configuration is read from venvkit.cue in the work root (or the file given
with --config). Every key can be overridden from the environment, e.g.
VENVKIT_TEST_MIN_PYTHON=3.11.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.showConfig(cmd.Context(), flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default venvkit.cue to the work root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.initConfig(flags)
		},
	})

	return cfgCmd
}

func (a *App) showConfig(ctx context.Context, flags *globalFlags) error {
	root, err := workroot.Resolve(flags.root)
	if err != nil {
		return err
	}
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.config, RootDir: root.Path()})
	if err != nil {
		return err
	}

	if path == "" {
		fmt.Fprintln(a.stdout, "// source: built-in defaults")
	} else {
		fmt.Fprintf(a.stdout, "// source: %s\n", path)
	}
	fmt.Fprint(a.stdout, config.GenerateCUE(cfg))
	return nil
}

func (a *App) initConfig(flags *globalFlags) error {
	root, err := workroot.Resolve(flags.root)
	if err != nil {
		return err
	}
	path, written, err := config.WriteDefault(root.Path())
	if err != nil {
		return err
	}
	if !written {
		fmt.Fprintln(a.stdout, WarningStyle.Render("config file already exists: ")+CmdStyle.Render(path))
		return nil
	}
	a.success("config file created", path)
	return nil
}

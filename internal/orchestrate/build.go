// SPDX-License-Identifier: MPL-2.0

package orchestrate

import (
	"context"
	"errors"

	"github.com/venvkit/venvkit/internal/issue"
	"github.com/venvkit/venvkit/internal/project"
	"github.com/venvkit/venvkit/internal/venv"
)

// BuildReport describes the outcome of a successful Build.
type BuildReport struct {
	// WheelDir is the absolute output directory.
	WheelDir string
	// Distribution is the normalized project name, empty without pyproject.toml.
	Distribution string
	// Wheel is the produced wheel, empty when it could not be located (or in dry-run).
	Wheel string
}

// Build activates the existing development environment and builds one wheel
// for the package, without building its dependencies and accepting only
// binary distributions for anything the build needs.
func (o *Orchestrator) Build(ctx context.Context) (*BuildReport, error) {
	s := o.newSession()
	env := o.devEnvironment(s)

	if err := s.envs.Activate(s.scope, env); err != nil {
		if errors.Is(err, venv.ErrNotCreated) {
			err = issue.NewErrorContext().
				WithOperation("activate development environment").
				WithResource(env.Path).
				WithSuggestion("Run 'venvkit setup' first").
				Wrap(err).
				BuildError()
		}
		return nil, issue.NewStepError(issue.KindEnvironmentSetup, StepActivateDevEnv, err)
	}

	report := &BuildReport{WheelDir: o.root.Join(o.cfg.Build.WheelDir)}
	if err := s.pip.BuildWheel(ctx, s.scope, report.WheelDir); err != nil {
		return nil, issue.NewStepError(issue.KindDependencyBuild, StepBuildWheel, err)
	}
	if o.dryRun {
		return report, nil
	}

	if md, err := project.Load(o.root.Path()); err == nil {
		report.Distribution = md.DistributionName()
	} else if !errors.Is(err, project.ErrNoMetadata) {
		o.logger.Warn("cannot read project metadata", "err", err)
	}

	wheel, err := project.FindWheel(report.WheelDir, report.Distribution)
	if err != nil {
		o.logger.Warn("built wheel not found", "err", err)
		return report, nil
	}
	report.Wheel = wheel
	o.logger.Info("wheel built", "path", wheel)
	return report, nil
}

// SPDX-License-Identifier: MPL-2.0

package orchestrate

import (
	"context"

	"github.com/venvkit/venvkit/internal/issue"
)

// Setup prepares the development environment: it drops stale entries for a
// previous copy from the search path, recreates the environment, activates
// it, installs the requirements file, then installs the package itself.
func (o *Orchestrator) Setup(ctx context.Context) error {
	s := o.newSession()
	env := o.devEnvironment(s)

	s.envs.StripStale(s.scope, env)

	if err := s.envs.Create(ctx, s.scope, env); err != nil {
		return issue.NewStepError(issue.KindEnvironmentSetup, StepCreateDevEnv, err)
	}
	if err := s.envs.Activate(s.scope, env); err != nil {
		return issue.NewStepError(issue.KindEnvironmentSetup, StepActivateDevEnv, err)
	}

	if err := s.pip.InstallRequirements(ctx, s.scope, o.cfg.Dev.Requirements); err != nil {
		return issue.NewStepError(issue.KindDependencyBuild, StepInstallReqs, err)
	}
	if err := s.pip.InstallLocal(ctx, s.scope, o.cfg.Dev.Editable); err != nil {
		return issue.NewStepError(issue.KindDependencyBuild, StepInstallEditable, err)
	}

	o.logger.Info("development environment ready", "env", env.Path)
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package orchestrate

import (
	"context"
	"fmt"

	"github.com/venvkit/venvkit/internal/interpreter"
	"github.com/venvkit/venvkit/internal/issue"
	"github.com/venvkit/venvkit/internal/runner"
)

// TestRunner is the test runner executable installed into the test environment.
const TestRunner = "pytest"

// Test runs the suite in a disposable environment. The interpreter version is
// checked first; nothing is created when it is too old. Once creation has
// been attempted the environment is removed on every exit path, and removal
// problems are logged, never returned.
func (o *Orchestrator) Test(ctx context.Context) error {
	s := o.newSession()

	minimum, err := interpreter.ParseVersion(o.cfg.Test.MinPython)
	if err != nil {
		return fmt.Errorf("test.min_python: %w", err)
	}
	found, err := interpreter.Probe(ctx, o.runner, s.interp, s.scope, o.root.Path())
	if err != nil {
		return issue.NewStepError(issue.KindEnvironmentSetup, StepProbeVersion, err)
	}
	if err := interpreter.Require(s.interp, found, minimum); err != nil {
		return issue.NewStepError(issue.KindVersionPrecondition, StepCheckVersion, err)
	}
	o.logger.Debug("interpreter version", "found", found, "required", minimum)

	s.scope.Setenv(bytecodeDisableEnvVar, "1")

	env := o.testEnvironment(s)
	if o.cfg.Test.StripStale {
		s.envs.StripStale(s.scope, env)
	}

	defer func() {
		if rmErr := s.envs.Remove(env); rmErr != nil {
			o.logger.Warn("could not remove test environment", "env", env.Path, "err", rmErr)
		}
	}()

	if err := s.envs.Create(ctx, s.scope, env); err != nil {
		return issue.NewStepError(issue.KindEnvironmentSetup, StepCreateTestEnv, err)
	}
	if err := s.envs.Activate(s.scope, env); err != nil {
		return issue.NewStepError(issue.KindEnvironmentSetup, StepActivateTestEnv, err)
	}

	if err := s.pip.InstallPackages(ctx, s.scope, o.cfg.Test.Packages...); err != nil {
		return plain(issue.NewStepError(issue.KindDependencyBuild, StepInstallTestTools, err))
	}
	if err := s.pip.InstallLocal(ctx, s.scope, false); err != nil {
		return plain(issue.NewStepError(issue.KindDependencyBuild, StepInstallUnderTest, err))
	}

	return o.runSuite(ctx, s)
}

func (o *Orchestrator) runSuite(ctx context.Context, s *session) error {
	args := append([]string{"-p", "no:cacheprovider"}, o.cfg.Test.RunnerArgs...)
	res := o.runner.Run(ctx, runner.Invocation{
		Program: TestRunner,
		Args:    args,
		Dir:     o.root.Path(),
		Scope:   s.scope,
	})
	if res.Success() {
		o.logger.Info("tests passed")
		return nil
	}

	// A runner that could not be started, or was interrupted, is an
	// environment problem. A crash of the suite itself is its own outcome.
	if res.Error != nil {
		return issue.NewStepError(issue.KindEnvironmentSetup, StepRunSuite, res.Err())
	}

	stepErr := issue.NewStepError(issue.KindTestFailure, StepRunSuite, res.Err())
	stepErr.ExitCode = int(res.ExitCode)
	o.logger.Debug("tests failed", "status", stepErr.ExitCode)
	return stepErr
}

func plain(err *issue.StepError) *issue.StepError {
	err.Plain = true
	return err
}

// IsTestFailure reports whether err is the suite's own failure, as opposed to
// a failure to prepare or run it.
func IsTestFailure(err error) bool {
	kind, ok := issue.KindOf(err)
	return ok && kind == issue.KindTestFailure
}

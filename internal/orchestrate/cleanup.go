// SPDX-License-Identifier: MPL-2.0

package orchestrate

import (
	"context"
	"fmt"

	"github.com/venvkit/venvkit/internal/issue"
	"github.com/venvkit/venvkit/internal/venv"
)

// Cleanup removes the development environment. A missing environment is not an error.
func (o *Orchestrator) Cleanup(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("cleanup canceled: %w", ctx.Err())
	default:
	}

	s := o.newSession()
	env := o.devEnvironment(s)
	if !env.Exists() {
		o.logger.Info("nothing to remove", "env", env.Path)
		return nil
	}
	if err := s.envs.Remove(env); err != nil {
		return issue.NewStepError(issue.KindEnvironmentSetup, StepRemoveDevEnv, err)
	}
	return nil
}

func (o *Orchestrator) devEnvironment(s *session) venv.Environment {
	return venv.New(o.root, o.cfg.Dev.EnvDir, s.execSubdir)
}

func (o *Orchestrator) testEnvironment(s *session) venv.Environment {
	return venv.New(o.root, o.cfg.Test.EnvDir, s.execSubdir)
}

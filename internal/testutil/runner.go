// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"strings"

	"github.com/venvkit/venvkit/internal/runner"
)

// RecordingRunner implements runner.Runner without starting processes.
// Every invocation is appended to Calls; Respond, when set, decides the result.
type RecordingRunner struct {
	Calls []runner.Invocation
	// Respond returns the result for an invocation. Nil means success.
	Respond func(inv runner.Invocation) *runner.Result
}

// Run records inv.
func (r *RecordingRunner) Run(_ context.Context, inv runner.Invocation) *runner.Result {
	return r.record(inv)
}

// Capture records inv.
func (r *RecordingRunner) Capture(_ context.Context, inv runner.Invocation) *runner.Result {
	return r.record(inv)
}

// CommandLines returns the recorded invocations rendered as command lines.
func (r *RecordingRunner) CommandLines() []string {
	lines := make([]string, 0, len(r.Calls))
	for _, inv := range r.Calls {
		lines = append(lines, inv.CommandLine())
	}
	return lines
}

func (r *RecordingRunner) record(inv runner.Invocation) *runner.Result {
	r.Calls = append(r.Calls, inv)
	if r.Respond != nil {
		if res := r.Respond(inv); res != nil {
			if res.Program == "" {
				res.Program = inv.Program
			}
			return res
		}
	}
	return &runner.Result{Program: inv.Program}
}

// FailWhen returns a Respond func that fails with code for invocations whose
// command line contains substr.
func FailWhen(substr string, code runner.ExitCode) func(runner.Invocation) *runner.Result {
	return func(inv runner.Invocation) *runner.Result {
		if strings.Contains(inv.CommandLine(), substr) {
			return &runner.Result{ExitCode: code}
		}
		return nil
	}
}

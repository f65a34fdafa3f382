// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/venvkit/venvkit/internal/issue"
)

func TestRenderBanner_ActionableSuggestions(t *testing.T) {
	t.Parallel()

	cause := issue.NewErrorContext().
		WithOperation("activate environment").
		WithResource(".pydevenv").
		WithSuggestion("Run 'venvkit setup' first").
		Wrap(errors.New("no such file or directory")).
		BuildError()
	se := issue.NewStepError(issue.KindEnvironmentSetup, "activate development environment", cause)

	plain := renderBanner("build", se, false)
	for _, want := range []string{"venvkit build failed", "activate development environment failed", "Run 'venvkit setup' first"} {
		if !strings.Contains(plain, want) {
			t.Errorf("banner missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Error chain") {
		t.Errorf("non-verbose banner should not show the error chain:\n%s", plain)
	}

	verbose := renderBanner("build", se, true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("verbose banner should show the error chain:\n%s", verbose)
	}
}

func TestApp_WriteHelpSkipsUnknownKind(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	app := NewApp(Dependencies{HelpStyle: "notty", Stdout: &out, Stderr: &out, Environ: []string{}})
	app.writeHelp(&out, issue.Kind(42))
	if out.Len() != 0 {
		t.Errorf("writeHelp() for an unknown kind wrote %q", out.String())
	}
}

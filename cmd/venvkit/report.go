// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/venvkit/venvkit/internal/issue"
)

// reportFailure writes err to the error stream in the style its kind calls
// for and returns the process exit status.
//
//   - environment setup and build failures: framed banner, status 255
//   - install failures of the test sequence: plain error line, status 255
//   - interpreter too old: plain diagnostic, status 1
//   - test suite failure: short note, the suite's own status
//   - anything else (flags, configuration): error line, status 1
func (a *App) reportFailure(command string, err error, verbose bool) int {
	w := a.stderr

	var se *issue.StepError
	if !errors.As(err, &se) {
		fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
		return issue.ExitStatus(err)
	}

	switch {
	case se.Banner():
		fmt.Fprintln(w, renderBanner(command, se, verbose))
	case se.Kind == issue.KindVersionPrecondition:
		fmt.Fprintf(w, "venvkit %s: %v\n", command, se.Err)
	case se.Kind == issue.KindTestFailure:
		fmt.Fprintln(w, WarningStyle.Render(fmt.Sprintf("tests failed (exit status %d)", se.Status())))
	default:
		fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(se, verbose))
	}

	if verbose {
		a.writeHelp(w, se.Kind)
	}
	return se.Status()
}

// renderBanner frames a fatal step failure.
func renderBanner(command string, se *issue.StepError, verbose bool) string {
	var body strings.Builder
	body.WriteString(bannerHeaderStyle.Render(fmt.Sprintf("✗ venvkit %s failed", command)))
	body.WriteString("\n\n")
	body.WriteString(se.Step)
	body.WriteString(" failed")

	var ae *issue.ActionableError
	if errors.As(se.Err, &ae) {
		body.WriteString(":\n")
		body.WriteString(ae.Error())
		if len(ae.Suggestions) > 0 {
			body.WriteString("\n")
		}
		for _, suggestion := range ae.Suggestions {
			body.WriteString("\n  ")
			body.WriteString(hintStyle.Render("• " + suggestion))
		}
		if verbose {
			body.WriteString(ae.ErrorChain())
		}
	} else if se.Err != nil {
		body.WriteString(":\n")
		body.WriteString(se.Err.Error())
	}

	return bannerStyle.Render(body.String())
}

// writeHelp appends the markdown guidance for kind. Rendering problems are
// not worth a second failure report; the help is skipped.
func (a *App) writeHelp(w io.Writer, kind issue.Kind) {
	help := issue.Get(kind)
	if help == nil {
		return
	}
	out, err := help.Render(a.helpStyle)
	if err != nil {
		return
	}
	fmt.Fprint(w, out)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
)

// StepError reports the failure of one named step of a lifecycle sequence.
type StepError struct {
	// Kind classifies the failure.
	Kind Kind
	// Step names what was being done, e.g. "create environment".
	Step string
	// ExitCode is the status a failed child reported, when one did.
	// For KindTestFailure it is the suite's result and becomes the process status.
	ExitCode int
	// Err is the underlying cause.
	Err error
	// Plain reports the failure without the fatal banner.
	Plain bool
}

// NewStepError wraps err as a failure of step. It returns nil when err is nil
// so call sites can wrap unconditionally.
func NewStepError(kind Kind, step string, err error) *StepError {
	if err == nil {
		return nil
	}
	return &StepError{Kind: kind, Step: step, Err: err}
}

// Error implements the error interface.
func (e *StepError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Step)
	sb.WriteString(" failed")
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Banner reports whether the failure should be announced with the fatal banner.
func (e *StepError) Banner() bool {
	return e.Kind.IsFatal() && !e.Plain
}

// Unwrap returns the underlying cause.
func (e *StepError) Unwrap() error { return e.Err }

// Status returns the process exit status for this failure.
func (e *StepError) Status() int {
	if e.Kind == KindTestFailure {
		if e.ExitCode != 0 {
			return e.ExitCode
		}
		return 1
	}
	return e.Kind.ExitCode()
}

// KindOf returns the Kind of the first StepError in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// ExitStatus maps any error to a process exit status. Errors that carry no
// StepError are treated as usage or configuration problems and map to 1.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var se *StepError
	if errors.As(err, &se) {
		return se.Status()
	}
	return 1
}

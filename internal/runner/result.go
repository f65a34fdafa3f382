// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrNonZeroExit is wrapped by ExitStatusError.
	ErrNonZeroExit = errors.New("non-zero exit status")
	// ErrProgramNotFound is returned when a program cannot be resolved in its scope.
	ErrProgramNotFound = errors.New("program not found")
)

type (
	// Result contains the outcome of one invocation.
	Result struct {
		// Program is the program as it was invoked.
		Program string
		// ExitCode is the child's exit status.
		ExitCode ExitCode
		// Error is set when the child could not be started or waited for.
		Error error
		// Signal names the signal that terminated the child, if any. ExitCode
		// is then 128 plus the signal number, as a shell reports it.
		Signal string
		// Output contains captured stdout (Capture only).
		Output string
		// ErrOutput contains captured stderr (Capture only).
		ErrOutput string
	}

	// ExitStatusError reports a child that ran and exited non-zero.
	ExitStatusError struct {
		Program string
		Code    ExitCode
		Signal  string
	}
)

// Error implements the error interface.
func (e *ExitStatusError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("%s terminated by signal %s (status %d)", e.Program, e.Signal, int(e.Code))
	}
	return fmt.Sprintf("%s exited with status %d", e.Program, int(e.Code))
}

// Unwrap returns ErrNonZeroExit.
func (e *ExitStatusError) Unwrap() error { return ErrNonZeroExit }

// NewErrorResult creates a Result for an invocation that never produced an exit status.
func NewErrorResult(err error) *Result {
	return &Result{ExitCode: 1, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// Success returns true if the command executed successfully.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// Err converts the Result to an error: the start/wait error if any, an
// *ExitStatusError for a non-zero status, or nil.
func (r *Result) Err() error {
	if r.Error != nil {
		return r.Error
	}
	if r.ExitCode != 0 {
		return &ExitStatusError{Program: r.Program, Code: r.ExitCode, Signal: r.Signal}
	}
	return nil
}

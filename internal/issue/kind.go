// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
)

// Kind constants, one per failure class of the lifecycle.
const (
	// KindEnvironmentSetup covers root resolution, environment creation and activation.
	KindEnvironmentSetup Kind = iota + 1
	// KindDependencyBuild covers installer and wheel builder failures.
	KindDependencyBuild
	// KindVersionPrecondition is raised when the interpreter is older than required.
	KindVersionPrecondition
	// KindTestFailure is the test suite's own non-zero result.
	KindTestFailure
)

// Exit status conventions.
const (
	// ExitFatal is the status for setup and build failures (a shell's -1).
	ExitFatal = 255
	// ExitPrecondition is the status for an unmet interpreter version requirement.
	ExitPrecondition = 1
)

// ErrInvalidKind is returned when a Kind value is not recognized.
var ErrInvalidKind = errors.New("invalid issue kind")

type (
	// Kind classifies a failure so the caller can choose how to report it.
	Kind int

	// InvalidKindError is returned when a Kind is outside the known range.
	InvalidKindError struct {
		Value Kind
	}
)

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid issue kind %d", int(e.Value))
}

// Unwrap returns ErrInvalidKind for errors.Is compatibility.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// String returns a short, stable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindEnvironmentSetup:
		return "environment-setup"
	case KindDependencyBuild:
		return "dependency-build"
	case KindVersionPrecondition:
		return "version-precondition"
	case KindTestFailure:
		return "test-failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsValid returns whether the Kind is one of the defined constants.
func (k Kind) IsValid() (bool, []error) {
	if k < KindEnvironmentSetup || k > KindTestFailure {
		return false, []error{&InvalidKindError{Value: k}}
	}
	return true, nil
}

// IsFatal reports whether the kind denotes a defect in the run itself, as
// opposed to an outcome the run was meant to report.
func (k Kind) IsFatal() bool {
	return k == KindEnvironmentSetup || k == KindDependencyBuild
}

// ExitCode returns the process status for the kind. Test failures carry their
// own status on the StepError and are not covered here.
func (k Kind) ExitCode() int {
	switch k {
	case KindEnvironmentSetup, KindDependencyBuild:
		return ExitFatal
	default:
		return ExitPrecondition
	}
}

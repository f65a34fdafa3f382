// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindEnvironmentSetup, "environment-setup"},
		{KindDependencyBuild, "dependency-build"},
		{KindVersionPrecondition, "version-precondition"},
		{KindTestFailure, "test-failure"},
		{Kind(42), "kind(42)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestKind_IsValid(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindEnvironmentSetup, KindDependencyBuild, KindVersionPrecondition, KindTestFailure} {
		if ok, errs := k.IsValid(); !ok {
			t.Errorf("%s should be valid, got %v", k, errs)
		}
	}

	ok, errs := Kind(0).IsValid()
	if ok {
		t.Fatal("Kind(0) should be invalid")
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got %v", errs)
	}
}

func TestKind_ExitCodeAndFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind      Kind
		wantCode  int
		wantFatal bool
	}{
		{KindEnvironmentSetup, 255, true},
		{KindDependencyBuild, 255, true},
		{KindVersionPrecondition, 1, false},
		{KindTestFailure, 1, false},
	}

	for _, tt := range tests {
		if got := tt.kind.ExitCode(); got != tt.wantCode {
			t.Errorf("%s.ExitCode() = %d, want %d", tt.kind, got, tt.wantCode)
		}
		if got := tt.kind.IsFatal(); got != tt.wantFatal {
			t.Errorf("%s.IsFatal() = %v, want %v", tt.kind, got, tt.wantFatal)
		}
	}
}

func TestNewStepError_NilCause(t *testing.T) {
	t.Parallel()

	if se := NewStepError(KindDependencyBuild, "install", nil); se != nil {
		t.Errorf("NewStepError(nil) = %v, want nil", se)
	}
}

func TestStepError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 2")
	se := NewStepError(KindDependencyBuild, "install requirements", cause)

	if got, want := se.Error(), "install requirements failed: exit status 2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(se, cause) {
		t.Error("StepError should unwrap to its cause")
	}
}

func TestExitStatus(t *testing.T) {
	t.Parallel()

	suite := &StepError{Kind: KindTestFailure, Step: "run tests", ExitCode: 5, Err: errors.New("exit status 5")}
	noCode := &StepError{Kind: KindTestFailure, Step: "run tests", Err: errors.New("boom")}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("bad flag"), 1},
		{"setup", NewStepError(KindEnvironmentSetup, "create environment", errors.New("x")), 255},
		{"build", NewStepError(KindDependencyBuild, "build wheel", errors.New("x")), 255},
		{"version", NewStepError(KindVersionPrecondition, "check interpreter version", errors.New("x")), 1},
		{"suite code", suite, 5},
		{"suite without code", noCode, 1},
		{"wrapped", fmt.Errorf("outer: %w", suite), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitStatus(tt.err); got != tt.want {
				t.Errorf("ExitStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", NewStepError(KindVersionPrecondition, "check", errors.New("old")))
	kind, ok := KindOf(err)
	if !ok || kind != KindVersionPrecondition {
		t.Errorf("KindOf() = (%s, %v), want (%s, true)", kind, ok, KindVersionPrecondition)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf(plain error) should report false")
	}
}

func TestStepError_Banner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *StepError
		want bool
	}{
		{name: "setup", err: &StepError{Kind: KindEnvironmentSetup}, want: true},
		{name: "build", err: &StepError{Kind: KindDependencyBuild}, want: true},
		{name: "plain build", err: &StepError{Kind: KindDependencyBuild, Plain: true}, want: false},
		{name: "version", err: &StepError{Kind: KindVersionPrecondition}, want: false},
		{name: "tests", err: &StepError{Kind: KindTestFailure, ExitCode: 1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Banner(); got != tt.want {
				t.Errorf("Banner() = %v, want %v", got, tt.want)
			}
		})
	}
}

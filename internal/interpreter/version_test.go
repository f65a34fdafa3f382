// SPDX-License-Identifier: MPL-2.0

package interpreter

import (
	"context"
	"errors"
	"testing"

	"github.com/venvkit/venvkit/internal/runner"
	"github.com/venvkit/venvkit/internal/testutil"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		output  string
		want    Version
		wantErr bool
	}{
		{output: "Python 3.12.1\n", want: Version{Major: 3, Minor: 12, Patch: 1, Raw: "3.12.1"}},
		{output: "Python 3.13.0rc2", want: Version{Major: 3, Minor: 13, Patch: 0, Raw: "3.13.0"}},
		{output: "Python 3.9", want: Version{Major: 3, Minor: 9, Raw: "3.9"}},
		{output: "", wantErr: true},
		{output: "Python", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVersion(tt.output)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparsableVersion) {
					t.Errorf("ParseVersion(%q) error = %v, want ErrUnparsableVersion", tt.output, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) error: %v", tt.output, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.output, got, tt.want)
			}
		})
	}
}

func TestVersion_AtLeast(t *testing.T) {
	t.Parallel()

	minimum := MustParseVersion(DefaultMinimum)
	tests := []struct {
		version string
		want    bool
	}{
		{"3.9.18", false},
		{"3.10", true},
		{"3.10.0", true},
		{"3.11.4", true},
		{"2.7.18", false},
		{"4.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			if got := MustParseVersion(tt.version).AtLeast(minimum); got != tt.want {
				t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.version, minimum, got, tt.want)
			}
		})
	}
}

func TestVersion_String(t *testing.T) {
	t.Parallel()

	if got := (Version{Major: 3, Minor: 10}).String(); got != "3.10.0" {
		t.Errorf("String() = %q, want 3.10.0", got)
	}
	if got := MustParseVersion("Python 3.9").String(); got != "3.9" {
		t.Errorf("String() = %q, want 3.9", got)
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	rec := &testutil.RecordingRunner{Respond: func(runner.Invocation) *runner.Result {
		return &runner.Result{ErrOutput: "Python 2.7.18\n"}
	}}

	v, err := Probe(context.Background(), rec, "python", nil, "/work")
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if v.Major != 2 || v.Minor != 7 {
		t.Errorf("Probe() = %v, want 2.7.x", v)
	}
	if got := rec.CommandLines(); len(got) != 1 || got[0] != "python --version" {
		t.Errorf("invocations = %v, want [python --version]", got)
	}
	if rec.Calls[0].Dir != "/work" {
		t.Errorf("Dir = %q, want /work", rec.Calls[0].Dir)
	}
}

func TestProbe_Failure(t *testing.T) {
	t.Parallel()

	rec := &testutil.RecordingRunner{Respond: testutil.FailWhen("--version", 9009)}

	_, err := Probe(context.Background(), rec, "python", nil, "")
	var exitErr *runner.ExitStatusError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Probe() error = %v, want *runner.ExitStatusError", err)
	}
	if exitErr.Code != 9009 {
		t.Errorf("Code = %d, want 9009", exitErr.Code)
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	required := MustParseVersion("3.10")
	if err := Require("python", MustParseVersion("3.10.2"), required); err != nil {
		t.Errorf("Require() error = %v, want nil", err)
	}

	err := Require("python", MustParseVersion("Python 3.9.18"), required)
	var tooOld *TooOldError
	if !errors.As(err, &tooOld) {
		t.Fatalf("Require() error = %v, want *TooOldError", err)
	}
	if !errors.Is(err, ErrTooOld) {
		t.Error("error should wrap ErrTooOld")
	}
	if got, want := err.Error(), "python is version 3.9.18, but 3.10 or newer is required"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// SPDX-License-Identifier: MPL-2.0

package interpreter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/mod/semver"
)

// DefaultMinimum is the lowest interpreter version the test sequence accepts.
const DefaultMinimum = "3.10"

var (
	// ErrUnparsableVersion is returned when no version number can be found.
	ErrUnparsableVersion = errors.New("cannot parse interpreter version")
	// ErrTooOld is the sentinel error wrapped by TooOldError.
	ErrTooOld = errors.New("interpreter version too old")
)

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

type (
	// Version is a major.minor[.patch] interpreter version.
	Version struct {
		Major int
		Minor int
		Patch int
		// Raw is the matched text, e.g. "3.12.1".
		Raw string
	}

	// TooOldError reports an interpreter below the required minimum.
	TooOldError struct {
		Interpreter Reference
		Found       Version
		Required    Version
	}
)

// Error implements the error interface.
func (e *TooOldError) Error() string {
	return fmt.Sprintf("%s is version %s, but %s or newer is required", e.Interpreter, e.Found, e.Required)
}

// Unwrap returns ErrTooOld.
func (e *TooOldError) Unwrap() error { return ErrTooOld }

// Require returns a *TooOldError when found is older than required.
func Require(ref Reference, found, required Version) error {
	if found.AtLeast(required) {
		return nil
	}
	return &TooOldError{Interpreter: ref, Found: found, Required: required}
}

// ParseVersion extracts the first version number from output such as
// "Python 3.12.1" or "Python 3.13.0rc2".
func ParseVersion(output string) (Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrUnparsableVersion, output)
	}

	v := Version{Raw: m[0]}
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	return v, nil
}

// MustParseVersion is ParseVersion for constants; it panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the matched version text.
func (v Version) String() string {
	if v.Raw != "" {
		return v.Raw
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether v >= minimum.
func (v Version) AtLeast(minimum Version) bool {
	return semver.Compare(v.canonical(), minimum.canonical()) >= 0
}

func (v Version) canonical() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/venvkit/venvkit/internal/interpreter"
	"github.com/venvkit/venvkit/internal/platform"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrEnvDirOutsideRoot is returned when an environment directory is not a
	// proper subdirectory of the work root.
	ErrEnvDirOutsideRoot = errors.New("environment directory must be a subdirectory of the work root")
	// ErrEnvDirOverlap is returned when the development and test environments
	// share or nest their directories.
	ErrEnvDirOverlap = errors.New("environment directories overlap")
)

type (
	// Config is the complete venvkit configuration.
	Config struct {
		Interpreter InterpreterConfig `json:"interpreter" mapstructure:"interpreter"`
		Dev         DevConfig         `json:"dev" mapstructure:"dev"`
		Build       BuildConfig       `json:"build" mapstructure:"build"`
		Test        TestConfig        `json:"test" mapstructure:"test"`
		UI          UIConfig          `json:"ui" mapstructure:"ui"`
	}

	// InterpreterConfig names the interpreter candidates, probed in order.
	InterpreterConfig struct {
		Primary  string `json:"primary" mapstructure:"primary"`
		Fallback string `json:"fallback" mapstructure:"fallback"`
	}

	// DevConfig configures the development environment built by setup.
	DevConfig struct {
		// EnvDir is relative to the work root.
		EnvDir string `json:"env_dir" mapstructure:"env_dir"`
		// Requirements is the requirements file installed before the package.
		Requirements string `json:"requirements" mapstructure:"requirements"`
		// Editable installs the package in editable mode.
		Editable bool `json:"editable" mapstructure:"editable"`
	}

	// BuildConfig configures wheel builds.
	BuildConfig struct {
		WheelDir string `json:"wheel_dir" mapstructure:"wheel_dir"`
	}

	// TestConfig configures the disposable test environment.
	TestConfig struct {
		EnvDir string `json:"env_dir" mapstructure:"env_dir"`
		// MinPython is the lowest accepted interpreter version, "major.minor[.patch]".
		MinPython string `json:"min_python" mapstructure:"min_python"`
		// Packages are installed before the package under test.
		Packages []string `json:"packages" mapstructure:"packages"`
		// RunnerArgs are appended to the test runner command line.
		RunnerArgs []string `json:"runner_args" mapstructure:"runner_args"`
		// StripStale removes stale test environment entries from the search
		// path before creation, as setup does for the development environment.
		StripStale bool `json:"strip_stale" mapstructure:"strip_stale"`
	}

	// UIConfig configures output.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidConfigError is returned when a decoded Config violates a
	// constraint the schema cannot express.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Interpreter: InterpreterConfig{
			Primary:  interpreter.DefaultPrimary,
			Fallback: interpreter.DefaultFallback,
		},
		Dev: DevConfig{
			EnvDir:       ".pydevenv",
			Requirements: "requirements.txt",
			Editable:     true,
		},
		Build: BuildConfig{
			WheelDir: "build",
		},
		Test: TestConfig{
			EnvDir:     ".pytest",
			MinPython:  interpreter.DefaultMinimum,
			Packages:   []string{"pytest"},
			RunnerArgs: []string{},
		},
	}
}

// IsValid returns whether the Config is usable, and the list of violations
// if it is not.
func (c *Config) IsValid() (bool, []error) {
	var errs []error

	if strings.TrimSpace(c.Interpreter.Primary) == "" {
		errs = append(errs, errors.New("interpreter.primary must not be empty"))
	}
	if strings.TrimSpace(c.Interpreter.Fallback) == "" {
		errs = append(errs, errors.New("interpreter.fallback must not be empty"))
	}
	if strings.TrimSpace(c.Dev.EnvDir) == "" {
		errs = append(errs, errors.New("dev.env_dir must not be empty"))
	}
	if strings.TrimSpace(c.Test.EnvDir) == "" {
		errs = append(errs, errors.New("test.env_dir must not be empty"))
	}
	if strings.TrimSpace(c.Build.WheelDir) == "" {
		errs = append(errs, errors.New("build.wheel_dir must not be empty"))
	}
	if len(c.Test.Packages) == 0 {
		errs = append(errs, errors.New("test.packages must name at least one package"))
	}
	if _, err := interpreter.ParseVersion(c.Test.MinPython); err != nil {
		errs = append(errs, fmt.Errorf("test.min_python: %w", err))
	}
	for _, dir := range []struct{ key, value string }{
		{"dev.env_dir", c.Dev.EnvDir},
		{"test.env_dir", c.Test.EnvDir},
		{"build.wheel_dir", c.Build.WheelDir},
	} {
		if elem := platform.ReservedElement(dir.value); elem != "" {
			errs = append(errs, fmt.Errorf("%s: %q is a reserved file name on Windows", dir.key, elem))
		}
	}
	devOK := checkEnvDir(&errs, "dev.env_dir", c.Dev.EnvDir)
	testOK := checkEnvDir(&errs, "test.env_dir", c.Test.EnvDir)
	if devOK && testOK && nested(c.Dev.EnvDir, c.Test.EnvDir) {
		errs = append(errs, fmt.Errorf("%w: dev.env_dir %q and test.env_dir %q", ErrEnvDirOverlap, c.Dev.EnvDir, c.Test.EnvDir))
	}

	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// checkEnvDir appends an error unless dir is a relative path naming a
// directory strictly below the work root.
func checkEnvDir(errs *[]error, key, dir string) bool {
	if strings.TrimSpace(dir) == "" {
		return false
	}
	clean := filepath.Clean(dir)
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" || strings.HasPrefix(filepath.ToSlash(clean), "/") ||
		clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		*errs = append(*errs, fmt.Errorf("%w: %s %q", ErrEnvDirOutsideRoot, key, dir))
		return false
	}
	return true
}

// nested reports whether a and b are the same directory or one contains the other.
func nested(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(a, b+sep) || strings.HasPrefix(b, a+sep)
}

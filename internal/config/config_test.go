// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/venvkit/venvkit/internal/issue"
	"github.com/venvkit/venvkit/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Interpreter.Primary != "python" || cfg.Interpreter.Fallback != "python3" {
		t.Errorf("interpreter = %+v, want python/python3", cfg.Interpreter)
	}
	if cfg.Dev.EnvDir != ".pydevenv" {
		t.Errorf("Dev.EnvDir = %q, want .pydevenv", cfg.Dev.EnvDir)
	}
	if !cfg.Dev.Editable {
		t.Error("Dev.Editable should default to true")
	}
	if cfg.Test.EnvDir != ".pytest" {
		t.Errorf("Test.EnvDir = %q, want .pytest", cfg.Test.EnvDir)
	}
	if cfg.Test.MinPython != "3.10" {
		t.Errorf("Test.MinPython = %q, want 3.10", cfg.Test.MinPython)
	}
	if !slices.Equal(cfg.Test.Packages, []string{"pytest"}) {
		t.Errorf("Test.Packages = %v, want [pytest]", cfg.Test.Packages)
	}
	if cfg.Test.StripStale {
		t.Error("Test.StripStale should default to false")
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty", path)
	}
	if cfg.Build.WheelDir != "build" {
		t.Errorf("Build.WheelDir = %q, want build", cfg.Build.WheelDir)
	}
}

func TestLoad_RootConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, FileName()), `
interpreter: primary: "python3.12"
dev: editable: false
test: {
	min_python:  "3.11"
	packages:    ["pytest", "pytest-cov"]
	runner_args: ["-x", "-q"]
}
`, 0o644)

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: root})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != filepath.Join(root, FileName()) {
		t.Errorf("resolved path = %q", path)
	}
	if cfg.Interpreter.Primary != "python3.12" {
		t.Errorf("Interpreter.Primary = %q, want python3.12", cfg.Interpreter.Primary)
	}
	if cfg.Interpreter.Fallback != "python3" {
		t.Errorf("unset keys must keep defaults, Fallback = %q", cfg.Interpreter.Fallback)
	}
	if cfg.Dev.Editable {
		t.Error("Dev.Editable should be false")
	}
	if cfg.Test.MinPython != "3.11" {
		t.Errorf("Test.MinPython = %q, want 3.11", cfg.Test.MinPython)
	}
	if !slices.Equal(cfg.Test.Packages, []string{"pytest", "pytest-cov"}) {
		t.Errorf("Test.Packages = %v", cfg.Test.Packages)
	}
	if !slices.Equal(cfg.Test.RunnerArgs, []string{"-x", "-q"}) {
		t.Errorf("Test.RunnerArgs = %v", cfg.Test.RunnerArgs)
	}
}

func TestLoad_CustomPath_NotFound_ReturnsError(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error should be *issue.ActionableError, got %T", err)
	}
	if ae.Operation != "load configuration" || ae.Resource != missing {
		t.Errorf("ActionableError = %+v", ae)
	}
	if len(ae.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown field", content: "dev: color: \"blue\"\n", want: "color"},
		{name: "wrong type", content: "dev: editable: \"yes\"\n", want: "dev.editable"},
		{name: "bad version", content: "test: min_python: \"three\"\n", want: "test.min_python"},
		{name: "empty env dir", content: "test: env_dir: \"\"\n", want: "test.env_dir"},
		{name: "syntax error", content: "dev: {\n", want: "venvkit.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(root, FileName()), tt.content, 0o644)

			_, _, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: root})
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_RejectsOverlappingEnvDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, FileName()), "test: env_dir: \".pydevenv/tests\"\n", 0o644)

	_, _, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: root})
	if !errors.Is(err, ErrEnvDirOverlap) {
		t.Errorf("error = %v, want ErrEnvDirOverlap", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// Not parallel: t.Setenv.
func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("VENVKIT_TEST_MIN_PYTHON", "3.12")
	t.Setenv("VENVKIT_DEV_ENV_DIR", ".venv")
	t.Setenv("VENVKIT_TEST_PACKAGES", "pytest,hypothesis")

	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, FileName()), "test: min_python: \"3.11\"\n", 0o644)

	cfg, _, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: root})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Test.MinPython != "3.12" {
		t.Errorf("environment should override the file, MinPython = %q", cfg.Test.MinPython)
	}
	if cfg.Dev.EnvDir != ".venv" {
		t.Errorf("Dev.EnvDir = %q, want .venv", cfg.Dev.EnvDir)
	}
	if !slices.Equal(cfg.Test.Packages, []string{"pytest", "hypothesis"}) {
		t.Errorf("Test.Packages = %v", cfg.Test.Packages)
	}
}

// Not parallel: t.Setenv.
func TestLoad_RejectsEnvDirOutsideRootFromEnvironment(t *testing.T) {
	t.Setenv("VENVKIT_TEST_ENV_DIR", ".")

	_, _, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: t.TempDir()})
	if !errors.Is(err, ErrEnvDirOutsideRoot) {
		t.Errorf("error = %v, want ErrEnvDirOutsideRoot", err)
	}
}

func TestGenerateCUE_RoundTrips(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.Test.RunnerArgs = []string{"-k", "not slow"}
	want.Test.StripStale = true

	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, FileName()), GenerateCUE(want), 0o644)

	got, _, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: root})
	if err != nil {
		t.Fatalf("generated CUE should load: %v", err)
	}
	if !slices.Equal(got.Test.RunnerArgs, want.Test.RunnerArgs) || !got.Test.StripStale {
		t.Errorf("round trip mismatch: %+v", got.Test)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, written, err := WriteDefault(dir)
	if err != nil {
		t.Fatalf("WriteDefault() error: %v", err)
	}
	if !written || path != filepath.Join(dir, FileName()) {
		t.Errorf("WriteDefault() = %q, %v", path, written)
	}

	if err := os.WriteFile(path, []byte("ui: verbose: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, written, err := WriteDefault(dir); err != nil || written {
		t.Errorf("existing file must not be overwritten (written=%v, err=%v)", written, err)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errs   int
	}{
		{name: "same env dirs", mutate: func(c *Config) { c.Test.EnvDir = c.Dev.EnvDir }, errs: 1},
		{name: "dev inside test", mutate: func(c *Config) { c.Dev.EnvDir = ".pytest/dev" }, errs: 1},
		{name: "sibling prefixes", mutate: func(c *Config) { c.Test.EnvDir = ".pydevenv2" }, errs: 0},
		{name: "no packages", mutate: func(c *Config) { c.Test.Packages = nil }, errs: 1},
		{name: "blank names", mutate: func(c *Config) { c.Interpreter = InterpreterConfig{} }, errs: 2},
		{name: "bad minimum", mutate: func(c *Config) { c.Test.MinPython = "latest" }, errs: 1},
		{name: "test env is root", mutate: func(c *Config) { c.Test.EnvDir = "." }, errs: 1},
		{name: "test env above root", mutate: func(c *Config) { c.Test.EnvDir = ".." }, errs: 1},
		{name: "test env escapes root", mutate: func(c *Config) { c.Test.EnvDir = ".pytest/../../proj" }, errs: 1},
		{name: "absolute test env", mutate: func(c *Config) { c.Test.EnvDir = "/" }, errs: 1},
		{name: "dev env is root", mutate: func(c *Config) { c.Dev.EnvDir = "./" }, errs: 1},
		{name: "dotted relative env", mutate: func(c *Config) { c.Dev.EnvDir = "./envs/dev/" }, errs: 0},
		{name: "reserved wheel dir", mutate: func(c *Config) { c.Build.WheelDir = "out/con" }, errs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			valid, errs := cfg.IsValid()
			if len(errs) != tt.errs {
				t.Errorf("IsValid() errs = %v, want %d", errs, tt.errs)
			}
			if valid != (tt.errs == 0) {
				t.Errorf("IsValid() = %v", valid)
			}
		})
	}
}

func TestInvalidConfigError_Error(t *testing.T) {
	t.Parallel()

	single := &InvalidConfigError{FieldErrors: []error{errors.New("boom")}}
	if got := single.Error(); got != "invalid config: boom" {
		t.Errorf("Error() = %q", got)
	}
	multi := &InvalidConfigError{FieldErrors: []error{errors.New("a"), errors.New("b")}}
	if got := multi.Error(); got != "invalid config: 2 field errors" {
		t.Errorf("Error() = %q", got)
	}
}

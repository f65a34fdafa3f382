// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/venvkit/venvkit/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "venvkit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "venvkit"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "VENVKIT"
)

//go:embed config_schema.cue
var configSchema string

// FileName returns the config file name looked up in the work root.
func FileName() string {
	return ConfigFileName + "." + ConfigFileExt
}

// loadWithOptions layers defaults, the config file and environment
// overrides, then validates the result.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()
	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'venvkit config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else if opts.RootDir != "" {
		if candidate := filepath.Join(opts.RootDir, FileName()); fileExists(candidate) {
			resolvedPath = candidate
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Keep dev.env_dir and test.env_dir as separate, non-nested directories").
			WithSuggestion("Use a version such as \"3.10\" for test.min_python").
			Wrap(&InvalidConfigError{FieldErrors: errs}).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a Viper instance holding the defaults and reading
// VENVKIT_<SECTION>_<KEY> overrides.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("interpreter.primary", defaults.Interpreter.Primary)
	v.SetDefault("interpreter.fallback", defaults.Interpreter.Fallback)
	v.SetDefault("dev.env_dir", defaults.Dev.EnvDir)
	v.SetDefault("dev.requirements", defaults.Dev.Requirements)
	v.SetDefault("dev.editable", defaults.Dev.Editable)
	v.SetDefault("build.wheel_dir", defaults.Build.WheelDir)
	v.SetDefault("test.env_dir", defaults.Test.EnvDir)
	v.SetDefault("test.min_python", defaults.Test.MinPython)
	v.SetDefault("test.packages", defaults.Test.Packages)
	v.SetDefault("test.runner_args", defaults.Test.RunnerArgs)
	v.SetDefault("test.strip_stale", defaults.Test.StripStale)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to dir/venvkit.cue unless
// the file already exists. It returns the path and whether it was written.
func WriteDefault(dir string) (string, bool, error) {
	cfgPath := filepath.Join(dir, FileName())
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// venvkit configuration\n\n")

	fmt.Fprintf(&sb, "interpreter: {\n\tprimary:  %q\n\tfallback: %q\n}\n", cfg.Interpreter.Primary, cfg.Interpreter.Fallback)

	sb.WriteString("\ndev: {\n")
	fmt.Fprintf(&sb, "\tenv_dir:      %q\n", cfg.Dev.EnvDir)
	fmt.Fprintf(&sb, "\trequirements: %q\n", cfg.Dev.Requirements)
	fmt.Fprintf(&sb, "\teditable:     %v\n", cfg.Dev.Editable)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nbuild: {\n\twheel_dir: %q\n}\n", cfg.Build.WheelDir)

	sb.WriteString("\ntest: {\n")
	fmt.Fprintf(&sb, "\tenv_dir:     %q\n", cfg.Test.EnvDir)
	fmt.Fprintf(&sb, "\tmin_python:  %q\n", cfg.Test.MinPython)
	fmt.Fprintf(&sb, "\tpackages:    %s\n", cueList(cfg.Test.Packages))
	fmt.Fprintf(&sb, "\trunner_args: %s\n", cueList(cfg.Test.RunnerArgs))
	fmt.Fprintf(&sb, "\tstrip_stale: %v\n", cfg.Test.StripStale)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nui: {\n\tverbose: %v\n}\n", cfg.UI.Verbose)

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

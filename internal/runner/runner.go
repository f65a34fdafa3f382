// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"github.com/venvkit/venvkit/internal/searchpath"
)

type (
	// Invocation describes one external command.
	Invocation struct {
		// Program is a bare name resolved against Scope, or a path.
		Program string
		// Args are passed verbatim.
		Args []string
		// Dir is the child's working directory.
		Dir string
		// Scope supplies executable resolution and the child's environment.
		// When nil, the host environment is used.
		Scope *searchpath.Scope
	}

	// Runner executes invocations.
	Runner interface {
		// Run streams the child's output and returns its status.
		Run(ctx context.Context, inv Invocation) *Result
		// Capture runs a read-only probe and returns its output. Capture
		// executes even in dry-run mode.
		Capture(ctx context.Context, inv Invocation) *Result
	}

	// ProcessRunner runs invocations as child processes of venvkit.
	ProcessRunner struct {
		// Stdout and Stderr receive streamed child output. Nil means os.Stdout/os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
		// Logger receives one entry per invocation. Nil discards.
		Logger *log.Logger
		// DryRun makes Run log the command line without starting it.
		DryRun bool
	}

	// executeOutput configures where command output is directed during execution.
	executeOutput struct {
		stdout io.Writer
		stderr io.Writer
	}

	// capturedOutput holds the captured stdout and stderr buffers.
	capturedOutput struct {
		stdout bytes.Buffer
		stderr bytes.Buffer
	}
)

// NewProcessRunner creates a runner streaming to the process's stdout/stderr.
func NewProcessRunner(logger *log.Logger) *ProcessRunner {
	return &ProcessRunner{Logger: logger}
}

// CommandLine renders the invocation as a POSIX shell command line.
func (inv Invocation) CommandLine() string {
	words := make([]string, 0, len(inv.Args)+1)
	for _, w := range append([]string{inv.Program}, inv.Args...) {
		words = append(words, quote(w))
	}
	return strings.Join(words, " ")
}

func quote(word string) string {
	if word == "" {
		return "''"
	}
	q, err := syntax.Quote(word, syntax.LangPOSIX)
	if err != nil {
		// Only unprintable input fails to quote; fall back to Go quoting.
		return fmt.Sprintf("%q", word)
	}
	return q
}

// Run executes inv, streaming its output.
func (r *ProcessRunner) Run(ctx context.Context, inv Invocation) *Result {
	logger := r.logger()
	if r.DryRun {
		logger.Info("dry-run", "cmd", inv.CommandLine(), "dir", inv.Dir)
		res := NewSuccessResult()
		res.Program = inv.Program
		return res
	}

	logger.Info("run", "cmd", inv.CommandLine())
	logger.Debug("invocation", "dir", inv.Dir, "path", scopePath(inv.Scope))

	out := newStreamingOutput(r.stdout(), r.stderr())
	return r.execute(ctx, inv, out, nil)
}

// Capture executes inv, collecting its output.
func (r *ProcessRunner) Capture(ctx context.Context, inv Invocation) *Result {
	r.logger().Debug("probe", "cmd", inv.CommandLine(), "dir", inv.Dir)

	out, captured := newCapturingOutput()
	return r.execute(ctx, inv, out, captured)
}

func (r *ProcessRunner) execute(ctx context.Context, inv Invocation, out *executeOutput, captured *capturedOutput) *Result {
	scope := inv.Scope
	if scope == nil {
		scope = searchpath.FromHost()
	}

	path, err := scope.LookPath(inv.Program)
	if err != nil {
		res := NewErrorResult(fmt.Errorf("%w: %w", ErrProgramNotFound, err))
		res.Program = inv.Program
		return res
	}

	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = scope.Environ()
	cmd.Stdout = out.stdout
	cmd.Stderr = out.stderr

	res := extractExitCode(cmd.Run(), captured)
	res.Program = inv.Program
	if ctxErr := ctx.Err(); ctxErr != nil && !res.Success() {
		res.Error = fmt.Errorf("%s interrupted: %w", inv.Program, ctxErr)
	}
	return res
}

func (r *ProcessRunner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.New(io.Discard)
}

func (r *ProcessRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *ProcessRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func scopePath(s *searchpath.Scope) string {
	if s == nil {
		return os.Getenv(searchpath.PathVar)
	}
	return s.String()
}

// newStreamingOutput creates an output configuration that streams to the provided writers.
func newStreamingOutput(stdout, stderr io.Writer) *executeOutput {
	return &executeOutput{
		stdout: stdout,
		stderr: stderr,
	}
}

// newCapturingOutput creates an output configuration that captures to internal buffers.
// Returns the output configuration and the buffer holder to retrieve results from.
func newCapturingOutput() (*executeOutput, *capturedOutput) {
	captured := &capturedOutput{}
	return &executeOutput{
		stdout: &captured.stdout,
		stderr: &captured.stderr,
	}, captured
}

// extractExitCode determines the exit code from a command execution error.
func extractExitCode(err error, captured *capturedOutput) *Result {
	result := &Result{}

	if captured != nil {
		result.Output = captured.stdout.String()
		result.ErrOutput = captured.stderr.String()
	}

	if err == nil {
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Command executed but returned non-zero exit code
		exitCode := ExitCode(exitErr.ExitCode())
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			result.ExitCode = ExitCode(128 + int(ws.Signal()))
			result.Signal = ws.Signal().String()
			return result
		}
		if isValid, errs := exitCode.IsValid(); !isValid {
			result.ExitCode = 1
			result.Error = errs[0]
			return result
		}
		result.ExitCode = exitCode
		return result
	}

	// Some other error (e.g., permission denied, canceled context)
	result.ExitCode = 1
	result.Error = err
	return result
}

// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"text/template"
)

type (
	// FakePythonOptions scripts the behavior of a fake interpreter.
	FakePythonOptions struct {
		// Name is the executable name, "python" by default.
		Name string
		// Version is reported by --version, "3.12.1" by default.
		Version string
		// FailVenv makes "-m venv" exit 1 without creating anything.
		FailVenv bool
		// FailInstall makes "-m pip install" exit 1 when its arguments contain this text.
		FailInstall string
		// FailWheel makes "-m pip wheel" exit 1.
		FailWheel bool
		// Dist is the distribution name used for built wheels, "pkg" by default.
		Dist string
		// TestExit is the status the installed fake pytest exits with.
		TestExit int
		// TestSignal, such as "SEGV", makes the fake pytest kill itself
		// with that signal instead of exiting.
		TestSignal string
	}

	// FakePython is a scripted interpreter installed in a temp directory.
	FakePython struct {
		// Dir holds the interpreter.
		Dir string
		// ToolsDir holds links to the few host utilities the script needs,
		// so PATH never has to include a host directory with a real python.
		ToolsDir string
		// Log receives one line per interpreter or pytest invocation.
		Log string
	}

	fakePythonData struct {
		FakePythonOptions
		Log        string
		PytestStub string
	}
)

var fakePythonTemplate = template.Must(template.New("python").Parse(`#!/bin/sh
echo "$0|$*|VIRTUAL_ENV=$VIRTUAL_ENV" >> '{{.Log}}'
case "$1" in
--version)
	echo "Python {{.Version}}"
	exit 0
	;;
-m)
	mod="$2"
	shift 2
	case "$mod" in
	venv)
{{- if .FailVenv}}
		echo "Error: simulated venv failure" >&2
		exit 1
{{- end}}
		target=""
		for a in "$@"; do
			case "$a" in
			-*) ;;
			*) target="$a" ;;
			esac
		done
		rm -rf "$target"
		mkdir -p "$target/bin"
		echo "# activate" > "$target/bin/activate"
		cp "$0" "$target/bin/python"
		cp "$0" "$target/bin/python3"
		chmod 755 "$target/bin/python" "$target/bin/python3"
		echo "home = fake" > "$target/pyvenv.cfg"
		exit 0
		;;
	pip)
		sub="$1"
		shift
		case "$sub" in
		install)
{{- if .FailInstall}}
			case " $* " in
			*'{{.FailInstall}}'*)
				echo "ERROR: simulated install failure" >&2
				exit 1
				;;
			esac
{{- end}}
			for a in "$@"; do
				if [ "$a" = pytest ]; then
					cp '{{.PytestStub}}' "$VIRTUAL_ENV/bin/pytest"
					chmod 755 "$VIRTUAL_ENV/bin/pytest"
				fi
			done
			echo "$*" >> "$VIRTUAL_ENV/installed.txt"
			exit 0
			;;
		wheel)
{{- if .FailWheel}}
			echo "ERROR: simulated wheel failure" >&2
			exit 1
{{- end}}
			dir=""
			prev=""
			for a in "$@"; do
				if [ "$prev" = "--wheel-dir" ]; then
					dir="$a"
				fi
				prev="$a"
			done
			mkdir -p "$dir"
			: > "$dir/{{.Dist}}-0.1.0-py3-none-any.whl"
			exit 0
			;;
		esac
		;;
	esac
	;;
esac
echo "fake python: unsupported arguments: $*" >&2
exit 2
`))

var fakePythonTools = []string{"rm", "mkdir", "cp", "chmod"}

var pytestStubTemplate = template.Must(template.New("pytest").Parse(`#!/bin/sh
echo "$0|$*|PYTHONDONTWRITEBYTECODE=$PYTHONDONTWRITEBYTECODE" >> '{{.Log}}'
{{- if .TestSignal}}
kill -{{.TestSignal}} $$
{{- end}}
exit {{.TestExit}}
`))

// WriteFakePython installs a fake interpreter in a new temp directory.
// The script only runs on POSIX hosts.
func WriteFakePython(t testing.TB, opts FakePythonOptions) *FakePython {
	t.Helper()

	if opts.Name == "" {
		opts.Name = "python"
	}
	if opts.Version == "" {
		opts.Version = "3.12.1"
	}
	if opts.Dist == "" {
		opts.Dist = "pkg"
	}

	dir := t.TempDir()
	data := fakePythonData{
		FakePythonOptions: opts,
		Log:               filepath.Join(dir, "calls.log"),
		PytestStub:        filepath.Join(dir, "pytest.stub"),
	}

	bin := filepath.Join(dir, "bin")
	tools := filepath.Join(dir, "tools")
	MustMkdirAll(t, tools, 0o755)
	for _, name := range fakePythonTools {
		target, err := exec.LookPath(name)
		if err != nil {
			t.Skipf("fake python needs %s: %v", name, err)
		}
		if err := os.Symlink(target, filepath.Join(tools, name)); err != nil {
			t.Fatalf("failed to link %s: %v", name, err)
		}
	}

	writeTemplate(t, pytestStubTemplate, data, data.PytestStub)
	writeTemplate(t, fakePythonTemplate, data, filepath.Join(bin, opts.Name))

	return &FakePython{Dir: bin, ToolsDir: tools, Log: data.Log}
}

// Environ returns an environment whose PATH finds the fake interpreter and nothing else.
func (f *FakePython) Environ() []string {
	return []string{"PATH=" + f.Dir + string(os.PathListSeparator) + f.ToolsDir}
}

// Calls returns the logged invocations, one "argv0|args|env" entry per line.
func (f *FakePython) Calls(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(f.Log)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read fake python log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func writeTemplate(t testing.TB, tmpl *template.Template, data any, path string) {
	t.Helper()
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		t.Fatalf("failed to render %s: %v", path, err)
	}
	MustWriteFile(t, path, sb.String(), 0o755)
}

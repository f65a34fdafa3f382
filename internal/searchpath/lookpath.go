// SPDX-License-Identifier: MPL-2.0

package searchpath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/venvkit/venvkit/internal/platform"
)

// defaultPathExt is used on Windows when PATHEXT is unset.
const defaultPathExt = ".com;.exe;.bat;.cmd"

// LookPath resolves name against the scoped directories. Names containing a
// path separator are checked as given.
func (s *Scope) LookPath(name string) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		if p, ok := s.findExecutable(name); ok {
			return p, nil
		}
		return "", &NotFoundError{Name: name}
	}

	for _, dir := range s.dirs {
		if dir == "" {
			// An empty entry means the current directory; never search it.
			continue
		}
		if p, ok := s.findExecutable(filepath.Join(dir, name)); ok {
			return p, nil
		}
	}
	return "", &NotFoundError{Name: name}
}

func (s *Scope) findExecutable(path string) (string, bool) {
	if s.goos != platform.Windows {
		return path, isExecutable(path, true)
	}

	if filepath.Ext(path) != "" && isExecutable(path, false) {
		return path, true
	}
	exts, ok := s.Getenv("PATHEXT")
	if !ok || exts == "" {
		exts = defaultPathExt
	}
	for _, ext := range strings.Split(strings.ToLower(exts), ";") {
		if ext == "" {
			continue
		}
		if candidate := path + ext; isExecutable(candidate, false) {
			return candidate, true
		}
	}
	return "", false
}

func isExecutable(path string, checkMode bool) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if checkMode {
		return info.Mode().Perm()&0o111 != 0
	}
	return true
}

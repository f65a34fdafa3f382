// SPDX-License-Identifier: MPL-2.0

package interpreter

import (
	"context"
	"fmt"

	"github.com/venvkit/venvkit/internal/runner"
	"github.com/venvkit/venvkit/internal/searchpath"
)

// Probe asks the interpreter for its version. Python 2 and early 3.x print
// the version on stderr, so both streams are parsed.
func Probe(ctx context.Context, r runner.Runner, ref Reference, scope *searchpath.Scope, dir string) (Version, error) {
	res := r.Capture(ctx, runner.Invocation{
		Program: ref.String(),
		Args:    []string{"--version"},
		Dir:     dir,
		Scope:   scope,
	})
	if err := res.Err(); err != nil {
		return Version{}, fmt.Errorf("query %s version: %w", ref, err)
	}
	return ParseVersion(res.Output + res.ErrOutput)
}

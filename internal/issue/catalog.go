// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	kind     Kind
	mdMsg    MarkdownMsg
	docLinks []HttpLink
}

func (i *Issue) Kind() Kind {
	return i.kind
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the guidance as terminal Markdown using the given glamour
// style ("auto", "dark", "light", "notty" or a path to a style file).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	environmentSetupIssue = &Issue{
		kind: KindEnvironmentSetup,
		mdMsg: `
# The environment could not be prepared

The working root could not be resolved, or the virtual environment could not
be created or activated.

## Things you can try
- Check that a Python interpreter is on your PATH:
~~~
$ python --version
$ python3 --version
~~~
- Make sure the venv module is installed (on Debian/Ubuntu: ` + "`python3-venv`" + `)
- Check that the project directory is writable
- Remove the environment directory by hand and retry:
~~~
$ venvkit cleanup && venvkit setup
~~~`,
		docLinks: []HttpLink{"https://docs.python.org/3/library/venv.html"},
	}

	dependencyBuildIssue = &Issue{
		kind: KindDependencyBuild,
		mdMsg: `
# Installing or building the package failed

pip returned a non-zero status. The environment was left in place so you can
inspect it.

## Things you can try
- Read pip's output above for the failing requirement
- Check that the requirements file exists and is readable
- Wheel builds only accept pre-built binary distributions; a dependency that
  ships only as an sdist cannot be used
- Re-run with ` + "`--verbose`" + ` to see every command line`,
		docLinks: []HttpLink{"https://pip.pypa.io/en/stable/cli/pip_wheel/"},
	}

	versionPreconditionIssue = &Issue{
		kind: KindVersionPrecondition,
		mdMsg: `
# Python is too old

The test suite needs a newer interpreter than the one found on your PATH.

## Things you can try
- Install a newer Python and put it first on your PATH
- Point venvkit at a specific interpreter name in ` + "`venvkit.cue`" + `:
~~~cue
interpreter: primary: "python3.12"
~~~`,
	}

	testFailureIssue = &Issue{
		kind: KindTestFailure,
		mdMsg: `
# Tests failed

The environment was set up correctly and the test suite ran, but it reported
failures. The disposable test environment has been removed.

## Things you can try
- Run the suite from your development environment for faster iteration:
~~~
$ venvkit setup
$ .pydevenv/bin/pytest
~~~`,
	}

	issues = map[Kind]*Issue{
		environmentSetupIssue.Kind():    environmentSetupIssue,
		dependencyBuildIssue.Kind():     dependencyBuildIssue,
		versionPreconditionIssue.Kind(): versionPreconditionIssue,
		testFailureIssue.Kind():         testFailureIssue,
	}
)

// Values returns the catalog ordered by Kind.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for k := KindEnvironmentSetup; k <= KindTestFailure; k++ {
		if i, ok := issues[k]; ok {
			values = append(values, i)
		}
	}
	return values
}

func Get(kind Kind) *Issue {
	if valid, _ := kind.IsValid(); !valid {
		return nil
	}
	return issues[kind]
}

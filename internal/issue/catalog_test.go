// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestCatalog_EveryKindHasGuidance(t *testing.T) {
	t.Parallel()

	for k := KindEnvironmentSetup; k <= KindTestFailure; k++ {
		i := Get(k)
		if i == nil {
			t.Fatalf("Get(%s) returned nil", k)
		}
		if i.Kind() != k {
			t.Errorf("Get(%s).Kind() = %s", k, i.Kind())
		}
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("Get(%s) has empty markdown", k)
		}
	}
}

func TestValues_Ordered(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != 4 {
		t.Fatalf("Values() returned %d issues, want 4", len(values))
	}
	for i, v := range values {
		if v.Kind() != Kind(i+1) {
			t.Errorf("Values()[%d].Kind() = %s, want %s", i, v.Kind(), Kind(i+1))
		}
	}
}

func TestIssue_DocLinksIsCopy(t *testing.T) {
	t.Parallel()

	i := Get(KindEnvironmentSetup)
	links := i.DocLinks()
	if len(links) == 0 {
		t.Fatal("expected doc links for environment setup")
	}
	links[0] = "mutated"
	if i.DocLinks()[0] == "mutated" {
		t.Error("DocLinks() should return a copy")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(KindVersionPrecondition).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "Python is too old") {
		t.Errorf("Render() output missing heading, got:\n%s", out)
	}
}

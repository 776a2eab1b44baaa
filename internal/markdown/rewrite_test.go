package markdown

import (
	"strings"
	"testing"

	"github.com/jcdickinson/pywtf/internal/docs"
)

func resolveAlpha(x docs.XRef) (string, bool) {
	p := &docs.Project{Name: "project-alpha"}
	return docs.URLs{}.XRef(p, x)
}

func TestRewriteRoles_CurrentProject(t *testing.T) {
	t.Parallel()
	src := "The inverse of {py:func}`alpha.foo.bar`."
	got := RewriteRoles(src, resolveAlpha)
	want := "The inverse of [bar](/project-alpha/alpha.foo/bar)."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteRoles_OtherProject(t *testing.T) {
	t.Parallel()
	src := "Uses {py:class}`project-beta/beta.Thing`."
	got := RewriteRoles(src, resolveAlpha)
	want := "Uses [Thing](/project-beta/beta/Thing)."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteRoles_Unresolvable(t *testing.T) {
	t.Parallel()
	src := "See {py:mod}`alpha`."
	got := RewriteRoles(src, resolveAlpha)
	if got != "See `alpha`." {
		t.Errorf("got %q", got)
	}

	got = RewriteRoles("See {py:func}`alpha.foo.bar`.", nil)
	if got != "See `alpha.foo.bar`." {
		t.Errorf("nil resolver: got %q", got)
	}
}

func TestRewriteRoles_NoRoles(t *testing.T) {
	t.Parallel()
	src := "Plain `code` and [a link](x)."
	if got := RewriteRoles(src, resolveAlpha); got != src {
		t.Errorf("expected unchanged, got %q", got)
	}
}

func TestRewriteRoles_SkipsFencedCode(t *testing.T) {
	t.Parallel()
	src := "Example:\n\n```\n{py:func}`alpha.core.core_main`\n```\n"
	if got := RewriteRoles(src, resolveAlpha); got != src {
		t.Errorf("role inside fenced code was rewritten: %q", got)
	}
}

func TestRewriteRoles_Multiple(t *testing.T) {
	t.Parallel()
	src := "{py:func}`alpha.foo.bar` and {py:func}`alpha.foo.unzip`"
	got := RewriteRoles(src, resolveAlpha)
	if !strings.Contains(got, "[bar](/project-alpha/alpha.foo/bar)") {
		t.Errorf("bar not rewritten: %q", got)
	}
	if !strings.Contains(got, "[unzip](/project-alpha/alpha.foo/unzip)") {
		t.Errorf("unzip not rewritten: %q", got)
	}
}

func TestRoles(t *testing.T) {
	t.Parallel()
	refs := Roles("{py:func}`a.b` then {py:class}`p/c.D` then {py:func}`a.b` again")
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d: %+v", len(refs), refs)
	}
	if refs[0] != (docs.XRef{FQName: "a.b"}) {
		t.Errorf("refs[0] = %+v", refs[0])
	}
	if refs[1] != (docs.XRef{Project: "p", FQName: "c.D"}) {
		t.Errorf("refs[1] = %+v", refs[1])
	}
}

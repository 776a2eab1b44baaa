package markdown

import (
	"regexp"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"

	"github.com/jcdickinson/pywtf/internal/docs"
)

// Resolver maps a cross-reference to a link destination. It returns false
// when the reference cannot be linked.
type Resolver func(docs.XRef) (string, bool)

// roleRe matches MyST roles such as {py:func}`alpha.foo.bar`.
var roleRe = regexp.MustCompile("\\{([A-Za-z][\\w:.-]*)\\}`([^`]+)`")

func parse(src string) ast.Node {
	return gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))
}

// inlineCode collects the literal text of every inline code span. Roles are
// only rewritten when their target appears here, which leaves role syntax
// inside fenced code blocks alone.
func inlineCode(doc ast.Node) map[string]bool {
	spans := make(map[string]bool)
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if code, ok := node.(*ast.Code); ok {
			spans[string(code.Literal)] = true
		}
		return ast.GoToNext
	})
	return spans
}

// RewriteRoles replaces cross-reference roles with markdown links. The link
// text is the last segment of the target name. Targets the resolver cannot
// link become inline code with the full name.
func RewriteRoles(src string, resolve Resolver) string {
	return replaceRoles(src, func(x docs.XRef) string {
		if resolve != nil {
			if dest, ok := resolve(x); ok {
				return "[" + docs.ShortName(x.FQName) + "](" + dest + ")"
			}
		}
		return "`" + x.FQName + "`"
	})
}

func replaceRoles(src string, render func(docs.XRef) string) string {
	if !strings.Contains(src, "}`") {
		return src
	}
	spans := inlineCode(parse(src))

	return roleRe.ReplaceAllStringFunc(src, func(m string) string {
		target := roleRe.FindStringSubmatch(m)[2]
		if !spans[target] {
			return m
		}
		return render(docs.ParseRoleTarget(target))
	})
}

// Roles lists the cross-references mentioned in src, in order of appearance
// and without duplicates.
func Roles(src string) []docs.XRef {
	var refs []docs.XRef
	seen := make(map[string]bool)
	for _, m := range roleRe.FindAllStringSubmatch(src, -1) {
		if seen[m[2]] {
			continue
		}
		seen[m[2]] = true
		refs = append(refs, docs.ParseRoleTarget(m[2]))
	}
	return refs
}

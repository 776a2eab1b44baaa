package markdown

import (
	"strings"

	"github.com/gomarkdown/markdown/ast"

	"github.com/jcdickinson/pywtf/internal/docs"
)

// Summary returns the first line of the first paragraph of the first
// documentation block, with roles reduced to their short names.
func Summary(documentation []string) string {
	if len(documentation) == 0 {
		return ""
	}
	src := strings.TrimSpace(documentation[0])
	if src == "" {
		return ""
	}
	src = replaceRoles(src, func(x docs.XRef) string {
		return "`" + docs.ShortName(x.FQName) + "`"
	})

	var first *ast.Paragraph
	ast.WalkFunc(parse(src), func(node ast.Node, entering bool) ast.WalkStatus {
		if p, ok := node.(*ast.Paragraph); ok && entering {
			first = p
			return ast.Terminate
		}
		return ast.GoToNext
	})

	text := src
	if first != nil {
		if t := extractNodeText(first); t != "" {
			text = t
		}
	}
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(line)
}

// extractNodeText recursively extracts text content from an AST node.
func extractNodeText(node ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if leaf := n.AsLeaf(); leaf != nil && leaf.Literal != nil {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(b.String())
}

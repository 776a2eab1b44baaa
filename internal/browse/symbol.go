package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jcdickinson/pywtf/internal/docs"
	"github.com/jcdickinson/pywtf/internal/rpc"
)

// Symbol resolves project/module/symbol and describes what it found.
func (s *Service) Symbol(ctx context.Context, project, module, symbol string) (*rpc.SymbolResponse, error) {
	p, m, err := s.module(ctx, project, module)
	if err != nil {
		return nil, err
	}
	sym, ok := docs.Resolve(m, symbol)
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", symbol, m.Name, ErrSymbolNotFound)
	}

	arena := s.arena(p)
	resp := &rpc.SymbolResponse{
		Project: p.Name,
		Module:  m.Name,
		Symbol:  symbol,
		FQName:  sym.Name(),
		Kind:    string(sym.Kind),
		URL:     s.urls.Symbol(p, m, sym.Name()),
		Breadcrumbs: []rpc.Breadcrumb{
			{Name: p.Name, URL: s.urls.Project(p)},
			{Name: m.Name, URL: s.urls.Module(p, m)},
		},
	}

	var documentation []string
	switch sym.Kind {
	case docs.KindClass:
		c := sym.Class
		resp.Signature = docs.ClassSignature(c)
		resp.Bases = c.Bases
		resp.Members = s.classMembers(p, m, c)
		documentation = c.Documentation
		if i, ok := arena.Class(c.Name); ok {
			for _, outer := range arena.Path(i) {
				resp.Breadcrumbs = append(resp.Breadcrumbs, rpc.Breadcrumb{
					Name: docs.ShortName(outer.Name),
					URL:  s.urls.Symbol(p, m, outer.Name),
				})
			}
		}
	case docs.KindFunction:
		resp.Signature = docs.FunctionSignature(sym.Function)
		documentation = sym.Function.Documentation
	case docs.KindVariable:
		resp.Signature = docs.VariableSignature(sym.Variable)
		documentation = sym.Variable.Documentation
	case docs.KindExport:
		resp.Target = s.exportTarget(p, arena, sym.Export)
	}
	if sym.Kind != docs.KindClass {
		resp.Breadcrumbs = append(resp.Breadcrumbs, rpc.Breadcrumb{Name: docs.ShortName(sym.Name()), URL: resp.URL})
	}

	resp.Markdown = s.symbolMarkdown(p, resp, documentation)
	return resp, nil
}

// arena returns the memoized arena of p, shared with its search index.
func (s *Service) arena(p *docs.Project) *docs.Arena {
	return s.indexes.Get(p).Arena()
}

// classMembers lists inner classes, methods, class variables and instance
// variables, each group sorted by name.
func (s *Service) classMembers(p *docs.Project, m *docs.Module, c *docs.Class) []rpc.Member {
	var members, group []rpc.Member
	flush := func() {
		sortMembers(group)
		members = append(members, group...)
		group = group[:0]
	}

	for i := range c.InnerClasses {
		inner := &c.InnerClasses[i]
		group = append(group, s.member(p, m, c.Name, inner.Name, docs.KindClass, docs.ClassSignature(inner), inner.Documentation))
	}
	flush()
	item := func(name string, kind docs.Kind, signature string, documentation []string) {
		mem := s.member(p, m, c.Name, name, kind, signature, documentation)
		mem.URL = s.urls.ClassItem(p, m, c, name)
		group = append(group, mem)
	}
	for i := range c.Methods {
		f := &c.Methods[i]
		item(f.Name, docs.KindFunction, docs.FunctionSignature(f), f.Documentation)
	}
	flush()
	for i := range c.ClassVariables {
		v := &c.ClassVariables[i]
		item(v.Name, docs.KindVariable, docs.VariableSignature(v), v.Documentation)
	}
	flush()
	for i := range c.InstanceVariables {
		v := &c.InstanceVariables[i]
		item(v.Name, docs.KindVariable, docs.VariableSignature(v), v.Documentation)
	}
	flush()
	return members
}

func (s *Service) exportTarget(p *docs.Project, arena *docs.Arena, exp *docs.Export) *rpc.Target {
	if t, ok := arena.FollowExport(exp); ok {
		return &rpc.Target{
			Project: p.Name,
			FQName:  t.Symbol.Name(),
			URL:     s.urls.Symbol(p, t.Module, t.Symbol.Name()),
			Module:  t.Module.Name,
			Kind:    string(t.Symbol.Kind),
		}
	}

	target := &rpc.Target{Project: exp.XRef.Project, FQName: exp.XRef.FQName}
	if target.Project == "" {
		target.Project = p.Name
	}
	if url, ok := s.urls.XRef(p, exp.XRef); ok {
		target.URL = url
	}
	return target
}

func (s *Service) symbolMarkdown(p *docs.Project, resp *rpc.SymbolResponse, documentation []string) string {
	var content strings.Builder
	content.WriteString(fmt.Sprintf("# %s\n\n", resp.FQName))
	content.WriteString(fmt.Sprintf("**Kind:** %s\n\n", resp.Kind))
	if resp.Signature != "" {
		content.WriteString(fmt.Sprintf("```python\n%s\n```\n\n", resp.Signature))
	}
	if resp.Target != nil {
		if resp.Target.URL != "" {
			content.WriteString(fmt.Sprintf("Re-exports [%s](%s)\n\n", resp.Target.FQName, resp.Target.URL))
		} else {
			content.WriteString(fmt.Sprintf("Re-exports `%s`\n\n", resp.Target.FQName))
		}
	}
	if text := s.render(p, documentation); text != "" {
		content.WriteString(text)
		content.WriteString("\n")
	}
	if len(resp.Members) > 0 {
		content.WriteString("\n## Members\n\n")
		for _, mem := range resp.Members {
			content.WriteString(fmt.Sprintf("- [%s](%s) (%s)", mem.Name, mem.URL, mem.Kind))
			if mem.Summary != "" {
				content.WriteString(": " + mem.Summary)
			}
			content.WriteString("\n")
		}
	}
	return content.String()
}

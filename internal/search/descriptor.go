package search

import (
	"github.com/jcdickinson/pywtf/internal/docs"
	md "github.com/jcdickinson/pywtf/internal/markdown"
)

// KindModule marks descriptors for modules. Other descriptors use the
// declaration kinds from the docs package.
const KindModule docs.Kind = "module"

// URLBuilder produces link targets for descriptors. docs.URLs satisfies it.
type URLBuilder interface {
	Module(p *docs.Project, m *docs.Module) string
	Symbol(p *docs.Project, m *docs.Module, name string) string
}

// Descriptor is a flat, searchable record for one module or module member.
type Descriptor struct {
	Name    string    `json:"name"` // last dotted segment, what queries match against
	FQName  string    `json:"fqname"`
	Kind    docs.Kind `json:"kind"`
	URL     string    `json:"url"`
	Module  string    `json:"module"`
	Project string    `json:"project"`
	Summary string    `json:"summary,omitempty"`
}

// Build flattens p into descriptors. Each module contributes itself, then its
// functions, variables and classes in declaration order. Only module-level
// classes are indexed; inner classes are reachable through their outer class.
func Build(p *docs.Project, urls URLBuilder) []Descriptor {
	if p == nil {
		return nil
	}

	var out []Descriptor
	for i := range p.Modules {
		m := &p.Modules[i]
		out = append(out, Descriptor{
			Name:    docs.ShortName(m.Name),
			FQName:  m.Name,
			Kind:    KindModule,
			URL:     urls.Module(p, m),
			Module:  m.Name,
			Project: p.Name,
			Summary: md.Summary(m.Documentation),
		})

		member := func(name string, kind docs.Kind, documentation []string) {
			out = append(out, Descriptor{
				Name:    docs.ShortName(name),
				FQName:  name,
				Kind:    kind,
				URL:     urls.Symbol(p, m, name),
				Module:  m.Name,
				Project: p.Name,
				Summary: md.Summary(documentation),
			})
		}
		for _, f := range m.Functions {
			member(f.Name, docs.KindFunction, f.Documentation)
		}
		for _, v := range m.Variables {
			member(v.Name, docs.KindVariable, v.Documentation)
		}
		for _, c := range m.Classes {
			member(c.Name, docs.KindClass, c.Documentation)
		}
	}
	return out
}

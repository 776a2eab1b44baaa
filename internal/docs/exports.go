package docs

import "strings"

// Target is where an export points inside its own project.
type Target struct {
	Module *Module
	Symbol Symbol
}

// FollowExport resolves the declaration an export re-exports. The module is
// chosen by longest fully qualified prefix of the export's target, so
// "alpha.core.Helper.Utils" lands on Utils inside module "alpha.core" even when
// a module "alpha" exists. Exports pointing at another project, or at names
// that do not resolve, return false.
func (a *Arena) FollowExport(exp *Export) (Target, bool) {
	if exp.XRef.Project != "" && exp.XRef.Project != a.Project.Name {
		return Target{}, false
	}
	fqname := exp.XRef.FQName
	for prefix := fqname; ; {
		dot := strings.LastIndex(prefix, ".")
		if dot == -1 {
			return Target{}, false
		}
		prefix = prefix[:dot]
		i, ok := a.Module(prefix)
		if !ok {
			continue
		}
		mod := a.Modules[i].Module
		sym, ok := Resolve(mod, fqname[len(prefix)+1:])
		if !ok || sym.Kind == KindExport && sym.Export == exp {
			return Target{}, false
		}
		return Target{Module: mod, Symbol: sym}, true
	}
}

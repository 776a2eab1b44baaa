package docs

import "strings"

// Kind identifies which category of declaration a symbol resolved to.
type Kind string

const (
	KindClass    Kind = "class"
	KindFunction Kind = "function"
	KindVariable Kind = "variable"
	KindExport   Kind = "export"
)

// Symbol is the result of resolving a name inside a module. Exactly one of the
// pointer fields is set, matching Kind.
type Symbol struct {
	Kind     Kind
	Class    *Class
	Function *Function
	Variable *Variable
	Export   *Export
}

// Name returns the fully qualified name of the resolved declaration.
func (s Symbol) Name() string {
	switch s.Kind {
	case KindClass:
		return s.Class.Name
	case KindFunction:
		return s.Function.Name
	case KindVariable:
		return s.Variable.Name
	case KindExport:
		return s.Export.Name
	}
	return ""
}

// ResolveClass finds a class by dotted name, descending into inner classes for
// every dot: "Outer.Inner" is Inner declared in module-level class Outer. The
// first segment only ever matches module-level classes. Returns nil as soon as
// a segment has no match.
func ResolveClass(mod *Module, name string) *Class {
	parts := strings.Split(WithoutPrefix(mod.Name, name), ".")

	var cls *Class
	for i := range mod.Classes {
		if WithoutPrefix(mod.Name, mod.Classes[i].Name) == parts[0] {
			cls = &mod.Classes[i]
			break
		}
	}

	for _, part := range parts[1:] {
		if cls == nil {
			return nil
		}
		parent := cls
		cls = nil
		for i := range parent.InnerClasses {
			if WithoutPrefix(parent.Name, parent.InnerClasses[i].Name) == part {
				cls = &parent.InnerClasses[i]
				break
			}
		}
	}
	return cls
}

// Resolve finds the declaration a symbol name refers to within mod. Classes
// win over functions, functions over variables, and variables over exports
// when names collide. The boolean is false when nothing matches.
func Resolve(mod *Module, symbol string) (Symbol, bool) {
	if symbol == "" {
		return Symbol{}, false
	}

	if cls := ResolveClass(mod, symbol); cls != nil {
		return Symbol{Kind: KindClass, Class: cls}, true
	}
	for i := range mod.Functions {
		if WithoutPrefix(mod.Name, mod.Functions[i].Name) == symbol {
			return Symbol{Kind: KindFunction, Function: &mod.Functions[i]}, true
		}
	}
	for i := range mod.Variables {
		if WithoutPrefix(mod.Name, mod.Variables[i].Name) == symbol {
			return Symbol{Kind: KindVariable, Variable: &mod.Variables[i]}, true
		}
	}
	for i := range mod.Exports {
		if WithoutPrefix(mod.Name, mod.Exports[i].Name) == symbol {
			return Symbol{Kind: KindExport, Export: &mod.Exports[i]}, true
		}
	}
	return Symbol{}, false
}

package docs

// ModuleRef is a module entry in an Arena.
type ModuleRef struct {
	Module *Module
}

// ClassRef is a class entry in an Arena. Owner indexes Arena.Modules; Outer
// indexes Arena.Classes and is -1 for module-level classes.
type ClassRef struct {
	Class *Class
	Owner int
	Outer int
	Depth int
}

// Arena is a flat, index-based view of a project's module and class tree. It
// answers "which module owns this class" and "which class encloses it" without
// back-pointers on the data tree itself.
type Arena struct {
	Project *Project
	Modules []ModuleRef
	Classes []ClassRef

	moduleIdx map[string]int
	classIdx  map[string]int
}

// NewArena indexes p. Classes are recorded depth-first in declaration order.
// When fully qualified names collide the first declaration wins.
func NewArena(p *Project) *Arena {
	a := &Arena{
		Project:   p,
		Modules:   make([]ModuleRef, 0, len(p.Modules)),
		moduleIdx: make(map[string]int, len(p.Modules)),
		classIdx:  make(map[string]int),
	}
	for i := range p.Modules {
		m := &p.Modules[i]
		a.Modules = append(a.Modules, ModuleRef{Module: m})
		if _, ok := a.moduleIdx[m.Name]; !ok {
			a.moduleIdx[m.Name] = i
		}
		a.addClasses(m.Classes, i, -1, 0)
	}
	return a
}

func (a *Arena) addClasses(classes []Class, owner, outer, depth int) {
	for i := range classes {
		c := &classes[i]
		idx := len(a.Classes)
		a.Classes = append(a.Classes, ClassRef{Class: c, Owner: owner, Outer: outer, Depth: depth})
		if _, ok := a.classIdx[c.Name]; !ok {
			a.classIdx[c.Name] = idx
		}
		a.addClasses(c.InnerClasses, owner, idx, depth+1)
	}
}

// Module looks up a module index by fully qualified name.
func (a *Arena) Module(name string) (int, bool) {
	i, ok := a.moduleIdx[name]
	return i, ok
}

// Class looks up a class index by fully qualified name.
func (a *Arena) Class(fqname string) (int, bool) {
	i, ok := a.classIdx[fqname]
	return i, ok
}

// OwnerModule returns the module that declares class i, directly or through
// enclosing classes.
func (a *Arena) OwnerModule(i int) *Module {
	return a.Modules[a.Classes[i].Owner].Module
}

// Outer returns the enclosing class of class i, or nil for module-level classes.
func (a *Arena) Outer(i int) *Class {
	outer := a.Classes[i].Outer
	if outer < 0 {
		return nil
	}
	return a.Classes[outer].Class
}

// Path returns the classes from the module-level ancestor down to class i.
func (a *Arena) Path(i int) []*Class {
	var path []*Class
	for j := i; j >= 0; j = a.Classes[j].Outer {
		path = append(path, a.Classes[j].Class)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

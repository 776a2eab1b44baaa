package docs

import "testing"

func TestResolveClass_Nested(t *testing.T) {
	t.Parallel()
	core := mustModule(t, alphaProject(t), "alpha.core")

	tests := []struct {
		name string
		want string
	}{
		{"Helper", "alpha.core.Helper"},
		{"Helper.Utils", "alpha.core.Helper.Utils"},
		{"Helper.Utils.Common", "alpha.core.Helper.Utils.Common"},
		// module prefix is stripped before splitting
		{"alpha.core.Helper.Utils", "alpha.core.Helper.Utils"},
		{"Helper.Utils.Nonexistent", ""},
		{"Helper.Nope.Common", ""},
		{"Utils", ""},
		{"Common", ""},
		{"", ""},
	}

	for _, tt := range tests {
		got := ResolveClass(core, tt.name)
		var gotName string
		if got != nil {
			gotName = got.Name
		}
		if gotName != tt.want {
			t.Errorf("ResolveClass(%q) = %q, want %q", tt.name, gotName, tt.want)
		}
	}
}

func TestResolveClass_EveryDeclaredClass(t *testing.T) {
	t.Parallel()
	p := alphaProject(t)
	arena := NewArena(p)

	for i, ref := range arena.Classes {
		mod := arena.OwnerModule(i)
		got := ResolveClass(mod, WithoutPrefix(mod.Name, ref.Class.Name))
		if got != ref.Class {
			t.Errorf("ResolveClass(%s) did not return the declared class", ref.Class.Name)
		}
	}
}

func TestResolveClass_TopLevelWinsOverInnerNameCollision(t *testing.T) {
	t.Parallel()
	mod := &Module{
		Name: "m",
		Classes: []Class{
			{Name: "m.Outer", InnerClasses: []Class{{Name: "m.Outer.Common"}}},
			{Name: "m.Common"},
		},
	}

	got := ResolveClass(mod, "Common")
	if got == nil || got.Name != "m.Common" {
		t.Fatalf("ResolveClass(Common) = %v, want module-level m.Common", got)
	}
	got = ResolveClass(mod, "Outer.Common")
	if got == nil || got.Name != "m.Outer.Common" {
		t.Fatalf("ResolveClass(Outer.Common) = %v, want m.Outer.Common", got)
	}
}

func TestResolve_Kinds(t *testing.T) {
	t.Parallel()
	p := alphaProject(t)

	tests := []struct {
		module string
		symbol string
		kind   Kind
		name   string
	}{
		{"alpha.core", "Helper", KindClass, "alpha.core.Helper"},
		{"alpha.core", "Helper.Utils.Common", KindClass, "alpha.core.Helper.Utils.Common"},
		{"alpha.core", "core_main", KindFunction, "alpha.core.core_main"},
		{"alpha.foo", "bar", KindFunction, "alpha.foo.bar"},
		{"alpha", "Helper", KindExport, "alpha.Helper"},
	}

	for _, tt := range tests {
		sym, ok := Resolve(mustModule(t, p, tt.module), tt.symbol)
		if !ok {
			t.Errorf("Resolve(%s, %s): not found", tt.module, tt.symbol)
			continue
		}
		if sym.Kind != tt.kind || sym.Name() != tt.name {
			t.Errorf("Resolve(%s, %s) = %s %s, want %s %s", tt.module, tt.symbol, sym.Kind, sym.Name(), tt.kind, tt.name)
		}
	}
}

func TestResolve_NotFound(t *testing.T) {
	t.Parallel()
	p := alphaProject(t)

	for _, symbol := range []string{"", "missing", "Helper.Utils.Nonexistent", "Helper.some_variable", "Helper.Utils.static_method"} {
		sym, ok := Resolve(mustModule(t, p, "alpha.core"), symbol)
		if ok {
			t.Errorf("Resolve(%q) = %s %s, want not found", symbol, sym.Kind, sym.Name())
		}
	}
}

func TestResolve_Precedence(t *testing.T) {
	t.Parallel()
	mod := &Module{
		Name:      "m",
		Functions: []Function{{Name: "m.dup"}, {Name: "m.fn_var"}},
		Variables: []Variable{{Name: "m.dup"}, {Name: "m.fn_var"}, {Name: "m.var_exp"}},
		Classes:   []Class{{Name: "m.dup"}},
		Exports:   []Export{{Name: "m.dup"}, {Name: "m.var_exp"}, {Name: "m.only_export"}},
	}

	tests := []struct {
		symbol string
		want   Kind
	}{
		{"dup", KindClass},
		{"fn_var", KindFunction},
		{"var_exp", KindVariable},
		{"only_export", KindExport},
	}
	for _, tt := range tests {
		for range 3 {
			sym, ok := Resolve(mod, tt.symbol)
			if !ok || sym.Kind != tt.want {
				t.Fatalf("Resolve(%q) = %v %v, want %s", tt.symbol, sym.Kind, ok, tt.want)
			}
		}
	}
}

func TestFollowExport(t *testing.T) {
	t.Parallel()
	p := alphaProject(t)
	arena := NewArena(p)
	alpha := mustModule(t, p, "alpha")

	target, ok := arena.FollowExport(&alpha.Exports[0])
	if !ok {
		t.Fatal("expected alpha.Helper to resolve")
	}
	if target.Module.Name != "alpha.core" || target.Symbol.Kind != KindClass || target.Symbol.Name() != "alpha.core.Helper" {
		t.Errorf("got %s %s %s", target.Module.Name, target.Symbol.Kind, target.Symbol.Name())
	}

	target, ok = arena.FollowExport(&alpha.Exports[1])
	if !ok || target.Symbol.Kind != KindFunction || target.Symbol.Name() != "alpha.foo.bar" {
		t.Errorf("alpha.bar: got %v %v", target.Symbol.Kind, ok)
	}

	if _, ok := arena.FollowExport(&alpha.Exports[2]); ok {
		t.Error("export into another project should not resolve locally")
	}
}

func TestArena_OwnersAndPath(t *testing.T) {
	t.Parallel()
	arena := NewArena(alphaProject(t))

	i, ok := arena.Class("alpha.core.Helper.Utils.Common")
	if !ok {
		t.Fatal("Common not indexed")
	}
	if got := arena.OwnerModule(i).Name; got != "alpha.core" {
		t.Errorf("OwnerModule = %s", got)
	}
	if got := arena.Outer(i); got == nil || got.Name != "alpha.core.Helper.Utils" {
		t.Errorf("Outer = %v", got)
	}
	if arena.Classes[i].Depth != 2 {
		t.Errorf("Depth = %d, want 2", arena.Classes[i].Depth)
	}

	var names []string
	for _, c := range arena.Path(i) {
		names = append(names, ShortName(c.Name))
	}
	if len(names) != 3 || names[0] != "Helper" || names[1] != "Utils" || names[2] != "Common" {
		t.Errorf("Path = %v", names)
	}

	h, _ := arena.Class("alpha.core.Helper")
	if arena.Outer(h) != nil {
		t.Error("module-level class should have no outer class")
	}
}

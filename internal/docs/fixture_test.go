package docs

import "testing"

// alphaJSON mirrors the index generated for the project-alpha test fixture.
const alphaJSON = `{
  "name": "project-alpha",
  "metadata": {"version": "1.0", "dependencies": [], "summary": "The alpha project"},
  "documentation": ["The alpha project"],
  "modules": [
    {
      "name": "alpha",
      "documentation": [],
      "functions": [],
      "variables": [],
      "classes": [],
      "exports": [
        {"name": "alpha.Helper", "xref": {"fqname": "alpha.core.Helper"}},
        {"name": "alpha.bar", "xref": {"fqname": "alpha.foo.bar"}},
        {"name": "alpha.Remote", "xref": {"fqname": "beta.Remote", "project": "project-beta"}}
      ]
    },
    {
      "name": "alpha.core",
      "documentation": ["core module docs"],
      "functions": [
        {
          "name": "alpha.core.core_main",
          "asynchronous": false,
          "params": [{"name": "param", "type": {"name": "Union", "params": [{"name": "int"}, {"name": "str"}]}, "default": null}],
          "returns": {"name": "Helper", "xref": {"fqname": "alpha.core.Helper"}},
          "documentation": []
        }
      ],
      "variables": [],
      "classes": [
        {
          "name": "alpha.core.Helper",
          "bases": [],
          "methods": [],
          "class_variables": [
            {"name": "alpha.core.Helper.some_variable", "type": {"name": "int"}, "documentation": ["docstring for some_variable"]}
          ],
          "instance_variables": [],
          "inner_classes": [
            {
              "name": "alpha.core.Helper.Utils",
              "bases": [],
              "methods": [
                {
                  "name": "alpha.core.Helper.Utils.static_method",
                  "asynchronous": false,
                  "params": [{"name": "foo", "type": {"name": "int"}, "default": null}],
                  "returns": {"name": "None"},
                  "documentation": []
                }
              ],
              "class_variables": [],
              "instance_variables": [],
              "inner_classes": [
                {
                  "name": "alpha.core.Helper.Utils.Common",
                  "bases": [],
                  "methods": [],
                  "class_variables": [],
                  "instance_variables": [],
                  "inner_classes": [],
                  "documentation": []
                }
              ],
              "documentation": []
            }
          ],
          "documentation": []
        }
      ],
      "exports": []
    },
    {
      "name": "alpha.foo",
      "documentation": ["The One True Foo"],
      "functions": [
        {
          "name": "alpha.foo.bar",
          "asynchronous": false,
          "params": [],
          "returns": {"name": "Generator", "xref": {"fqname": "typing.Generator", "project": "--std--"}, "params": [{"name": "int"}, {"name": "None"}, {"name": "str"}]},
          "documentation": ["But this is the real docstring"]
        },
        {
          "name": "alpha.foo.unzip",
          "asynchronous": false,
          "params": [{"name": "iterable", "type": null, "default": null}],
          "returns": null,
          "documentation": ["The inverse of {py:func}` + "`alpha.foo.bar`" + `."]
        }
      ],
      "variables": [],
      "classes": [],
      "exports": []
    }
  ]
}`

func alphaProject(t *testing.T) *Project {
	t.Helper()
	p, err := Parse([]byte(alphaJSON))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return p
}

func mustModule(t *testing.T, p *Project, name string) *Module {
	t.Helper()
	m, ok := p.Module(name)
	if !ok {
		t.Fatalf("module %s not found", name)
	}
	return m
}

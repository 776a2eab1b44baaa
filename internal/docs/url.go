package docs

import (
	"strings"
)

const stdlibDocsPrefix = "//docs.python.org/3/library"

// NormalizeProjectName applies PEP 426 normalization the same way PyPI does:
// lowercase, with dots and underscores replaced by hyphens.
func NormalizeProjectName(name string) string {
	name = strings.ToLower(name)
	return strings.NewReplacer(".", "-", "_", "-").Replace(name)
}

// WithoutPrefix strips "prefix." from s. s is returned unchanged otherwise.
func WithoutPrefix(prefix, s string) string {
	if rest, ok := strings.CutPrefix(s, prefix+"."); ok {
		return rest
	}
	return s
}

// IndexMetadataPath is the path of the index directory metadata file.
func IndexMetadataPath() string {
	return "/_index/.metadata"
}

// ProjectJSONPath is the path a project index document is served from.
func ProjectJSONPath(name string) string {
	return "/_index/" + NormalizeProjectName(name) + ".json"
}

// URLs builds site paths for projects, modules and symbols. Base is prepended
// to every internal path and may be empty.
type URLs struct {
	Base string
}

func (u URLs) Project(p *Project) string {
	return u.Base + "/" + p.Name
}

func (u URLs) Module(p *Project, m *Module) string {
	return u.Project(p) + "/" + m.Name
}

// Symbol builds the path of a module member given its fully qualified name.
func (u URLs) Symbol(p *Project, m *Module, name string) string {
	return u.Module(p, m) + "/" + WithoutPrefix(m.Name, name)
}

// ClassItem builds the path of a method or variable on a class page.
func (u URLs) ClassItem(p *Project, m *Module, c *Class, item string) string {
	return u.Symbol(p, m, c.Name) + "#" + item
}

// XRef resolves a cross-reference. p supplies the default project and may be
// nil. Returns false when the reference cannot be linked.
func (u URLs) XRef(p *Project, x XRef) (string, bool) {
	project := x.Project
	if project == "" && p != nil {
		project = p.Name
	}
	if project == "" {
		return "", false
	}
	if project == StdlibProject {
		return StdlibRef(x.FQName), true
	}
	lastDot := strings.LastIndex(x.FQName, ".")
	if lastDot == -1 {
		return "", false
	}
	return u.Base + "/" + project + "/" + x.FQName[:lastDot] + "/" + x.FQName[lastDot+1:], true
}

// specialFunctions have a different anchor on docs.python.org/3/library/functions.html.
var specialFunctions = map[string]string{
	"bytearray":  "func-bytearray",
	"bytes":      "func-bytes",
	"dict":       "func-dict",
	"frozenset":  "func-frozenset",
	"list":       "func-list",
	"memoryview": "func-memoryview",
	"range":      "func-range",
	"set":        "func-set",
	"str":        "func-str",
	"tuple":      "func-tuple",
	"__import__": "import__",
}

// StdlibRef builds a docs.python.org link for a standard library name.
// Nested modules such as concurrent.futures.Executor.submit are linked against
// the page of everything before the last dot, which is not always right.
func StdlibRef(fqname string) string {
	lastDot := strings.LastIndex(fqname, ".")
	if lastDot == -1 {
		return stdlibDocsPrefix + "/" + fqname + ".html"
	}
	mod := fqname[:lastDot]
	anchor := fqname
	if mod == "functions" || mod == "constants" {
		anchor = fqname[lastDot+1:]
		if special, ok := specialFunctions[anchor]; ok {
			anchor = special
		}
	}
	return stdlibDocsPrefix + "/" + mod + ".html#" + anchor
}

// ParseRoleTarget parses the target of a documentation cross-reference role,
// either "fqname" or "project/fqname".
func ParseRoleTarget(value string) XRef {
	if project, fqname, ok := strings.Cut(value, "/"); ok {
		return XRef{Project: project, FQName: fqname}
	}
	return XRef{FQName: value}
}

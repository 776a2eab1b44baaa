package docs

// StdlibProject is the XRef project sentinel for the Python standard library.
const StdlibProject = "--std--"

// Project is the top-level structure of a generated project index.
type Project struct {
	Name          string          `json:"name"`
	Metadata      ProjectMetadata `json:"metadata"`
	Documentation []string        `json:"documentation"`
	Modules       []Module        `json:"modules"`
}

// ProjectMetadata is the package metadata collected from PyPI.
type ProjectMetadata struct {
	Version          string   `json:"version"`
	Classifiers      []string `json:"classifiers,omitempty"`
	HomePage         string   `json:"home_page,omitempty"`
	License          string   `json:"license,omitempty"`
	DocumentationURL string   `json:"documentation_url,omitempty"`
	Dependencies     []string `json:"dependencies"`
	Summary          string   `json:"summary,omitempty"`
}

// Module is a single Python module. Name is fully qualified.
type Module struct {
	Name          string     `json:"name"`
	Documentation []string   `json:"documentation"`
	Functions     []Function `json:"functions"`
	Variables     []Variable `json:"variables"`
	Classes       []Class    `json:"classes"`
	Exports       []Export   `json:"exports"`
}

// Class is a class declaration. InnerClasses nest to arbitrary depth and their
// names are prefixed by the outer class name.
type Class struct {
	Name              string     `json:"name"`
	Bases             []string   `json:"bases"`
	Methods           []Function `json:"methods"`
	ClassVariables    []Variable `json:"class_variables"`
	InstanceVariables []Variable `json:"instance_variables"`
	InnerClasses      []Class    `json:"inner_classes"`
	Documentation     []string   `json:"documentation"`
}

type Function struct {
	Name          string   `json:"name"`
	Asynchronous  bool     `json:"asynchronous"`
	Params        []Param  `json:"params"`
	Returns       *Typ     `json:"returns"`
	Documentation []string `json:"documentation"`
}

type Param struct {
	Name    string  `json:"name"`
	Type    *Typ    `json:"type"`
	Default *string `json:"default"`
}

type Variable struct {
	Name          string   `json:"name"`
	Type          *Typ     `json:"type,omitempty"`
	Documentation []string `json:"documentation"`
}

// Typ is a type annotation. Params holds generic parameters, e.g. the int in list[int].
type Typ struct {
	Name   string `json:"name"`
	XRef   *XRef  `json:"xref,omitempty"`
	Params []Typ  `json:"params,omitempty"`
}

// XRef points at a fully qualified name. An empty Project means the current one.
type XRef struct {
	FQName  string `json:"fqname"`
	Project string `json:"project,omitempty"`
}

// Export is a name re-exported by a module.
type Export struct {
	Name string `json:"name"`
	XRef XRef   `json:"xref"`
}

// Module returns the module with the given fully qualified name.
func (p *Project) Module(name string) (*Module, bool) {
	for i := range p.Modules {
		if p.Modules[i].Name == name {
			return &p.Modules[i], true
		}
	}
	return nil, false
}

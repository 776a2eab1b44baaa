package docs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMissingName is returned for project documents without a name.
var ErrMissingName = errors.New("project document has no name")

// Parse decodes a project index document.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling project JSON: %w", err)
	}
	return finish(&p)
}

// Decode is Parse for a stream.
func Decode(r io.Reader) (*Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding project JSON: %w", err)
	}
	return finish(&p)
}

func finish(p *Project) (*Project, error) {
	if p.Name == "" {
		return nil, ErrMissingName
	}
	normalizeProject(p)
	return p, nil
}

// normalizeProject replaces nil collections with empty ones so callers can
// range and marshal without nil checks.
func normalizeProject(p *Project) {
	p.Documentation = nonNil(p.Documentation)
	p.Metadata.Dependencies = nonNil(p.Metadata.Dependencies)
	p.Modules = nonNil(p.Modules)
	for i := range p.Modules {
		m := &p.Modules[i]
		m.Documentation = nonNil(m.Documentation)
		m.Functions = nonNil(m.Functions)
		m.Variables = nonNil(m.Variables)
		m.Classes = nonNil(m.Classes)
		m.Exports = nonNil(m.Exports)
		normalizeFunctions(m.Functions)
		normalizeVariables(m.Variables)
		normalizeClasses(m.Classes)
	}
}

func normalizeClasses(classes []Class) {
	for i := range classes {
		c := &classes[i]
		c.Bases = nonNil(c.Bases)
		c.Methods = nonNil(c.Methods)
		c.ClassVariables = nonNil(c.ClassVariables)
		c.InstanceVariables = nonNil(c.InstanceVariables)
		c.InnerClasses = nonNil(c.InnerClasses)
		c.Documentation = nonNil(c.Documentation)
		normalizeFunctions(c.Methods)
		normalizeVariables(c.ClassVariables)
		normalizeVariables(c.InstanceVariables)
		normalizeClasses(c.InnerClasses)
	}
}

func normalizeFunctions(fns []Function) {
	for i := range fns {
		fns[i].Params = nonNil(fns[i].Params)
		fns[i].Documentation = nonNil(fns[i].Documentation)
	}
}

func normalizeVariables(vars []Variable) {
	for i := range vars {
		vars[i].Documentation = nonNil(vars[i].Documentation)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

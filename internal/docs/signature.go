package docs

import "strings"

// FormatType renders a type annotation in Python syntax, e.g. "dict[str, int]".
func FormatType(t *Typ) string {
	if t == nil {
		return ""
	}
	if len(t.Params) == 0 {
		return t.Name
	}
	params := make([]string, len(t.Params))
	for i := range t.Params {
		params[i] = FormatType(&t.Params[i])
	}
	return t.Name + "[" + strings.Join(params, ", ") + "]"
}

// FunctionSignature renders a plain-text Python function header.
// Example output: "async def fetch(url: str, timeout: float = 5.0) -> bytes"
func FunctionSignature(fn *Function) string {
	var b strings.Builder
	if fn.Asynchronous {
		b.WriteString("async ")
	}
	b.WriteString("def ")
	b.WriteString(ShortName(fn.Name))
	b.WriteString("(")
	for i, p := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Type != nil {
			b.WriteString(": ")
			b.WriteString(FormatType(p.Type))
		}
		if p.Default != nil {
			if p.Type != nil {
				b.WriteString(" = ")
			} else {
				b.WriteString("=")
			}
			b.WriteString(*p.Default)
		}
	}
	b.WriteString(")")
	if fn.Returns != nil {
		b.WriteString(" -> ")
		b.WriteString(FormatType(fn.Returns))
	}
	return b.String()
}

// ClassSignature renders a class header with its bases.
func ClassSignature(c *Class) string {
	return "class " + c.Name + "(" + strings.Join(c.Bases, ", ") + ")"
}

// VariableSignature renders "name: type", or just the name when untyped.
func VariableSignature(v *Variable) string {
	if v.Type == nil {
		return ShortName(v.Name)
	}
	return ShortName(v.Name) + ": " + FormatType(v.Type)
}

// ShortName returns the last dotted segment of a fully qualified name.
func ShortName(fqname string) string {
	if i := strings.LastIndex(fqname, "."); i >= 0 {
		return fqname[i+1:]
	}
	return fqname
}

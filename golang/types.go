package golang

import (
	"strconv"
	"strings"

	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/render"
	"github.com/broady/apigen/typegraph"
)

const header = "// Code generated by apigen. DO NOT EDIT."

// typesFile renders the Go declarations of one API. Its output is formatted
// afterwards, so alignment is left to gofmt.
type typesFile struct {
	*render.Source
	opts  Options
	graph *typegraph.Graph
	names *render.Allocator
	exprs *typegraph.Matcher[string]
	taken map[string]bool
}

func newTypesFile(g *typegraph.Graph, names *render.Allocator, opts Options) (*typesFile, error) {
	f := &typesFile{
		Source: render.NewSource("\t", render.CommentLine),
		opts:   opts,
		graph:  g,
		names:  names,
		taken:  make(map[string]bool),
	}
	m, err := typegraph.NewMatcher(typegraph.Cases[string]{
		Any:     func(*typegraph.Any) string { return "any" },
		Null:    func(*typegraph.Null) string { return "any" },
		Bool:    func(*typegraph.Bool) string { return "bool" },
		Integer: func(*typegraph.Integer) string { return "int64" },
		Double:  func(*typegraph.Double) string { return "float64" },
		String:  func(*typegraph.String) string { return "string" },
		Array:   func(a *typegraph.Array) string { return "[]" + f.expr(a.Items) },
		Map:     func(m *typegraph.Map) string { return "map[string]" + f.expr(m.Values) },
		Class:   func(c *typegraph.Class) string { return names.NameFor(c) },
		Enum:    func(e *typegraph.Enum) string { return names.NameFor(e) },
		Union: func(u *typegraph.Union) string {
			if form, t := render.NormalizeUnion(u, false); form == render.UnionOptional {
				return pointer(t, f.expr(t))
			}
			return names.NameFor(u)
		},
	})
	if err != nil {
		return nil, err
	}
	f.exprs = m
	return f, nil
}

func (f *typesFile) expr(n typegraph.Node) string {
	return f.exprs.Match(n)
}

// pointer returns the type used for an absent-or-null value of n. Slices,
// maps and interfaces are already nilable.
func pointer(n typegraph.Node, typ string) string {
	if nilable(n) {
		return typ
	}
	return "*" + typ
}

func nilable(n typegraph.Node) bool {
	switch n.(type) {
	case *typegraph.Array, *typegraph.Map, *typegraph.Any, *typegraph.Null, *typegraph.Union:
		return true
	}
	return false
}

func (f *typesFile) description(name, text string) {
	if !f.opts.Comments {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	// Doc comments start with the declared name.
	if !strings.HasPrefix(text, name+" ") {
		text = name + ": " + text
	}
	f.Description(text)
}

func (f *typesFile) render() ([]byte, int) {
	decls := render.Declarations(f.graph, f.names)
	for _, d := range decls {
		f.taken[d.Name] = true
	}

	f.Line(header)
	f.Blank()
	f.Line("package ", f.opts.Package)
	count := 0
	for _, d := range decls {
		f.Blank()
		if d.Alias {
			f.Line("type ", d.Name, " = ", f.expr(d.Node))
			count++
			continue
		}
		switch n := d.Node.(type) {
		case *typegraph.Class:
			f.class(d.Name, n)
		case *typegraph.Enum:
			f.enum(d.Name, n)
		case *typegraph.Union:
			f.union(d.Name, n)
		}
		count++
	}
	return f.Bytes(), count
}

func (f *typesFile) class(name string, c *typegraph.Class) {
	f.description(name, c.Description())
	taken := make(map[string]bool)
	f.Block("type "+name+" struct", "", func() {
		for _, p := range c.Properties {
			field := unique(exported(p.Name), taken)
			if field == "" || !isExportedStart(field) {
				field = unique("X"+field, taken)
			}
			t, nullable := render.Unwrap(p.Type)
			typ := f.expr(t)
			if nullable || p.Optional || reaches(t, c) {
				typ = pointer(t, typ)
			}
			tag := p.Name
			if p.Optional {
				tag += ",omitempty"
			}
			if p.Description != "" {
				f.description(field, p.Description)
			}
			f.Line(field, " ", typ, " `json:", strconv.Quote(tag), "`")
		}
	})
}

func isExportedStart(s string) bool {
	return s != "" && strings.ToUpper(s[:1]) == s[:1] && s[0] != '_'
}

// reaches reports whether a value of n contains c without passing through a
// slice or map, so a field of type n inside c must be a pointer.
func reaches(n typegraph.Node, c *typegraph.Class) bool {
	seen := make(map[typegraph.Node]bool)
	var walk func(n typegraph.Node) bool
	walk = func(n typegraph.Node) bool {
		switch n := n.(type) {
		case *typegraph.Class:
			if n == c {
				return true
			}
			if seen[n] {
				return false
			}
			seen[n] = true
			for _, p := range n.Properties {
				if t, nullable := render.Unwrap(p.Type); !nullable && !p.Optional && walk(t) {
					return true
				}
			}
		}
		return false
	}
	return walk(n)
}

func (f *typesFile) enum(name string, e *typegraph.Enum) {
	f.description(name, e.Description())
	f.Line("type ", name, " string")
	f.Blank()
	f.Line("const (")
	f.Indent(func() {
		for _, v := range e.Cases {
			suffix := "Empty"
			if len(naming.Words(v)) > 0 {
				suffix = exported(v)
			}
			c := unique(render.Sanitize(name+suffix, nil), f.taken)
			f.Line(c, " ", name, " = ", strconv.Quote(v))
		}
	})
	f.Line(")")
}

func (f *typesFile) union(name string, u *typegraph.Union) {
	members, hasNull := render.SplitNull(u)
	alts := make([]string, 0, len(members)+1)
	for _, m := range members {
		alts = append(alts, f.expr(m))
	}
	if hasNull {
		alts = append(alts, "nil")
	}
	if f.opts.Comments {
		f.description(name, u.Description())
		if u.Description() != "" {
			f.Comment("")
		}
		f.Comment(name + " holds one of: " + strings.Join(alts, ", ") + ".")
	}
	f.Line("type ", name, " = any")
}

package typescript

import (
	"strconv"
	"strings"

	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/render"
	"github.com/broady/apigen/typegraph"
)

const header = "// Code generated by apigen. DO NOT EDIT."

// expr is a type expression. multi marks expressions that need parentheses
// before a postfix such as "[]".
type expr struct {
	text  string
	multi bool
}

func (x expr) paren() string {
	if x.multi {
		return "(" + x.text + ")"
	}
	return x.text
}

// typesFile renders the types module of one API.
type typesFile struct {
	*render.Source
	opts  Options
	graph *typegraph.Graph
	names *render.Allocator
	exprs *typegraph.Matcher[expr]
}

func newTypesFile(g *typegraph.Graph, names *render.Allocator, opts Options) (*typesFile, error) {
	f := &typesFile{
		Source: render.NewSource("  ", render.CommentJSDoc),
		opts:   opts,
		graph:  g,
		names:  names,
	}
	m, err := typegraph.NewMatcher(typegraph.Cases[expr]{
		Any:     func(*typegraph.Any) expr { return expr{text: opts.UnknownType} },
		Null:    func(*typegraph.Null) expr { return expr{text: "null"} },
		Bool:    func(*typegraph.Bool) expr { return expr{text: "boolean"} },
		Integer: func(*typegraph.Integer) expr { return expr{text: "number"} },
		Double:  func(*typegraph.Double) expr { return expr{text: "number"} },
		String:  func(*typegraph.String) expr { return expr{text: "string"} },
		Array:   f.array,
		Map: func(m *typegraph.Map) expr {
			return expr{text: "{ [key: string]: " + f.expr(m.Values).text + " }"}
		},
		Class: func(c *typegraph.Class) expr { return expr{text: names.NameFor(c)} },
		Enum:  func(e *typegraph.Enum) expr { return expr{text: names.NameFor(e)} },
		Union: f.union,
	})
	if err != nil {
		return nil, err
	}
	f.exprs = m
	return f, nil
}

func (f *typesFile) expr(n typegraph.Node) expr {
	return f.exprs.Match(n)
}

func (f *typesFile) array(a *typegraph.Array) expr {
	item := f.expr(a.Items)
	_, isUnion := a.Items.(*typegraph.Union)
	_, isArray := a.Items.(*typegraph.Array)
	if (isUnion && f.opts.InlineUnions) || isArray {
		return expr{text: "Array<" + item.text + ">"}
	}
	return expr{text: item.paren() + "[]"}
}

func (f *typesFile) union(u *typegraph.Union) expr {
	if form, _ := render.NormalizeUnion(u, f.opts.InlineUnions); form == render.UnionNamed {
		return expr{text: f.names.NameFor(u)}
	}
	return expr{text: f.alternation(u), multi: true}
}

func (f *typesFile) alternation(u *typegraph.Union) string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = f.expr(m).paren()
	}
	return strings.Join(parts, " | ")
}

// render returns the module source and the number of declarations written.
func (f *typesFile) render() ([]byte, int) {
	f.Line(header)
	count := 0
	for _, d := range render.Declarations(f.graph, f.names) {
		if f.declare(d) {
			count++
		}
	}
	if !f.opts.JustTypes {
		f.convert()
	}
	return f.Bytes(), count
}

func (f *typesFile) declare(d render.Decl) bool {
	if d.Alias {
		f.Blank()
		f.Line("export type ", d.Name, " = ", f.expr(d.Node).text, ";")
		return true
	}
	switch n := d.Node.(type) {
	case *typegraph.Class:
		f.Blank()
		f.class(d.Name, n)
	case *typegraph.Enum:
		f.Blank()
		f.enum(d.Name, n)
	case *typegraph.Union:
		// Inlined unions are only declared when a schema names them.
		if f.opts.InlineUnions && !d.TopLevel {
			return false
		}
		f.Blank()
		f.description(n.Description())
		f.Line("export type ", d.Name, " = ", f.alternation(n), ";")
	default:
		return false
	}
	return true
}

func (f *typesFile) description(text string) {
	if f.opts.Comments {
		f.Description(text)
	}
}

func (f *typesFile) class(name string, c *typegraph.Class) {
	f.description(c.Description())
	header, trailer := "export interface "+name, ""
	if f.opts.PreferTypes {
		header, trailer = "export type "+name+" =", ";"
	}
	f.Block(header, trailer, func() {
		for _, p := range c.Properties {
			f.description(p.Description)
			t, nullable := render.Unwrap(p.Type)
			mark := ""
			if nullable || p.Optional {
				mark = "?"
			}
			f.Line(propertyKey(p.Name), mark, ": ", f.expr(t).text, ";")
		}
	})
}

func (f *typesFile) enum(name string, e *typegraph.Enum) {
	f.description(e.Description())
	f.Block("export enum "+name, "", func() {
		for i, c := range enumCaseNames(e.Cases) {
			f.Line(c, " = ", strconv.Quote(e.Cases[i]), ",")
		}
	})
}

// enumCaseNames returns one unique member identifier per enum value.
func enumCaseNames(values []string) []string {
	taken := make(map[string]bool, len(values))
	out := make([]string, len(values))
	for i, v := range values {
		base := naming.Pascal(v)
		if base == "" {
			base = "Empty"
		}
		base = render.Sanitize(base, reservedWords)
		name := base
		for n := 2; taken[name]; n++ {
			name = base + strconv.Itoa(n)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

// convert writes the Convert namespace of typed JSON entry points, one pair
// per top level.
func (f *typesFile) convert() {
	f.Blank()
	f.Block("export namespace Convert", "", func() {
		for i, t := range f.graph.TopLevels {
			name, ok := f.names.TopLevelName(t.Name)
			if !ok {
				continue
			}
			typ := name
			if _, nullable := render.Unwrap(t.Node); nullable {
				typ += " | null"
			}
			if i > 0 {
				f.Blank()
			}
			f.Block("export function to"+name+"(json: string): "+typ, "", func() {
				f.Line("return JSON.parse(json);")
			})
			f.Blank()
			f.Block("export function "+naming.Camel(name)+"ToJson(value: "+typ+"): string", "", func() {
				f.Line("return JSON.stringify(value);")
			})
		}
	})
}

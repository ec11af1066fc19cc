package swift

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/broady/apigen/render"
	"github.com/broady/apigen/typegraph"
)

const header = "// Code generated by apigen. DO NOT EDIT."

// typesFile renders the Codable declarations of one API.
type typesFile struct {
	*render.Source
	opts    Options
	graph   *typegraph.Graph
	names   *render.Allocator
	exprs   *typegraph.Matcher[string]
	usesAny bool
}

func newTypesFile(g *typegraph.Graph, names *render.Allocator, opts Options) (*typesFile, error) {
	f := &typesFile{
		Source: render.NewSource("    ", render.CommentTripleSlash),
		opts:   opts,
		graph:  g,
		names:  names,
	}
	anyType := func() string {
		f.usesAny = true
		return "JSONAny"
	}
	m, err := typegraph.NewMatcher(typegraph.Cases[string]{
		Any:     func(*typegraph.Any) string { return anyType() },
		Null:    func(*typegraph.Null) string { return anyType() },
		Bool:    func(*typegraph.Bool) string { return "Bool" },
		Integer: func(*typegraph.Integer) string { return "Int" },
		Double:  func(*typegraph.Double) string { return "Double" },
		String:  func(*typegraph.String) string { return "String" },
		Array:   func(a *typegraph.Array) string { return "[" + f.expr(a.Items) + "]" },
		Map:     func(m *typegraph.Map) string { return "[String: " + f.expr(m.Values) + "]" },
		Class:   func(c *typegraph.Class) string { return names.NameFor(c) },
		Enum:    func(e *typegraph.Enum) string { return names.NameFor(e) },
		Union: func(u *typegraph.Union) string {
			if form, t := render.NormalizeUnion(u, false); form == render.UnionOptional {
				return f.expr(t) + "?"
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

// access returns the access modifier followed by a space, or nothing for
// internal declarations.
func (f *typesFile) access() string {
	return accessPrefix(f.opts.AccessLevel)
}

func accessPrefix(level string) string {
	if level == "internal" {
		return ""
	}
	return level + " "
}

func (f *typesFile) description(text string) {
	if f.opts.Comments {
		f.Description(text)
	}
}

func (f *typesFile) render() ([]byte, int) {
	f.Line(header)
	f.Blank()
	f.Line("import Foundation")
	count := 0
	for _, d := range render.Declarations(f.graph, f.names) {
		f.Blank()
		if d.Alias {
			f.Line(f.access(), "typealias ", d.Name, " = ", f.expr(d.Node))
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
	if f.usesAny {
		f.Blank()
		f.jsonAny()
	}
	return f.Bytes(), count
}

type field struct {
	name, key, typ string
}

func (f *typesFile) class(name string, c *typegraph.Class) {
	f.description(c.Description())
	kind := "struct"
	if selfReferential(c) {
		// A value type cannot contain itself.
		kind = "final class"
	}
	fields := make([]field, 0, len(c.Properties))
	taken := make(map[string]bool)
	renamed := false
	for _, p := range c.Properties {
		t, nullable := render.Unwrap(p.Type)
		typ := f.expr(t)
		if nullable || p.Optional {
			typ += "?"
		}
		id := unique(member(p.Name), taken)
		renamed = renamed || id != p.Name
		fields = append(fields, field{name: id, key: p.Name, typ: typ})
	}

	f.Block(f.access()+kind+" "+name+": Codable", "", func() {
		for i, p := range c.Properties {
			f.description(p.Description)
			f.Line(f.access(), "let ", fields[i].name, ": ", fields[i].typ)
		}
		if renamed {
			f.Blank()
			f.Block("enum CodingKeys: String, CodingKey", "", func() {
				for _, fl := range fields {
					if fl.name == fl.key {
						f.Line("case ", fl.name)
					} else {
						f.Line("case ", fl.name, " = ", strconv.Quote(fl.key))
					}
				}
			})
		}
		if f.opts.AccessLevel == "public" {
			// The synthesized memberwise initializer is internal.
			f.Blank()
			params := ""
			for i, fl := range fields {
				if i > 0 {
					params += ", "
				}
				params += fl.name + ": " + fl.typ
			}
			f.Block("public init("+params+")", "", func() {
				for _, fl := range fields {
					f.Line("self.", fl.name, " = ", fl.name)
				}
			})
		}
	})
}

// selfReferential reports whether c contains itself other than through an
// array or a map.
func selfReferential(c *typegraph.Class) bool {
	seen := make(map[typegraph.Node]bool)
	var reaches func(n typegraph.Node) bool
	reaches = func(n typegraph.Node) bool {
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
				if reaches(p.Type) {
					return true
				}
			}
		case *typegraph.Union:
			for _, m := range n.Members {
				if reaches(m) {
					return true
				}
			}
		}
		return false
	}
	for _, p := range c.Properties {
		if reaches(p.Type) {
			return true
		}
	}
	return false
}

func unique(name string, taken map[string]bool) string {
	candidate := name
	for i := 2; taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	taken[candidate] = true
	return candidate
}

func (f *typesFile) enum(name string, e *typegraph.Enum) {
	f.description(e.Description())
	f.Block(f.access()+"enum "+name+": String, Codable", "", func() {
		taken := make(map[string]bool)
		for _, v := range e.Cases {
			id := unique(member(v), taken)
			if id == v {
				f.Line("case ", id)
			} else {
				f.Line("case ", id, " = ", strconv.Quote(v))
			}
		}
	})
}

type unionCase struct {
	name, typ string
	rank      int
}

// decodeRank orders decoding attempts so narrower types are tried first.
var decodeRank = map[typegraph.Kind]int{
	typegraph.KindBool:    0,
	typegraph.KindInteger: 1,
	typegraph.KindDouble:  2,
	typegraph.KindString:  3,
	typegraph.KindEnum:    4,
	typegraph.KindArray:   5,
	typegraph.KindClass:   6,
	typegraph.KindMap:     7,
	typegraph.KindAny:     8,
}

func (f *typesFile) union(name string, u *typegraph.Union) {
	members, hasNull := render.SplitNull(u)
	taken := map[string]bool{"null": hasNull}
	cases := make([]unionCase, 0, len(members))
	for _, m := range members {
		cases = append(cases, unionCase{
			name: unique(f.caseName(m), taken),
			typ:  f.expr(m),
			rank: decodeRank[m.Kind()],
		})
	}
	decodeOrder := slices.Clone(cases)
	slices.SortStableFunc(decodeOrder, func(a, b unionCase) int { return cmp.Compare(a.rank, b.rank) })

	f.description(u.Description())
	f.Block(f.access()+"enum "+name+": Codable", "", func() {
		for _, c := range cases {
			f.Line("case ", c.name, "(", c.typ, ")")
		}
		if hasNull {
			f.Line("case null")
		}
		f.Blank()
		f.Block(f.access()+"init(from decoder: Decoder) throws", "", func() {
			f.Line("let container = try decoder.singleValueContainer()")
			if hasNull {
				f.Block("if container.decodeNil()", "", func() {
					f.Line("self = .null")
					f.Line("return")
				})
			}
			for _, c := range decodeOrder {
				f.Block("if let x = try? container.decode("+c.typ+".self)", "", func() {
					f.Line("self = .", c.name, "(x)")
					f.Line("return")
				})
			}
			f.Line("throw DecodingError.typeMismatch(", name, ".self, DecodingError.Context(codingPath: decoder.codingPath, debugDescription: ", strconv.Quote("Wrong type for "+name), "))")
		})
		f.Blank()
		f.Block(f.access()+"func encode(to encoder: Encoder) throws", "", func() {
			f.Line("var container = encoder.singleValueContainer()")
			f.Line("switch self {")
			for _, c := range cases {
				f.Line("case .", c.name, "(let x):")
				f.Indent(func() { f.Line("try container.encode(x)") })
			}
			if hasNull {
				f.Line("case .null:")
				f.Indent(func() { f.Line("try container.encodeNil()") })
			}
			f.Line("}")
		})
	})
}

// caseName names the enum case holding a union member.
func (f *typesFile) caseName(n typegraph.Node) string {
	switch n := n.(type) {
	case *typegraph.Any:
		return "anything"
	case *typegraph.Bool:
		return "bool"
	case *typegraph.Integer:
		return "integer"
	case *typegraph.Double:
		return "double"
	case *typegraph.String:
		return "string"
	case *typegraph.Array:
		return f.caseName(n.Items) + "Array"
	case *typegraph.Map:
		return f.caseName(n.Values) + "Map"
	case typegraph.Named:
		return member(f.names.NameFor(n))
	}
	return "value"
}

func (f *typesFile) jsonAny() {
	a := f.access()
	f.Comment("JSONAny holds a JSON value of any type.")
	f.Block(a+"indirect enum JSONAny: Codable", "", func() {
		f.Line("case null")
		f.Line("case bool(Bool)")
		f.Line("case integer(Int)")
		f.Line("case double(Double)")
		f.Line("case string(String)")
		f.Line("case array([JSONAny])")
		f.Line("case object([String: JSONAny])")
		f.Blank()
		f.Block(a+"init(from decoder: Decoder) throws", "", func() {
			f.Line("let container = try decoder.singleValueContainer()")
			f.Line("if container.decodeNil() {")
			f.Indent(func() { f.Line("self = .null") })
			f.Line("} else if let x = try? container.decode(Bool.self) {")
			f.Indent(func() { f.Line("self = .bool(x)") })
			f.Line("} else if let x = try? container.decode(Int.self) {")
			f.Indent(func() { f.Line("self = .integer(x)") })
			f.Line("} else if let x = try? container.decode(Double.self) {")
			f.Indent(func() { f.Line("self = .double(x)") })
			f.Line("} else if let x = try? container.decode(String.self) {")
			f.Indent(func() { f.Line("self = .string(x)") })
			f.Line("} else if let x = try? container.decode([JSONAny].self) {")
			f.Indent(func() { f.Line("self = .array(x)") })
			f.Line("} else {")
			f.Indent(func() { f.Line("self = .object(try container.decode([String: JSONAny].self))") })
			f.Line("}")
		})
		f.Blank()
		f.Block(a+"func encode(to encoder: Encoder) throws", "", func() {
			f.Line("var container = encoder.singleValueContainer()")
			f.Line("switch self {")
			f.Line("case .null:")
			f.Indent(func() { f.Line("try container.encodeNil()") })
			for _, c := range []string{"bool", "integer", "double", "string", "array", "object"} {
				f.Line("case .", c, "(let x):")
				f.Indent(func() { f.Line("try container.encode(x)") })
			}
			f.Line("}")
		})
	})
}

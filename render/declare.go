package render

import "github.com/broady/apigen/typegraph"

// Decl is one declaration a renderer writes.
type Decl struct {
	// Name is the allocated identifier.
	Name string
	// Node is the declared node. For an alias it is the aliased type.
	Node typegraph.Node
	// Alias is set for top levels declared as "Name = Node".
	Alias bool
	// TopLevel is set for declarations that carry a schema set name.
	TopLevel bool
}

// Declarations lists what a renderer declares for g, in emission order: each
// top level, followed by the named types first reached through it, depth
// first. Every Class, Enum and Union is listed once. {T, null} unions are
// never listed; T is.
func Declarations(g *typegraph.Graph, a *Allocator) []Decl {
	var out []Decl
	seen := make(map[typegraph.Node]bool)
	tops := make(map[typegraph.Node]bool)
	for _, t := range g.TopLevels {
		if _, ok := a.Alias(t.Name); !ok {
			tops[declared(t.Node)] = true
		}
	}

	var walk func(n typegraph.Node)
	walk = func(n typegraph.Node) {
		if seen[n] {
			return
		}
		if named, ok := n.(typegraph.Named); ok {
			seen[n] = true
			if !isNullablePair(named) {
				out = append(out, Decl{Name: a.NameFor(named), Node: n, TopLevel: tops[n]})
			}
		}
		switch n := n.(type) {
		case *typegraph.Array:
			walk(n.Items)
		case *typegraph.Map:
			walk(n.Values)
		case *typegraph.Class:
			for _, p := range n.Properties {
				walk(p.Type)
			}
		case *typegraph.Union:
			for _, m := range n.Members {
				walk(m)
			}
		}
	}

	for _, t := range g.TopLevels {
		if target, ok := a.Alias(t.Name); ok {
			name, _ := a.TopLevelName(t.Name)
			out = append(out, Decl{Name: name, Node: target, Alias: true, TopLevel: true})
			walk(target)
			continue
		}
		walk(t.Node)
	}
	return out
}

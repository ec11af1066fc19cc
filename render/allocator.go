package render

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/broady/apigen/typegraph"
)

// Style describes a target language's identifier rules.
type Style struct {
	// Case converts a proposed name to the target's type-name casing.
	Case func(string) string
	// Reserved lists words that cannot be used as identifiers.
	Reserved map[string]bool
}

// With returns a copy of s that also reserves names.
func (s Style) With(names ...string) Style {
	reserved := make(map[string]bool, len(s.Reserved)+len(names))
	for k, v := range s.Reserved {
		reserved[k] = v
	}
	for _, n := range names {
		reserved[n] = true
	}
	s.Reserved = reserved
	return s
}

// Identifier turns name into a valid identifier: cased, with invalid
// characters replaced, a leading digit prefixed and reserved words escaped by
// appending an underscore.
func (s Style) Identifier(name string) string {
	if s.Case != nil {
		name = s.Case(name)
	}
	return Sanitize(name, s.Reserved)
}

// Sanitize replaces characters that are not letters, digits or underscores,
// prefixes a leading digit and escapes reserved words.
func Sanitize(name string, reserved map[string]bool) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			b.WriteRune('_')
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	if reserved[out] {
		return out + "_"
	}
	return out
}

// Allocator assigns identifiers to the named nodes of one graph. All names are
// decided when the allocator is created, so the result does not depend on
// the order in which a renderer later asks for them:
//
//  1. top levels, in schema set order, get their own names;
//  2. the remaining named nodes follow, ordered by proposed name and then by
//     builder sequence.
//
// A taken name is retried with the node kind appended ("WidgetClass"), then
// with a numeric suffix. An Allocator is scoped to one render pass and is not
// safe for concurrent use.
type Allocator struct {
	style  Style
	names  map[typegraph.Named]string
	tops   map[string]string
	taken  map[string]bool
	target map[string]typegraph.Node
}

// NewAllocator allocates names for every named node of g.
func NewAllocator(g *typegraph.Graph, style Style) *Allocator {
	a := &Allocator{
		style:  style,
		names:  make(map[typegraph.Named]string),
		tops:   make(map[string]string),
		taken:  make(map[string]bool),
		target: make(map[string]typegraph.Node),
	}
	for _, t := range g.TopLevels {
		node := declared(t.Node)
		if n, ok := node.(typegraph.Named); ok && n.ProposedName() == t.Name {
			if _, done := a.names[n]; !done {
				a.names[n] = a.claim(t.Name, n.Kind())
				a.tops[t.Name] = a.names[n]
				continue
			}
		}
		// Aliases, primitives and containers are declared under the top-level name.
		a.tops[t.Name] = a.claim(t.Name, typegraph.KindAny)
		a.target[t.Name] = t.Node
	}

	rest := make([]typegraph.Named, 0, len(g.Named))
	for _, n := range g.Named {
		if _, done := a.names[n]; done || isNullablePair(n) {
			continue
		}
		rest = append(rest, n)
	}
	slices.SortStableFunc(rest, func(x, y typegraph.Named) int {
		if c := cmp.Compare(x.ProposedName(), y.ProposedName()); c != 0 {
			return c
		}
		return cmp.Compare(x.Seq(), y.Seq())
	})
	for _, n := range rest {
		a.names[n] = a.claim(n.ProposedName(), n.Kind())
	}
	return a
}

// declared unwraps a {T, null} union, which is never declared on its own.
func declared(n typegraph.Node) typegraph.Node {
	if u, ok := n.(*typegraph.Union); ok {
		if inner, ok := typegraph.NullableMember(u); ok {
			return inner
		}
	}
	return n
}

func isNullablePair(n typegraph.Named) bool {
	u, ok := n.(*typegraph.Union)
	if !ok {
		return false
	}
	_, ok = typegraph.NullableMember(u)
	return ok
}

func (a *Allocator) claim(proposed string, kind typegraph.Kind) string {
	base := a.style.Identifier(proposed)
	if !a.taken[base] {
		a.taken[base] = true
		return base
	}
	suffixed := base
	switch kind {
	case typegraph.KindClass, typegraph.KindEnum, typegraph.KindUnion:
		suffixed = a.style.Identifier(proposed + kind.String())
		if !a.taken[suffixed] {
			a.taken[suffixed] = true
			return suffixed
		}
	}
	for i := 2; ; i++ {
		candidate := suffixed + strconv.Itoa(i)
		if !a.taken[candidate] {
			a.taken[candidate] = true
			return candidate
		}
	}
}

// NameFor returns the identifier of n. The same node always yields the same
// name. Nodes that were not part of the graph are allocated on first request.
func (a *Allocator) NameFor(n typegraph.Named) string {
	if name, ok := a.names[n]; ok {
		return name
	}
	name := a.claim(n.ProposedName(), n.Kind())
	a.names[n] = name
	return name
}

// TopLevelName returns the identifier declared for a top-level schema name,
// and whether such a top level exists.
func (a *Allocator) TopLevelName(schemaName string) (string, bool) {
	name, ok := a.tops[schemaName]
	return name, ok
}

// Alias returns the node a top level must be declared as an alias of, when
// the top level is not itself a named node carrying its own name.
func (a *Allocator) Alias(schemaName string) (typegraph.Node, bool) {
	n, ok := a.target[schemaName]
	return n, ok
}

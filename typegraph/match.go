package typegraph

import (
	"fmt"
	"strings"
)

// Cases holds one handler per node kind. Every field must be set; see NewMatcher.
type Cases[T any] struct {
	Any     func(*Any) T
	Null    func(*Null) T
	Bool    func(*Bool) T
	Integer func(*Integer) T
	Double  func(*Double) T
	String  func(*String) T
	Array   func(*Array) T
	Map     func(*Map) T
	Class   func(*Class) T
	Enum    func(*Enum) T
	Union   func(*Union) T
}

// Matcher dispatches a node to the handler for its kind.
type Matcher[T any] struct {
	cases Cases[T]
}

// NewMatcher returns a matcher over c, or an error naming every missing
// handler. Renderers build their matcher at construction time so an
// incomplete renderer never starts rendering.
func NewMatcher[T any](c Cases[T]) (*Matcher[T], error) {
	var missing []string
	check := func(set bool, k Kind) {
		if !set {
			missing = append(missing, k.String())
		}
	}
	check(c.Any != nil, KindAny)
	check(c.Null != nil, KindNull)
	check(c.Bool != nil, KindBool)
	check(c.Integer != nil, KindInteger)
	check(c.Double != nil, KindDouble)
	check(c.String != nil, KindString)
	check(c.Array != nil, KindArray)
	check(c.Map != nil, KindMap)
	check(c.Class != nil, KindClass)
	check(c.Enum != nil, KindEnum)
	check(c.Union != nil, KindUnion)
	if len(missing) > 0 {
		return nil, fmt.Errorf("typegraph: matcher is missing handlers for %s", strings.Join(missing, ", "))
	}
	return &Matcher[T]{cases: c}, nil
}

// MustMatcher is like NewMatcher but panics on error.
func MustMatcher[T any](c Cases[T]) *Matcher[T] {
	m, err := NewMatcher(c)
	if err != nil {
		panic(err)
	}
	return m
}

// Match calls the handler for n's kind.
func (m *Matcher[T]) Match(n Node) T {
	switch n := n.(type) {
	case *Any:
		return m.cases.Any(n)
	case *Null:
		return m.cases.Null(n)
	case *Bool:
		return m.cases.Bool(n)
	case *Integer:
		return m.cases.Integer(n)
	case *Double:
		return m.cases.Double(n)
	case *String:
		return m.cases.String(n)
	case *Array:
		return m.cases.Array(n)
	case *Map:
		return m.cases.Map(n)
	case *Class:
		return m.cases.Class(n)
	case *Enum:
		return m.cases.Enum(n)
	case *Union:
		return m.cases.Union(n)
	default:
		panic(fmt.Sprintf("typegraph: unhandled node type %T", n))
	}
}

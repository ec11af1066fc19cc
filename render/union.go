package render

import "github.com/broady/apigen/typegraph"

// UnionForm is how a union is written at a use site.
type UnionForm int

const (
	// UnionOptional: the union is {T, null}; write T with the target's
	// optional marker.
	UnionOptional UnionForm = iota
	// UnionInline: write the alternation of members in place.
	UnionInline
	// UnionNamed: reference the union's standalone declaration.
	UnionNamed
)

func (f UnionForm) String() string {
	switch f {
	case UnionOptional:
		return "optional"
	case UnionInline:
		return "inline"
	default:
		return "named"
	}
}

// NormalizeUnion decides how u is written. A {T, null} union is always
// optional T, whatever inline says. Otherwise the union is inlined when
// inline is true and named when it is false. Targets that cannot express
// anonymous unions pass false.
//
// The returned node is T for UnionOptional and u itself otherwise.
func NormalizeUnion(u *typegraph.Union, inline bool) (UnionForm, typegraph.Node) {
	if t, ok := typegraph.NullableMember(u); ok {
		return UnionOptional, t
	}
	if inline {
		return UnionInline, u
	}
	return UnionNamed, u
}

// SplitNull returns u's members without Null, and whether Null was present.
func SplitNull(u *typegraph.Union) (members []typegraph.Node, hasNull bool) {
	for _, m := range u.Members {
		if m.Kind() == typegraph.KindNull {
			hasNull = true
			continue
		}
		members = append(members, m)
	}
	return members, hasNull
}

// Unwrap returns the type a property or use site is declared with and
// whether it is nullable: {T, null} unions become T.
func Unwrap(n typegraph.Node) (typegraph.Node, bool) {
	if u, ok := n.(*typegraph.Union); ok {
		if t, ok := typegraph.NullableMember(u); ok {
			return t, true
		}
	}
	return n, false
}

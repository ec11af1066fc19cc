package typegraph

import (
	"slices"

	"github.com/broady/apigen/schema"
)

// TypeSet is the ordered set of JSON types a schema node may take, as read
// from its "type" keyword and extended by attribute producers.
type TypeSet struct {
	types []string
}

// Add inserts t if not already present.
func (s *TypeSet) Add(t string) {
	if !s.Has(t) {
		s.types = append(s.types, t)
	}
}

// Has reports whether t is in the set.
func (s *TypeSet) Has(t string) bool {
	return slices.Contains(s.types, t)
}

// Types returns the members in insertion order.
func (s *TypeSet) Types() []string {
	return slices.Clone(s.types)
}

// Len returns the number of members.
func (s *TypeSet) Len() int { return len(s.types) }

// AttributeProducer is invoked for every schema node the builder ingests and
// may extend the node's candidate type set.
type AttributeProducer func(n *schema.Node, types *TypeSet)

// Nullable adds "null" to the candidate types of schemas marked
// `nullable: true`.
func Nullable(n *schema.Node, types *TypeSet) {
	if !n.IsObject() {
		return
	}
	if v, ok := n.Get("nullable").Bool(); ok && v {
		types.Add("null")
	}
}

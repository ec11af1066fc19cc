// Package typegraph holds the type graph every renderer consumes: a closed set
// of node kinds, an exhaustive matcher over them, and a builder that turns a
// named schema set into a graph.
package typegraph

import "fmt"

// Kind identifies a node variant.
type Kind int

const (
	KindAny Kind = iota
	KindNull
	KindBool
	KindInteger
	KindDouble
	KindString
	KindArray
	KindMap
	KindClass
	KindEnum
	KindUnion
)

var kindNames = [...]string{
	KindAny:     "Any",
	KindNull:    "Null",
	KindBool:    "Bool",
	KindInteger: "Integer",
	KindDouble:  "Double",
	KindString:  "String",
	KindArray:   "Array",
	KindMap:     "Map",
	KindClass:   "Class",
	KindEnum:    "Enum",
	KindUnion:   "Union",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is a type graph node.
// This is a sealed interface - only types in this package implement it.
type Node interface {
	Kind() Kind
	sealed()
}

// Named is implemented by the node kinds that are declared under a name:
// Class, Enum and Union.
type Named interface {
	Node
	// ProposedName is the name the builder assigned. Renderers obtain the
	// final identifier from an allocator.
	ProposedName() string
	// Description is the schema description, if any.
	Description() string
	// Seq is the builder's creation sequence number.
	Seq() int
}

// Primitive nodes carry no state and are shared.
var (
	AnyType     = &Any{}
	NullType    = &Null{}
	BoolType    = &Bool{}
	IntegerType = &Integer{}
	DoubleType  = &Double{}
	StringType  = &String{}
)

// Any is an unconstrained value.
type Any struct{}

// Null is the JSON null value.
type Null struct{}

// Bool is a JSON boolean.
type Bool struct{}

// Integer is a JSON number without a fractional part.
type Integer struct{}

// Double is a JSON number.
type Double struct{}

// String is a JSON string.
type String struct{}

// Array is a homogeneous list.
type Array struct {
	Items Node
}

// Map is an object with arbitrary keys and values of one type.
type Map struct {
	Values Node
}

// Class is an object with declared properties.
type Class struct {
	named
	Properties []Property
}

// Property is one declared class property.
type Property struct {
	Name        string
	Type        Node
	Optional    bool
	Description string
}

// Enum is a closed set of string values, in declaration order.
type Enum struct {
	named
	Cases []string
}

// Union is a choice between member types. Members are flattened and
// deduplicated; a union never directly contains another union.
type Union struct {
	named
	Members []Node
}

type named struct {
	name        string
	description string
	seq         int
}

func (n *named) ProposedName() string { return n.name }
func (n *named) Description() string  { return n.description }
func (n *named) Seq() int             { return n.seq }

func (*Any) Kind() Kind     { return KindAny }
func (*Null) Kind() Kind    { return KindNull }
func (*Bool) Kind() Kind    { return KindBool }
func (*Integer) Kind() Kind { return KindInteger }
func (*Double) Kind() Kind  { return KindDouble }
func (*String) Kind() Kind  { return KindString }
func (*Array) Kind() Kind   { return KindArray }
func (*Map) Kind() Kind     { return KindMap }
func (*Class) Kind() Kind   { return KindClass }
func (*Enum) Kind() Kind    { return KindEnum }
func (*Union) Kind() Kind   { return KindUnion }

func (*Any) sealed()     {}
func (*Null) sealed()    {}
func (*Bool) sealed()    {}
func (*Integer) sealed() {}
func (*Double) sealed()  {}
func (*String) sealed()  {}
func (*Array) sealed()   {}
func (*Map) sealed()     {}
func (*Class) sealed()   {}
func (*Enum) sealed()    {}
func (*Union) sealed()   {}

// NewClass creates a class node outside the builder, mainly for tests.
func NewClass(name string, props ...Property) *Class {
	return &Class{named: named{name: name}, Properties: props}
}

// NewEnum creates an enum node outside the builder.
func NewEnum(name string, cases ...string) *Enum {
	return &Enum{named: named{name: name}, Cases: cases}
}

// NewUnion creates a union node outside the builder. Members are used as given.
func NewUnion(name string, members ...Node) *Union {
	return &Union{named: named{name: name}, Members: members}
}

// NullableMember returns T when u is exactly {T, Null}.
func NullableMember(u *Union) (Node, bool) {
	if len(u.Members) != 2 {
		return nil, false
	}
	switch {
	case u.Members[0].Kind() == KindNull && u.Members[1].Kind() != KindNull:
		return u.Members[1], true
	case u.Members[1].Kind() == KindNull && u.Members[0].Kind() != KindNull:
		return u.Members[0], true
	}
	return nil, false
}

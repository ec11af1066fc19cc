package typegraph

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/broady/apigen/ir"
	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/schema"
)

// TopLevel is a named root of the graph, one per schema set entry.
type TopLevel struct {
	Name string
	Node Node
}

// Graph is the result of Build. It is read-only once built.
type Graph struct {
	TopLevels []TopLevel
	// Named lists every Class, Enum and Union node reachable from the top
	// levels, in creation order.
	Named []Named
}

// TopLevel returns the node registered under name.
func (g *Graph) TopLevel(name string) (Node, bool) {
	for _, t := range g.TopLevels {
		if t.Name == name {
			return t.Node, true
		}
	}
	return nil, false
}

// Option configures Build.
type Option func(*builder)

// WithAttributeProducers registers producers run on every ingested schema node.
func WithAttributeProducers(producers ...AttributeProducer) Option {
	return func(b *builder) {
		b.producers = append(b.producers, producers...)
	}
}

// Build turns a named schema set into a type graph. References inside the
// schemas are bare schema names (component prefixes already stripped).
func Build(set *ir.SchemaSet, opts ...Option) (*Graph, error) {
	b := &builder{
		set:     set,
		top:     make(map[string]Node),
		pending: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	g := &Graph{}
	for _, name := range set.Names() {
		n, err := b.topLevel(name)
		if err != nil {
			return nil, err
		}
		g.TopLevels = append(g.TopLevels, TopLevel{Name: name, Node: n})
	}
	g.Named = reachable(g.TopLevels)
	return g, nil
}

// reachable collects the named nodes reachable from the top levels, ordered
// by creation sequence. Intermediate unions folded into a parent are dropped.
func reachable(tops []TopLevel) []Named {
	seen := make(map[Node]bool)
	var out []Named
	var walk func(n Node)
	walk = func(n Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		switch n := n.(type) {
		case *Array:
			walk(n.Items)
		case *Map:
			walk(n.Values)
		case *Class:
			out = append(out, n)
			for _, p := range n.Properties {
				walk(p.Type)
			}
		case *Enum:
			out = append(out, n)
		case *Union:
			out = append(out, n)
			for _, m := range n.Members {
				walk(m)
			}
		}
	}
	for _, t := range tops {
		walk(t.Node)
	}
	slices.SortFunc(out, func(a, b Named) int { return cmp.Compare(a.Seq(), b.Seq()) })
	return out
}

type builder struct {
	set       *ir.SchemaSet
	producers []AttributeProducer

	top     map[string]Node
	pending map[string]bool
	named   []Named
}

func (b *builder) topLevel(name string) (Node, error) {
	if n, ok := b.top[name]; ok {
		return n, nil
	}
	s, ok := b.set.Get(name)
	if !ok {
		return nil, ir.Errorf(ir.CodeUnresolvedReference, "reference to unknown schema %q", name).WithSchema(name)
	}
	if b.pending[name] {
		return nil, ir.Errorf(ir.CodeUnresolvedReference, "circular reference to %s through a schema that is not an object", name).WithSchema(name)
	}
	b.pending[name] = true
	n, err := b.build(s, name, name)
	delete(b.pending, name)
	if err != nil {
		if e, ok := ir.AsError(err); ok {
			return nil, e.WithSchema(name)
		}
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	b.top[name] = n
	return n, nil
}

func (b *builder) nextSeq() int { return len(b.named) }

func (b *builder) newClass(name string, s *schema.Node, claim string) *Class {
	c := &Class{named: named{name: name, description: s.Get("description").Str(), seq: b.nextSeq()}}
	b.named = append(b.named, c)
	if claim != "" {
		b.top[claim] = c
	}
	return c
}

func (b *builder) newEnum(name string, s *schema.Node, cases []string) *Enum {
	e := &Enum{named: named{name: name, description: s.Get("description").Str(), seq: b.nextSeq()}, Cases: cases}
	b.named = append(b.named, e)
	return e
}

func (b *builder) newUnion(name string, s *schema.Node, members []Node) *Union {
	u := &Union{named: named{name: name, description: s.Get("description").Str(), seq: b.nextSeq()}, Members: members}
	b.named = append(b.named, u)
	return u
}

// types reads the type keyword and runs the attribute producers.
func (b *builder) types(s *schema.Node) *TypeSet {
	ts := &TypeSet{}
	t := s.Get("type")
	switch {
	case t.IsArray():
		for _, v := range t.Strings() {
			ts.Add(v)
		}
	case t.Kind() == schema.KindString:
		ts.Add(t.Str())
	}
	for _, p := range b.producers {
		p(s, ts)
	}
	return ts
}

// build maps s to a node. hint is the proposed name for any named node s
// produces. claim, when set, is the top-level name whose node is registered
// as soon as it exists so recursive references through it terminate.
func (b *builder) build(s *schema.Node, hint, claim string) (Node, error) {
	if s.Kind() == schema.KindBool {
		// JSON Schema boolean form: true accepts anything.
		return AnyType, nil
	}
	if !s.IsObject() {
		return AnyType, nil
	}
	ts := b.types(s)
	nullable := ts.Has("null")

	if ref := s.Ref(); ref != "" {
		target, err := b.topLevel(refName(ref))
		if err != nil {
			return nil, err
		}
		return b.withNull(target, nullable, hint, s), nil
	}

	if all := s.Get("allOf"); all.Len() > 0 {
		c := b.newClass(hint, s, claim)
		if err := b.mergeAllOf(c, s, hint); err != nil {
			return nil, err
		}
		return b.withNull(c, nullable, hint, s), nil
	}

	var alts []*schema.Node
	alts = append(alts, s.Get("oneOf").Items()...)
	alts = append(alts, s.Get("anyOf").Items()...)
	if len(alts) > 0 {
		var members []Node
		for _, alt := range alts {
			m, err := b.build(alt, hint, "")
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		if nullable {
			members = append(members, NullType)
		}
		return b.union(hint, s, members), nil
	}

	if enum := s.Get("enum"); enum.Len() > 0 && !ts.Has("integer") && !ts.Has("number") && !ts.Has("boolean") {
		var values []string
		hasNull := nullable
		for _, v := range enum.Items() {
			switch v.Kind() {
			case schema.KindString:
				if !containsString(values, v.Str()) {
					values = append(values, v.Str())
				}
			case schema.KindNull:
				hasNull = true
			}
		}
		if len(values) > 0 {
			return b.withNull(b.newEnum(hint, s, values), hasNull, hint, s), nil
		}
	}

	var types []string
	for _, t := range ts.Types() {
		if t != "null" {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		types = []string{""}
	}
	if len(types) == 1 {
		n, err := b.single(types[0], s, hint, claim)
		if err != nil {
			return nil, err
		}
		return b.withNull(n, nullable, hint, s), nil
	}
	if nullable {
		types = append(types, "null")
	}
	var members []Node
	for _, t := range types {
		m, err := b.single(t, s, hint, "")
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return b.union(hint, s, members), nil
}

// single maps s as the JSON type t. An empty t means the schema declares no type.
func (b *builder) single(t string, s *schema.Node, hint, claim string) (Node, error) {
	switch t {
	case "null":
		return NullType, nil
	case "boolean":
		return BoolType, nil
	case "integer":
		return IntegerType, nil
	case "number":
		return DoubleType, nil
	case "string":
		return StringType, nil
	case "array":
		items := s.Get("items")
		if items == nil {
			return &Array{Items: AnyType}, nil
		}
		n, err := b.build(items, hint, "")
		if err != nil {
			return nil, err
		}
		return &Array{Items: n}, nil
	case "object":
		return b.object(s, hint, claim)
	case "":
		if s.Has("properties") {
			return b.object(s, hint, claim)
		}
		return AnyType, nil
	}
	return nil, ir.Errorf(ir.CodeTypeMapping, "unsupported type %q", t)
}

func (b *builder) object(s *schema.Node, hint, claim string) (Node, error) {
	props := s.Get("properties")
	ap := s.Get("additionalProperties")
	if props.Len() == 0 {
		if v, ok := ap.Bool(); ok && !v {
			return b.newClass(hint, s, claim), nil
		}
		if ap.IsObject() {
			values, err := b.build(ap, hint+"Value", "")
			if err != nil {
				return nil, err
			}
			return &Map{Values: values}, nil
		}
		return &Map{Values: AnyType}, nil
	}
	c := b.newClass(hint, s, claim)
	if err := b.addProperties(c, s, hint); err != nil {
		return nil, err
	}
	return c, nil
}

func (b *builder) addProperties(c *Class, s *schema.Node, hint string) error {
	required := s.Get("required").Strings()
	props := s.Get("properties")
	for _, key := range props.Keys() {
		p := props.Get(key)
		t, err := b.build(p, hint+naming.Pascal(key), "")
		if err != nil {
			return fmt.Errorf("property %s: %w", key, err)
		}
		prop := Property{
			Name:        key,
			Type:        t,
			Optional:    !containsString(required, key),
			Description: p.Get("description").Str(),
		}
		if i := propertyIndex(c.Properties, key); i >= 0 {
			// A later allOf member overrides an earlier declaration.
			prop.Optional = prop.Optional && c.Properties[i].Optional
			c.Properties[i] = prop
			continue
		}
		c.Properties = append(c.Properties, prop)
	}
	for _, key := range required {
		if i := propertyIndex(c.Properties, key); i >= 0 {
			c.Properties[i].Optional = false
		}
	}
	return nil
}

// mergeAllOf folds the properties of every allOf member, and of s itself,
// into c. Referenced members contribute their declared properties.
func (b *builder) mergeAllOf(c *Class, s *schema.Node, hint string) error {
	seen := make(map[string]bool)
	var merge func(n *schema.Node) error
	merge = func(n *schema.Node) error {
		if ref := n.Ref(); ref != "" {
			name := refName(ref)
			if seen[name] {
				return nil
			}
			seen[name] = true
			target, ok := b.set.Get(name)
			if !ok {
				return ir.Errorf(ir.CodeUnresolvedReference, "reference to unknown schema %q", name)
			}
			return merge(target)
		}
		for _, member := range n.Get("allOf").Items() {
			if err := merge(member); err != nil {
				return err
			}
		}
		return b.addProperties(c, n, hint)
	}
	return merge(s)
}

// union flattens, deduplicates and collapses members.
func (b *builder) union(hint string, s *schema.Node, members []Node) Node {
	var flat []Node
	add := func(n Node) {
		for _, m := range flat {
			if m == n {
				return
			}
		}
		flat = append(flat, n)
	}
	for _, m := range members {
		if u, ok := m.(*Union); ok {
			for _, inner := range u.Members {
				add(inner)
			}
			continue
		}
		add(m)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return b.newUnion(hint, s, flat)
}

func (b *builder) withNull(n Node, nullable bool, hint string, s *schema.Node) Node {
	if !nullable {
		return n
	}
	return b.union(hint, s, []Node{n, NullType})
}

// refName returns the schema name a reference points at. References are
// normally bare names; any remaining pointer prefix is dropped.
func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func propertyIndex(props []Property, name string) int {
	for i, p := range props {
		if p.Name == name {
			return i
		}
	}
	return -1
}

package ir

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/broady/apigen/schema"
)

// Origin records how a schema entered a SchemaSet.
type Origin int

const (
	// OriginComponent is a schema declared under components.schemas.
	OriginComponent Origin = iota
	// OriginSynthesized is a schema created for an anonymous request or response body.
	OriginSynthesized
)

func (o Origin) String() string {
	if o == OriginSynthesized {
		return "synthesized"
	}
	return "component"
}

// NamedSchema is one entry of a SchemaSet.
type NamedSchema struct {
	Name   string
	Schema *schema.Node
	Origin Origin
}

// SchemaSet is an insertion-ordered mapping from schema name to definition.
// A SchemaSet belongs to a single document pipeline and is not safe for
// concurrent use.
type SchemaSet struct {
	entries []NamedSchema
	index   map[string]int
}

var _ json.MarshalerTo = (*SchemaSet)(nil)

// NewSchemaSet returns an empty set.
func NewSchemaSet() *SchemaSet {
	return &SchemaSet{index: make(map[string]int)}
}

// Add registers node under name. Registering a structurally identical schema
// under an existing name is a no-op. Registering a different schema under an
// existing name fails with CodeNameCollision.
func (s *SchemaSet) Add(name string, node *schema.Node, origin Origin) error {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[name]; ok {
		prev := s.entries[i]
		if prev.Schema.Equal(node) {
			return nil
		}
		return &Error{
			Code:    CodeNameCollision,
			Schema:  name,
			Message: "schema " + name + " is already registered (" + prev.Origin.String() + ") with a different definition",
		}
	}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, NamedSchema{Name: name, Schema: node, Origin: origin})
	return nil
}

// Get returns the schema registered under name.
func (s *SchemaSet) Get(name string) (*schema.Node, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.entries[i].Schema, true
}

// Has reports whether name is registered.
func (s *SchemaSet) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Len returns the number of registered schemas.
func (s *SchemaSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Names returns the registered names in insertion order.
func (s *SchemaSet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the entries in insertion order.
func (s *SchemaSet) Entries() []NamedSchema {
	if s == nil {
		return nil
	}
	out := make([]NamedSchema, len(s.entries))
	copy(out, s.entries)
	return out
}

// MarshalJSONTo writes the set as a JSON object in insertion order.
func (s *SchemaSet) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if s != nil {
		for _, e := range s.entries {
			if err := enc.WriteToken(jsontext.String(e.Name)); err != nil {
				return err
			}
			if err := e.Schema.MarshalJSONTo(enc); err != nil {
				return err
			}
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

package openapi

import (
	"github.com/broady/apigen/ir"
	"github.com/broady/apigen/schema"
)

// MapType reduces a schema to a TypeDescriptor. It returns nil, nil when the
// schema adds no type information: a missing schema, an array without items,
// or an object that declares no properties and forbids additional ones.
// Schemas without a recognized type fall back to def.
//
// The returned descriptor's IsRequired is false; callers set presence.
func MapType(n *schema.Node, r *Resolver, def ir.Primitive) (*ir.TypeDescriptor, error) {
	if n == nil {
		return nil, nil
	}
	if ref := n.Ref(); ref != "" {
		target, err := r.Resolve(ref)
		if err != nil {
			return nil, err
		}
		if isObjectSchema(target) {
			// The object's shape is the type graph's business.
			return &ir.TypeDescriptor{
				Primitive: ir.PrimitiveObject,
				TypeName:  refName(ref),
				Schema:    n,
			}, nil
		}
		n = target
	}

	switch schemaType(n) {
	case "array":
		items := n.Get("items")
		inner, err := MapType(items, r, ir.PrimitiveObject)
		if err != nil || inner == nil {
			return nil, err
		}
		if inner.IsArray {
			// Nested arrays are not representable by a single descriptor.
			// They become an anonymous object carrying the whole array schema,
			// which bodies synthesize into a named type of full depth.
			return &ir.TypeDescriptor{Primitive: ir.PrimitiveObject, Schema: n}, nil
		}
		return &ir.TypeDescriptor{
			Primitive: inner.Primitive,
			TypeName:  inner.TypeName,
			IsArray:   true,
			Schema:    n,
		}, nil
	case "integer":
		return &ir.TypeDescriptor{Primitive: ir.PrimitiveInteger, Schema: n}, nil
	case "number":
		return &ir.TypeDescriptor{Primitive: ir.PrimitiveNumber, Schema: n}, nil
	case "boolean":
		return &ir.TypeDescriptor{Primitive: ir.PrimitiveBoolean, Schema: n}, nil
	case "string":
		return &ir.TypeDescriptor{Primitive: ir.PrimitiveString, Schema: n}, nil
	case "object":
		if n.Get("properties").Len() == 0 {
			if v, ok := n.Get("additionalProperties").Bool(); ok && !v {
				// An empty marker type.
				return nil, nil
			}
			return &ir.TypeDescriptor{Primitive: ir.PrimitiveUnknownRecord, Schema: n}, nil
		}
		return &ir.TypeDescriptor{Primitive: ir.PrimitiveObject, Schema: n}, nil
	}
	return &ir.TypeDescriptor{Primitive: def, Schema: n}, nil
}

// schemaType returns the single JSON type of n. A type list is reduced to its
// only non-null member; anything else yields "".
func schemaType(n *schema.Node) string {
	t := n.Get("type")
	if t.Kind() == schema.KindString {
		return t.Str()
	}
	var found string
	for _, v := range t.Strings() {
		if v == "null" {
			continue
		}
		if found != "" {
			return ""
		}
		found = v
	}
	return found
}

// isObjectSchema reports whether a referenced schema declares an object:
// either `type: object`, or no type with properties or an allOf composition.
func isObjectSchema(n *schema.Node) bool {
	switch schemaType(n) {
	case "object":
		return true
	case "":
		return !n.Has("type") && (n.Has("properties") || n.Has("allOf"))
	}
	return false
}

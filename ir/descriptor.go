// Package ir defines the intermediate representation extracted from an API
// document: routes, their parameter and body descriptors, and the named schema
// set handed to the type graph builder.
package ir

import (
	"github.com/broady/apigen/schema"
)

// Primitive is the front-end's coarse classification of a schema.
type Primitive string

const (
	PrimitiveString  Primitive = "string"
	PrimitiveNumber  Primitive = "number"
	PrimitiveInteger Primitive = "integer"
	PrimitiveBoolean Primitive = "boolean"
	PrimitiveObject  Primitive = "object"
	// PrimitiveUnknownRecord is an open key-value bag with no declared properties.
	PrimitiveUnknownRecord Primitive = "unknown_record"
)

// IsScalar reports whether p maps directly onto a target language primitive.
func (p Primitive) IsScalar() bool {
	switch p {
	case PrimitiveString, PrimitiveNumber, PrimitiveInteger, PrimitiveBoolean:
		return true
	}
	return false
}

// TypeDescriptor summarizes the type of a parameter or body.
//
// Arrays are represented by wrapping: an array of X carries X's Primitive and
// TypeName with IsArray set. Only one level of array is represented.
type TypeDescriptor struct {
	Primitive Primitive `json:"primitive"`

	// TypeName is set iff the descriptor refers to a named object schema.
	TypeName string `json:"typeName,omitempty"`

	IsArray bool `json:"isArray"`

	// IsRequired is the presence contract. Nullability lives in the schema.
	IsRequired bool `json:"isRequired"`

	// Schema is the resolved schema node the descriptor was built from.
	Schema *schema.Node `json:"schema,omitempty"`
}

// IsAnonymousObject reports whether d is an inline object that must be
// synthesized into a named schema before rendering.
func (d *TypeDescriptor) IsAnonymousObject() bool {
	return d != nil && d.Primitive == PrimitiveObject && d.TypeName == ""
}

// Required returns a copy of d with IsRequired set.
func (d TypeDescriptor) Required(required bool) *TypeDescriptor {
	d.IsRequired = required
	return &d
}

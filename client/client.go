// Package client assembles per-route method descriptors that the target
// renderers turn into API client source.
package client

import (
	"fmt"
	"regexp"

	"github.com/broady/apigen/ir"
)

// Spec is the target-agnostic description of one generated client.
type Spec struct {
	// Prefix names the client and its types file, e.g. "Widgets".
	Prefix  string
	Methods []Method
}

// Method is one client method, derived from a route.
type Method struct {
	// Name is the route name; targets apply their own casing.
	Name        string
	OperationID string

	Path       string
	HTTPMethod ir.Method
	// Placeholders lists the {name} segments of Path in order.
	Placeholders []string

	PathParams  []Param
	QueryParams []Param

	Request  *TypeRef
	Response *TypeRef

	Summary    string
	Deprecated bool
}

// Params returns path parameters followed by query parameters.
func (m *Method) Params() []Param {
	out := make([]Param, 0, len(m.PathParams)+len(m.QueryParams))
	out = append(out, m.PathParams...)
	return append(out, m.QueryParams...)
}

// Param is a named path or query parameter.
type Param struct {
	Name string
	Type TypeRef
}

// TypeRef is the client's view of a type: either a primitive or a reference
// to a declared type by its schema name.
type TypeRef struct {
	Primitive ir.Primitive
	// Name is the schema name for non-primitive references.
	Name        string
	IsArray     bool
	IsOptional  bool
	IsPrimitive bool
}

var placeholderRE = regexp.MustCompile(`\{([^{}]+)\}`)

// Placeholders returns the {name} segments of a path template in order.
func Placeholders(path string) []string {
	var out []string
	for _, m := range placeholderRE.FindAllStringSubmatch(path, -1) {
		out = append(out, m[1])
	}
	return out
}

// Assemble builds the client spec for doc. set must be the collected schema
// set the types file is rendered from; every non-primitive reference is
// checked against it.
func Assemble(prefix string, doc *ir.Document, set *ir.SchemaSet) (*Spec, error) {
	spec := &Spec{Prefix: prefix}
	for _, r := range doc.Routes {
		m, err := assembleMethod(r, set)
		if err != nil {
			return nil, ir.AnnotateRoute(err, r.Path, string(r.Method))
		}
		spec.Methods = append(spec.Methods, m)
	}
	return spec, nil
}

func assembleMethod(r *ir.Route, set *ir.SchemaSet) (Method, error) {
	m := Method{
		Name:         r.Name,
		OperationID:  r.OperationID,
		Path:         r.Path,
		HTTPMethod:   r.Method,
		Placeholders: Placeholders(r.Path),
		Summary:      r.Summary,
		Deprecated:   r.Deprecated,
	}
	var err error
	if m.PathParams, err = params(r.PathParameters, set); err != nil {
		return Method{}, err
	}
	if m.QueryParams, err = params(r.QueryParameters, set); err != nil {
		return Method{}, err
	}
	if m.Request, err = body(r.Request, r.RequestBodyName(), set); err != nil {
		return Method{}, fmt.Errorf("request body: %w", err)
	}
	if m.Response, err = body(r.Response, r.ResponseBodyName(), set); err != nil {
		return Method{}, fmt.Errorf("response body: %w", err)
	}
	return m, nil
}

func params(in []ir.Parameter, set *ir.SchemaSet) ([]Param, error) {
	out := make([]Param, 0, len(in))
	for _, p := range in {
		if p.Type.IsAnonymousObject() {
			if p.Type.Schema.Get("items") != nil {
				// MapType folds arrays of arrays into an anonymous object.
				return nil, ir.Errorf(ir.CodeTypeMapping, "parameter %s is a nested array, which a parameter cannot carry", p.Name)
			}
			return nil, ir.Errorf(ir.CodeTypeMapping, "parameter %s is an inline object, which has no declared type", p.Name)
		}
		ref, err := typeRef(p.Type, set)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		out = append(out, Param{Name: p.Name, Type: ref})
	}
	return out, nil
}

// body maps a request or response descriptor. Anonymous object bodies refer
// to the schema synthesized for them, which must have been registered.
func body(d *ir.TypeDescriptor, synthesized string, set *ir.SchemaSet) (*TypeRef, error) {
	if d == nil {
		return nil, nil
	}
	if d.IsAnonymousObject() {
		if !set.Has(synthesized) {
			return nil, ir.Errorf(ir.CodeUnregisteredSynthesizedType, "type %s was never registered", synthesized).WithSchema(synthesized)
		}
		return &TypeRef{
			Primitive:  ir.PrimitiveObject,
			Name:       synthesized,
			IsOptional: !d.IsRequired,
		}, nil
	}
	ref, err := typeRef(d, set)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func typeRef(d *ir.TypeDescriptor, set *ir.SchemaSet) (TypeRef, error) {
	ref := TypeRef{
		Primitive:   d.Primitive,
		Name:        d.TypeName,
		IsArray:     d.IsArray,
		IsOptional:  !d.IsRequired,
		IsPrimitive: d.TypeName == "",
	}
	if d.TypeName != "" && !set.Has(d.TypeName) {
		return TypeRef{}, ir.Errorf(ir.CodeTypeMapping, "reference to undeclared type %s", d.TypeName).WithSchema(d.TypeName)
	}
	return ref, nil
}

package openapi

import (
	"github.com/broady/apigen/ir"
)

// Collect builds the named schema set the type graph is built from: the
// component schemas in declaration order, then one synthesized schema per
// anonymous object body in route order, request before response. Component
// schema reference prefixes are stripped from every registered schema.
//
// Registering an identical schema twice under one name is a no-op; two
// different schemas under one name fail with ir.CodeNameCollision.
func Collect(doc *ir.Document) (*ir.SchemaSet, error) {
	set := ir.NewSchemaSet()
	for _, e := range doc.Schemas.Entries() {
		if err := set.Add(e.Name, e.Schema.RewriteRefs(ComponentSchemaPrefix), ir.OriginComponent); err != nil {
			return nil, err
		}
	}
	for _, r := range doc.Routes {
		if err := synthesize(set, r.Request, r.RequestBodyName()); err != nil {
			return nil, ir.AnnotateRoute(err, r.Path, string(r.Method))
		}
		if err := synthesize(set, r.Response, r.ResponseBodyName()); err != nil {
			return nil, ir.AnnotateRoute(err, r.Path, string(r.Method))
		}
	}
	return set, nil
}

func synthesize(set *ir.SchemaSet, d *ir.TypeDescriptor, name string) error {
	if !d.IsAnonymousObject() {
		return nil
	}
	return set.Add(name, d.Schema.RewriteRefs(ComponentSchemaPrefix), ir.OriginSynthesized)
}

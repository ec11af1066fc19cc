package openapi

import (
	"fmt"
	"strings"

	"github.com/broady/apigen/ir"
	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/schema"
)

// Extract walks the document's paths and builds one route per operation.
// Routes follow path declaration order, then ir.Methods order within a path.
// The first failing operation aborts extraction with an error naming its path
// and method.
func Extract(src *Source) (*ir.Document, error) {
	x := &extractor{res: NewResolver(src.Root)}
	doc, err := x.extract(src.Root)
	if err != nil {
		return nil, ir.AnnotateDocument(err, src.Path)
	}
	return doc, nil
}

type extractor struct {
	res *Resolver
}

func (x *extractor) extract(root *schema.Node) (*ir.Document, error) {
	doc := &ir.Document{Routes: []*ir.Route{}, Schemas: ir.NewSchemaSet()}

	byName := make(map[string]*ir.Route)
	paths := root.Get("paths")
	for _, path := range paths.Keys() {
		item, err := x.res.Deref(paths.Get(path))
		if err != nil {
			return nil, ir.AnnotateRoute(err, path, "")
		}
		for _, method := range ir.Methods {
			op := item.Get(string(method))
			if op == nil {
				continue
			}
			route, err := x.route(path, method, item, op)
			if err != nil {
				return nil, ir.AnnotateRoute(err, path, string(method))
			}
			if prev, ok := byName[route.Name]; ok {
				return nil, ir.Errorf(ir.CodeNameCollision,
					"operation %q derives route name %s, already used by %s %s",
					route.OperationID, route.Name, strings.ToUpper(string(prev.Method)), prev.Path,
				).WithRoute(path, string(method))
			}
			byName[route.Name] = route
			doc.Routes = append(doc.Routes, route)
		}
	}

	schemas := root.Get("components").Get("schemas")
	for _, name := range schemas.Keys() {
		if err := doc.Schemas.Add(name, schemas.Get(name), ir.OriginComponent); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (x *extractor) route(path string, method ir.Method, item, op *schema.Node) (*ir.Route, error) {
	opID := op.Get("operationId").Str()
	if opID == "" {
		return nil, ir.NewError(ir.CodeMissingOperationID, "operation has no operationId")
	}
	r := &ir.Route{
		Name:        naming.Pascal(opID),
		OperationID: opID,
		Path:        path,
		Method:      method,
		Summary:     op.Get("summary").Str(),
	}
	if r.Name == "" {
		return nil, ir.Errorf(ir.CodeMissingOperationID, "operationId %q has no usable characters", opID)
	}
	if v, ok := op.Get("deprecated").Bool(); ok {
		r.Deprecated = v
	}

	var err error
	if r.PathParameters, r.QueryParameters, err = x.parameters(item, op); err != nil {
		return nil, err
	}

	reqBody, err := x.res.Deref(op.Get("requestBody"))
	if err != nil {
		return nil, fmt.Errorf("request body: %w", err)
	}
	if r.Request, err = x.body(reqBody); err != nil {
		return nil, fmt.Errorf("request body: %w", err)
	}

	// The first declared response is the response type, whatever its status.
	responses := op.Get("responses")
	if keys := responses.Keys(); len(keys) > 0 {
		resp, err := x.res.Deref(responses.Get(keys[0]))
		if err != nil {
			return nil, fmt.Errorf("response %s: %w", keys[0], err)
		}
		if r.Response, err = x.body(resp); err != nil {
			return nil, fmt.Errorf("response %s: %w", keys[0], err)
		}
	}
	return r, nil
}

// parameters combines path item and operation parameters, in that order,
// and partitions them by location. Header and cookie parameters are dropped.
func (x *extractor) parameters(item, op *schema.Node) (pathParams, queryParams []ir.Parameter, err error) {
	pathParams = []ir.Parameter{}
	queryParams = []ir.Parameter{}

	combined := append(item.Get("parameters").Items(), op.Get("parameters").Items()...)
	for _, raw := range combined {
		p, err := x.res.Deref(raw)
		if err != nil {
			return nil, nil, err
		}
		name := p.Get("name").Str()
		in := p.Get("in").Str()
		if in != "path" && in != "query" {
			continue
		}
		d, err := MapType(p.Get("schema"), x.res, ir.PrimitiveString)
		if err != nil {
			return nil, nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		if d == nil {
			return nil, nil, ir.Errorf(ir.CodeTypeMapping, "parameter %s has no usable type", name)
		}
		required := true
		if v, ok := p.Get("required").Bool(); ok && in != "path" {
			required = v
		}
		param := ir.Parameter{Name: name, Type: d.Required(required)}
		if in == "path" {
			pathParams = append(pathParams, param)
		} else {
			queryParams = append(queryParams, param)
		}
	}
	return pathParams, queryParams, nil
}

// body maps a request body or response object. Bodies are required unless
// they say otherwise.
func (x *extractor) body(b *schema.Node) (*ir.TypeDescriptor, error) {
	if b == nil {
		return nil, nil
	}
	media := jsonMedia(b.Get("content"))
	if media == nil {
		return nil, nil
	}
	d, err := MapType(media.Get("schema"), x.res, ir.PrimitiveObject)
	if err != nil || d == nil {
		return nil, err
	}
	required := true
	if v, ok := b.Get("required").Bool(); ok {
		required = v
	}
	return d.Required(required), nil
}

// jsonMedia picks application/json, or else the first JSON-suffixed media type.
func jsonMedia(content *schema.Node) *schema.Node {
	if m := content.Get("application/json"); m != nil {
		return m
	}
	for _, key := range content.Keys() {
		mt := strings.ToLower(strings.TrimSpace(strings.SplitN(key, ";", 2)[0]))
		if strings.HasSuffix(mt, "+json") || strings.HasSuffix(mt, "/json") {
			return content.Get(key)
		}
	}
	return nil
}

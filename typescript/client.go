package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/broady/apigen/client"
	"github.com/broady/apigen/ir"
	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/render"
)

//go:embed templates/*.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "templates/*.tmpl"))

type clientData struct {
	Prefix  string
	Methods []methodData
}

type methodData struct {
	Name        string
	Doc         []string
	Args        []string
	Response    string
	HasResponse bool
	PathExpr    string
	HTTPMethod  string
	Query       []string
	Body        bool
}

func renderClient(spec *client.Spec, names *render.Allocator, opts Options) ([]byte, error) {
	data := clientData{Prefix: spec.Prefix}
	for i := range spec.Methods {
		m, err := method(&spec.Methods[i], names, opts)
		if err != nil {
			return nil, ir.AnnotateRoute(err, spec.Methods[i].Path, string(spec.Methods[i].HTTPMethod))
		}
		data.Methods = append(data.Methods, m)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "client.ts.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func renderIndex(apiNames []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "index.ts.tmpl", apiNames); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func method(m *client.Method, names *render.Allocator, opts Options) (methodData, error) {
	md := methodData{
		Name:       render.Sanitize(naming.Camel(m.Name), reservedWords),
		Response:   "void",
		HTTPMethod: string(m.HTTPMethod),
	}
	if opts.Comments {
		if m.Summary != "" {
			md.Doc = append(md.Doc, strings.Split(strings.TrimSpace(m.Summary), "\n")...)
		}
		if m.Deprecated {
			md.Doc = append(md.Doc, "@deprecated")
		}
	}

	// Path and query parameters share one destructured bag. A query
	// parameter named like a path parameter moves to a separate query bag.
	taken := map[string]bool{"body": true, "config": true, "path": true, "result": true, "query": true}
	isPath := make(map[string]bool, len(m.PathParams))
	pathLocals := make(map[string]string, len(m.PathParams))
	types := make(map[string]string, len(m.PathParams))
	var keys, fields, queryFields []string
	bind := func(p client.Param, t string) string {
		local := unique(variable(p.Name), taken)
		if key := propertyKey(p.Name); key == local {
			keys = append(keys, local)
		} else {
			keys = append(keys, key+": "+local)
		}
		fields = append(fields, field(p, t))
		return local
	}
	for _, p := range m.PathParams {
		t, err := refType(p.Type, names)
		if err != nil {
			return methodData{}, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		isPath[p.Name] = true
		pathLocals[p.Name], types[p.Name] = bind(p, t), t
	}
	for _, p := range m.QueryParams {
		t, err := refType(p.Type, names)
		if err != nil {
			return methodData{}, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		key := propertyKey(p.Name)
		var value string
		if isPath[p.Name] {
			queryFields = append(queryFields, field(p, t))
			value = "query" + member(p.Name)
		} else {
			value = bind(p, t)
		}
		if key == value {
			md.Query = append(md.Query, value)
		} else {
			md.Query = append(md.Query, key+": "+value)
		}
	}
	if len(keys) > 0 {
		md.Args = append(md.Args, "{ "+strings.Join(keys, ", ")+" }: { "+strings.Join(fields, "; ")+" }")
	}
	if len(queryFields) > 0 {
		md.Args = append(md.Args, "query: { "+strings.Join(queryFields, "; ")+" }")
	}

	if m.Request != nil {
		t, err := refType(*m.Request, names)
		if err != nil {
			return methodData{}, fmt.Errorf("request body: %w", err)
		}
		mark := ""
		if m.Request.IsOptional {
			mark = "?"
		}
		md.Args = append(md.Args, "body"+mark+": "+t)
		md.Body = true
	}
	if m.Response != nil {
		t, err := refType(*m.Response, names)
		if err != nil {
			return methodData{}, fmt.Errorf("response body: %w", err)
		}
		md.Response, md.HasResponse = t, true
	}

	md.PathExpr = quote(m.Path)
	for _, name := range m.Placeholders {
		local, ok := pathLocals[name]
		if !ok {
			continue
		}
		value := local
		if types[name] != "string" {
			value = "String(" + local + ")"
		}
		md.PathExpr += ".replace(" + quote("{"+name+"}") + ", " + value + ")"
	}
	return md, nil
}

// field writes the type literal member for p.
func field(p client.Param, t string) string {
	if p.Type.IsOptional {
		return propertyKey(p.Name) + "?: " + t
	}
	return propertyKey(p.Name) + ": " + t
}

// member writes a property access for name.
func member(name string) string {
	if needsQuoting(name) {
		return "[" + quote(name) + "]"
	}
	return "." + name
}

func unique(name string, taken map[string]bool) string {
	candidate := name
	for i := 2; taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	taken[candidate] = true
	return candidate
}

// refType writes a client type reference. Declared types are qualified with
// the Types module import.
func refType(r client.TypeRef, names *render.Allocator) (string, error) {
	var t string
	if r.IsPrimitive {
		t = primitive(r.Primitive)
	} else {
		name, ok := names.TopLevelName(r.Name)
		if !ok {
			return "", ir.Errorf(ir.CodeTypeMapping, "type %s is not declared", r.Name).WithSchema(r.Name)
		}
		t = "Types." + name
	}
	if r.IsArray {
		t += "[]"
	}
	return t, nil
}

func primitive(p ir.Primitive) string {
	switch p {
	case ir.PrimitiveString:
		return "string"
	case ir.PrimitiveNumber, ir.PrimitiveInteger:
		return "number"
	case ir.PrimitiveBoolean:
		return "boolean"
	default:
		return "Record<string, unknown>"
	}
}

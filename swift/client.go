package swift

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/broady/apigen/client"
	"github.com/broady/apigen/ir"
	"github.com/broady/apigen/render"
)

//go:embed templates/client.swift.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "templates/client.swift.tmpl"))

type clientData struct {
	Access  string
	Prefix  string
	Methods []methodData

	usesAny bool
}

type methodData struct {
	Name       string
	Doc        []string
	Deprecated bool
	Args       string
	Response   string
	Lines      []string
}

func newClientData(spec *client.Spec, names *render.Allocator, opts Options) (*clientData, error) {
	c := &clientData{Access: accessPrefix(opts.AccessLevel), Prefix: spec.Prefix}
	for i := range spec.Methods {
		m, err := c.method(&spec.Methods[i], names, opts)
		if err != nil {
			return nil, ir.AnnotateRoute(err, spec.Methods[i].Path, string(spec.Methods[i].HTTPMethod))
		}
		c.Methods = append(c.Methods, m)
	}
	return c, nil
}

func (c *clientData) render() ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "client.swift.tmpl", c); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *clientData) method(m *client.Method, names *render.Allocator, opts Options) (methodData, error) {
	md := methodData{Name: member(m.Name), Deprecated: m.Deprecated}
	if opts.Comments && m.Summary != "" {
		md.Doc = strings.Split(strings.TrimSpace(m.Summary), "\n")
	}

	taken := map[string]bool{"body": m.Request != nil, "path": true, "query": true, "data": true}
	// A path and a query parameter may share a name, so each location
	// keeps its own locals.
	pathLocals := make(map[string]string, len(m.PathParams))
	queryLocals := make(map[string]string, len(m.QueryParams))
	var args []string
	for i, p := range m.Params() {
		t, err := c.refType(p.Type, names)
		if err != nil {
			return methodData{}, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		local := unique(member(p.Name), taken)
		if i < len(m.PathParams) {
			pathLocals[p.Name] = local
		} else {
			queryLocals[p.Name] = local
		}
		if p.Type.IsOptional {
			args = append(args, local+": "+t+"? = nil")
		} else {
			args = append(args, local+": "+t)
		}
	}

	body := "nil"
	if m.Request != nil {
		t, err := c.refType(*m.Request, names)
		if err != nil {
			return methodData{}, fmt.Errorf("request body: %w", err)
		}
		if m.Request.IsOptional {
			args = append(args, "body: "+t+"? = nil")
			body = "try body.map { try encoder.encode($0) }"
		} else {
			args = append(args, "body: "+t)
			body = "try encoder.encode(body)"
		}
	}
	md.Args = strings.Join(args, ", ")

	if m.Response != nil {
		t, err := c.refType(*m.Response, names)
		if err != nil {
			return methodData{}, fmt.Errorf("response body: %w", err)
		}
		md.Response = t
	}

	var replace []string
	for _, name := range m.Placeholders {
		if local, ok := pathLocals[name]; ok {
			replace = append(replace, "path = path.replacingOccurrences(of: "+strconv.Quote("{"+name+"}")+", with: \"\\("+local+")\")")
		}
	}
	if len(replace) > 0 {
		md.Lines = append(md.Lines, "var path = "+strconv.Quote(m.Path))
		md.Lines = append(md.Lines, replace...)
	} else {
		md.Lines = append(md.Lines, "let path = "+strconv.Quote(m.Path))
	}

	md.Lines = append(md.Lines, "var query: [URLQueryItem] = []")
	for _, p := range m.QueryParams {
		local, key := queryLocals[p.Name], strconv.Quote(p.Name)
		appendItem := "query.append(URLQueryItem(name: " + key + ", value: \"\\(" + local + ")\"))"
		if p.Type.IsArray {
			appendItem = "for item in " + local + " { query.append(URLQueryItem(name: " + key + ", value: \"\\(item)\")) }"
		}
		if p.Type.IsOptional {
			md.Lines = append(md.Lines, "if let "+local+" {", "    "+appendItem, "}")
		} else {
			md.Lines = append(md.Lines, appendItem)
		}
	}

	send := "try await send(method: " + strconv.Quote(strings.ToUpper(string(m.HTTPMethod))) + ", path: path, query: query, body: " + body + ")"
	if md.Response != "" {
		md.Lines = append(md.Lines, "let data = "+send, "return try decoder.decode("+md.Response+".self, from: data)")
	} else {
		md.Lines = append(md.Lines, "_ = "+send)
	}
	return md, nil
}

func (c *clientData) refType(r client.TypeRef, names *render.Allocator) (string, error) {
	var t string
	if r.IsPrimitive {
		switch r.Primitive {
		case ir.PrimitiveString:
			t = "String"
		case ir.PrimitiveInteger:
			t = "Int"
		case ir.PrimitiveNumber:
			t = "Double"
		case ir.PrimitiveBoolean:
			t = "Bool"
		default:
			c.usesAny = true
			t = "[String: JSONAny]"
		}
	} else {
		name, ok := names.TopLevelName(r.Name)
		if !ok {
			return "", ir.Errorf(ir.CodeTypeMapping, "type %s is not declared", r.Name).WithSchema(r.Name)
		}
		t = name
	}
	if r.IsArray {
		t = "[" + t + "]"
	}
	return t, nil
}

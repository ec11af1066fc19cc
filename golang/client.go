package golang

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

//go:embed templates/client.go.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "templates/client.go.tmpl"))

type clientData struct {
	Package string
	Prefix  string
	Client  string
	Methods []methodData
}

type methodData struct {
	Name    string
	Doc     []string
	Args    string
	Results string
	Lines   []string
}

func renderClient(spec *client.Spec, clientName string, names *render.Allocator, opts Options) ([]byte, error) {
	data := clientData{Package: opts.Package, Prefix: spec.Prefix, Client: clientName}
	for i := range spec.Methods {
		m, err := method(&spec.Methods[i], names, opts)
		if err != nil {
			return nil, ir.AnnotateRoute(err, spec.Methods[i].Path, string(spec.Methods[i].HTTPMethod))
		}
		data.Methods = append(data.Methods, m)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "client.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func method(m *client.Method, names *render.Allocator, opts Options) (methodData, error) {
	md := methodData{Name: exported(m.Name)}
	if md.Name == "BaseURL" || md.Name == "HTTPClient" {
		// Taken by the client's fields.
		md.Name += "Call"
	}
	if opts.Comments {
		md.Doc = append(md.Doc, md.Name+" calls "+strings.ToUpper(string(m.HTTPMethod))+" "+m.Path+".")
		if m.Summary != "" {
			md.Doc = append(md.Doc, "")
			md.Doc = append(md.Doc, strings.Split(strings.TrimSpace(m.Summary), "\n")...)
		}
		if m.Deprecated {
			md.Doc = append(md.Doc, "", "Deprecated: this operation is deprecated.")
		}
	}

	args := []string{"ctx context.Context"}
	// A path and a query parameter may share a name, so each location
	// keeps its own locals.
	pathLocals := make(map[string]string, len(m.PathParams))
	queryLocals := make(map[string]string, len(m.QueryParams))
	taken := make(map[string]bool)
	for i, p := range m.Params() {
		t, err := refType(p.Type, names)
		if err != nil {
			return methodData{}, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		l := unique(local(p.Name), taken)
		if i < len(m.PathParams) {
			pathLocals[p.Name] = l
		} else {
			queryLocals[p.Name] = l
		}
		if p.Type.IsOptional && !p.Type.IsArray {
			t = "*" + t
		}
		args = append(args, l+" "+t)
	}

	payload := "nil"
	if m.Request != nil {
		t, err := refType(*m.Request, names)
		if err != nil {
			return methodData{}, fmt.Errorf("request body: %w", err)
		}
		if m.Request.IsOptional && !m.Request.IsArray {
			t = "*" + t
			payload = "payload"
		} else {
			payload = "body"
		}
		args = append(args, "body "+t)
	}
	md.Args = strings.Join(args, ", ")

	md.Lines = append(md.Lines, "path := "+strconv.Quote(m.Path))
	for _, name := range m.Placeholders {
		if l, ok := pathLocals[name]; ok {
			md.Lines = append(md.Lines, "path = strings.ReplaceAll(path, "+strconv.Quote("{"+name+"}")+", url.PathEscape(fmt.Sprint("+l+")))")
		}
	}
	query := "nil"
	if len(m.QueryParams) > 0 {
		query = "query"
		md.Lines = append(md.Lines, "query := url.Values{}")
		for _, p := range m.QueryParams {
			l, key := queryLocals[p.Name], strconv.Quote(p.Name)
			switch {
			case p.Type.IsArray:
				md.Lines = append(md.Lines,
					"for _, v := range "+l+" {",
					"\tquery.Add("+key+", fmt.Sprint(v))",
					"}")
			case p.Type.IsOptional:
				md.Lines = append(md.Lines,
					"if "+l+" != nil {",
					"\tquery.Set("+key+", fmt.Sprint(*"+l+"))",
					"}")
			default:
				md.Lines = append(md.Lines, "query.Set("+key+", fmt.Sprint("+l+"))")
			}
		}
	}
	if payload == "payload" {
		md.Lines = append(md.Lines,
			"var payload any",
			"if body != nil {",
			"\tpayload = body",
			"}")
	}

	call := "c.do(ctx, " + strconv.Quote(strings.ToUpper(string(m.HTTPMethod))) + ", path, " + query + ", " + payload + ", "
	if m.Response == nil {
		md.Results = "error"
		md.Lines = append(md.Lines, "return "+call+"nil)")
		return md, nil
	}
	t, err := refType(*m.Response, names)
	if err != nil {
		return methodData{}, fmt.Errorf("response body: %w", err)
	}
	md.Lines = append(md.Lines, "var out "+t)
	if m.Response.IsArray || m.Response.IsPrimitive {
		md.Results = "(" + t + ", error)"
		md.Lines = append(md.Lines,
			"err := "+call+"&out)",
			"return out, err")
		return md, nil
	}
	md.Results = "(*" + t + ", error)"
	md.Lines = append(md.Lines,
		"if err := "+call+"&out); err != nil {",
		"\treturn nil, err",
		"}",
		"return &out, nil")
	return md, nil
}

// refType writes a client type reference.
func refType(r client.TypeRef, names *render.Allocator) (string, error) {
	var t string
	if r.IsPrimitive {
		switch r.Primitive {
		case ir.PrimitiveString:
			t = "string"
		case ir.PrimitiveInteger:
			t = "int64"
		case ir.PrimitiveNumber:
			t = "float64"
		case ir.PrimitiveBoolean:
			t = "bool"
		default:
			t = "map[string]any"
		}
	} else {
		name, ok := names.TopLevelName(r.Name)
		if !ok {
			return "", ir.Errorf(ir.CodeTypeMapping, "type %s is not declared", r.Name).WithSchema(r.Name)
		}
		t = name
	}
	if r.IsArray {
		t = "[]" + t
	}
	return t, nil
}

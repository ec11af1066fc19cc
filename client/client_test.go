package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/apigen/ir"
	"github.com/broady/apigen/openapi"
	"github.com/broady/apigen/schema"
)

func assembleWidgets(t *testing.T) *Spec {
	t.Helper()
	src, err := openapi.Load("../openapi/testdata/widgets_openapi.yaml")
	require.NoError(t, err)
	doc, err := openapi.Extract(src)
	require.NoError(t, err)
	set, err := openapi.Collect(doc)
	require.NoError(t, err)
	spec, err := Assemble("Widgets", doc, set)
	require.NoError(t, err)
	return spec
}

func TestAssemble_Widgets(t *testing.T) {
	spec := assembleWidgets(t)
	assert.Equal(t, "Widgets", spec.Prefix)
	require.Len(t, spec.Methods, 4)

	get := spec.Methods[0]
	assert.Equal(t, "GetWidget", get.Name)
	assert.Equal(t, "getWidget", get.OperationID)
	assert.Equal(t, ir.MethodGet, get.HTTPMethod)
	assert.Equal(t, []string{"id"}, get.Placeholders)
	assert.Equal(t, "Fetch one widget.", get.Summary)
	require.Len(t, get.PathParams, 1)
	assert.Equal(t, Param{Name: "id", Type: TypeRef{Primitive: ir.PrimitiveString, IsPrimitive: true}}, get.PathParams[0])
	require.Len(t, get.QueryParams, 1)
	assert.True(t, get.QueryParams[0].Type.IsOptional)
	assert.Nil(t, get.Request)
	require.NotNil(t, get.Response)
	assert.Equal(t, TypeRef{Primitive: ir.PrimitiveObject, Name: "GetWidgetResponseBody"}, *get.Response)

	del := spec.Methods[1]
	assert.Equal(t, "DeleteWidget", del.Name)
	assert.True(t, del.Deprecated)
	assert.Nil(t, del.Response)

	list := spec.Methods[2]
	assert.Equal(t, "ListWidgets", list.Name)
	require.NotNil(t, list.Response)
	assert.Equal(t, "Widget", list.Response.Name)
	assert.True(t, list.Response.IsArray)
	assert.False(t, list.Response.IsPrimitive)
	require.Len(t, list.QueryParams, 2)
	assert.True(t, list.QueryParams[0].Type.IsArray)
	assert.Equal(t, ir.PrimitiveString, list.QueryParams[0].Type.Primitive)

	create := spec.Methods[3]
	require.NotNil(t, create.Request)
	assert.Equal(t, "CreateWidgetRequestBody", create.Request.Name)
	assert.False(t, create.Request.IsOptional)
	assert.Equal(t, "Widget", create.Response.Name)
}

func TestMethod_Params(t *testing.T) {
	m := Method{
		PathParams:  []Param{{Name: "id"}},
		QueryParams: []Param{{Name: "limit"}, {Name: "tag"}},
	}
	var names []string
	for _, p := range m.Params() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"id", "limit", "tag"}, names)
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/widgets", nil},
		{"/widgets/{id}", []string{"id"}},
		{"/orgs/{org}/widgets/{widget_id}/parts", []string{"org", "widget_id"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Placeholders(tt.path), tt.path)
	}
}

func TestAssemble_UnregisteredSynthesizedType(t *testing.T) {
	doc := &ir.Document{
		Routes: []*ir.Route{{
			Name:   "MakeThing",
			Path:   "/things",
			Method: ir.MethodPost,
			Request: &ir.TypeDescriptor{
				Primitive:  ir.PrimitiveObject,
				IsRequired: true,
				Schema:     schema.MustParse(`{type: object}`),
			},
		}},
		Schemas: ir.NewSchemaSet(),
	}

	_, err := Assemble("Things", doc, ir.NewSchemaSet())
	require.Error(t, err)
	assert.True(t, ir.IsCode(err, ir.CodeUnregisteredSynthesizedType))
	e, ok := ir.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "MakeThingRequestBody", e.Schema)
	assert.Equal(t, "/things", e.Path)
	assert.Equal(t, "post", e.Method)
}

func TestAssemble_UndeclaredTypeName(t *testing.T) {
	doc := &ir.Document{
		Routes: []*ir.Route{{
			Name:     "GetThing",
			Path:     "/things/{id}",
			Method:   ir.MethodGet,
			Response: &ir.TypeDescriptor{Primitive: ir.PrimitiveObject, TypeName: "Thing", IsRequired: true},
		}},
		Schemas: ir.NewSchemaSet(),
	}

	_, err := Assemble("Things", doc, ir.NewSchemaSet())
	require.Error(t, err)
	assert.True(t, ir.IsCode(err, ir.CodeTypeMapping))
	assert.Contains(t, err.Error(), "Thing")
}

func TestAssemble_InlineObjectParameter(t *testing.T) {
	doc := &ir.Document{
		Routes: []*ir.Route{{
			Name:   "Search",
			Path:   "/search",
			Method: ir.MethodGet,
			QueryParameters: []ir.Parameter{{
				Name: "filter",
				Type: &ir.TypeDescriptor{Primitive: ir.PrimitiveObject, Schema: schema.MustParse(`{type: object}`)},
			}},
		}},
		Schemas: ir.NewSchemaSet(),
	}

	_, err := Assemble("Search", doc, ir.NewSchemaSet())
	require.Error(t, err)
	assert.True(t, ir.IsCode(err, ir.CodeTypeMapping))
	assert.Contains(t, err.Error(), "filter")
}

func mustParse(t *testing.T, doc string) *openapi.Source {
	t.Helper()
	src, err := openapi.Parse("test.yaml", []byte(doc))
	require.NoError(t, err)
	return src
}

func TestAssemble_NestedArrayParameter(t *testing.T) {
	doc, err := openapi.Extract(mustParse(t, `
paths:
  /grid:
    get:
      operationId: getGrid
      parameters:
        - name: grid
          in: query
          schema: {type: array, items: {type: array, items: {type: integer}}}
      responses:
        '204': {description: empty}
`))
	require.NoError(t, err)
	set, err := openapi.Collect(doc)
	require.NoError(t, err)

	_, err = Assemble("Grid", doc, set)
	require.Error(t, err)
	assert.True(t, ir.IsCode(err, ir.CodeTypeMapping))
	assert.Contains(t, err.Error(), "parameter grid is a nested array")
	assert.NotContains(t, err.Error(), "inline object")
}

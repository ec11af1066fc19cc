package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/apigen/ir"
	"github.com/broady/apigen/schema"
)

func schemaSet(t *testing.T, defs ...string) *ir.SchemaSet {
	t.Helper()
	require.Zero(t, len(defs)%2, "defs must be name/schema pairs")
	set := ir.NewSchemaSet()
	for i := 0; i < len(defs); i += 2 {
		require.NoError(t, set.Add(defs[i], schema.MustParse(defs[i+1]), ir.OriginComponent))
	}
	return set
}

func build(t *testing.T, defs ...string) *Graph {
	t.Helper()
	g, err := Build(schemaSet(t, defs...), WithAttributeProducers(Nullable))
	require.NoError(t, err)
	return g
}

func TestBuild_Class(t *testing.T) {
	g := build(t, "Widget", `
type: object
description: A widget.
required: [name]
properties:
  name: {type: string}
  size: {type: integer}
  ratio: {type: number}
  tags: {type: array, items: {type: string}}
  meta: {type: object, additionalProperties: {type: boolean}}
  owner:
    type: object
    properties:
      id: {type: string}
`)
	require.Len(t, g.TopLevels, 1)
	c, ok := g.TopLevels[0].Node.(*Class)
	require.True(t, ok)
	assert.Equal(t, "Widget", c.ProposedName())
	assert.Equal(t, "A widget.", c.Description())

	var names []string
	for _, p := range c.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"name", "size", "ratio", "tags", "meta", "owner"}, names)

	assert.False(t, c.Properties[0].Optional)
	assert.True(t, c.Properties[1].Optional)
	assert.Same(t, StringType, c.Properties[0].Type)
	assert.Same(t, IntegerType, c.Properties[1].Type)
	assert.Same(t, DoubleType, c.Properties[2].Type)
	assert.Same(t, StringType, c.Properties[3].Type.(*Array).Items)
	assert.Same(t, BoolType, c.Properties[4].Type.(*Map).Values)

	owner, ok := c.Properties[5].Type.(*Class)
	require.True(t, ok)
	assert.Equal(t, "WidgetOwner", owner.ProposedName())
	assert.Len(t, g.Named, 2)
}

func TestBuild_RefsAndRecursion(t *testing.T) {
	g := build(t,
		"Node", `
type: object
properties:
  children: {type: array, items: {$ref: Node}}
  leaf: {$ref: Leaf}
`,
		"Leaf", `{type: object, properties: {value: {type: string}}}`,
	)
	node := g.TopLevels[0].Node.(*Class)
	leaf := g.TopLevels[1].Node.(*Class)
	assert.Same(t, node, node.Properties[0].Type.(*Array).Items)
	assert.Same(t, leaf, node.Properties[1].Type)
}

func TestBuild_UnknownRefFails(t *testing.T) {
	_, err := Build(schemaSet(t, "A", `{type: object, properties: {b: {$ref: Missing}}}`))
	require.Error(t, err)
	assert.True(t, ir.IsCode(err, ir.CodeUnresolvedReference))
	assert.Contains(t, err.Error(), "Missing")
}

func TestBuild_AliasLoopFails(t *testing.T) {
	_, err := Build(schemaSet(t, "A", `{$ref: B}`, "B", `{$ref: A}`))
	require.Error(t, err)
	assert.True(t, ir.IsCode(err, ir.CodeUnresolvedReference))
}

func TestBuild_Nullable(t *testing.T) {
	g := build(t, "Thing", `
type: object
properties:
  note: {type: string, nullable: true}
  plain: {type: string}
`)
	c := g.TopLevels[0].Node.(*Class)
	u, ok := c.Properties[0].Type.(*Union)
	require.True(t, ok)
	inner, ok := NullableMember(u)
	require.True(t, ok)
	assert.Same(t, StringType, inner)
	assert.Same(t, StringType, c.Properties[1].Type)
}

func TestBuild_NullableIgnoredWithoutProducer(t *testing.T) {
	g, err := Build(schemaSet(t, "S", `{type: string, nullable: true}`))
	require.NoError(t, err)
	assert.Same(t, StringType, g.TopLevels[0].Node)
}

func TestBuild_Unions(t *testing.T) {
	g := build(t, "Widget", `
type: [array, boolean, object, integer, number, "null", string]
items: {}
properties:
  name: {type: string}
required: [name]
`)
	u, ok := g.TopLevels[0].Node.(*Union)
	require.True(t, ok)
	require.Len(t, u.Members, 7)
	assert.Equal(t, KindArray, u.Members[0].Kind())
	cls := u.Members[2].(*Class)
	assert.Equal(t, "Widget", cls.ProposedName())
	assert.Equal(t, "Widget", u.ProposedName())
	assert.Equal(t, KindNull, u.Members[6].Kind())
}

func TestBuild_OneOfFlattensAndDedupes(t *testing.T) {
	g := build(t, "Value", `
oneOf:
  - type: string
  - oneOf: [{type: string}, {type: integer}]
  - type: integer
`)
	u := g.TopLevels[0].Node.(*Union)
	assert.Equal(t, []Node{StringType, IntegerType}, u.Members)

	g = build(t, "Only", `{anyOf: [{type: string}]}`)
	assert.Same(t, StringType, g.TopLevels[0].Node)
}

func TestBuild_Enum(t *testing.T) {
	g := build(t, "Color", `{type: string, enum: [red, green, red, blue]}`)
	e, ok := g.TopLevels[0].Node.(*Enum)
	require.True(t, ok)
	assert.Equal(t, []string{"red", "green", "blue"}, e.Cases)

	g = build(t, "Code", `{type: integer, enum: [1, 2]}`)
	assert.Same(t, IntegerType, g.TopLevels[0].Node)
}

func TestBuild_AllOfMerges(t *testing.T) {
	g := build(t,
		"Base", `{type: object, required: [id], properties: {id: {type: string}}}`,
		"Pet", `
allOf:
  - $ref: Base
  - type: object
    properties:
      name: {type: string}
required: [name]
`)
	pet := g.TopLevels[1].Node.(*Class)
	require.Len(t, pet.Properties, 2)
	assert.Equal(t, "id", pet.Properties[0].Name)
	assert.False(t, pet.Properties[0].Optional)
	assert.Equal(t, "name", pet.Properties[1].Name)
	assert.False(t, pet.Properties[1].Optional)
}

func TestBuild_ObjectsWithoutProperties(t *testing.T) {
	g := build(t,
		"Open", `{type: object}`,
		"Closed", `{type: object, additionalProperties: false}`,
		"Untyped", `{description: anything}`,
	)
	assert.Same(t, AnyType, g.TopLevels[0].Node.(*Map).Values)
	closed := g.TopLevels[1].Node.(*Class)
	assert.Empty(t, closed.Properties)
	assert.Same(t, AnyType, g.TopLevels[2].Node)
}

func TestBuild_IsDeterministic(t *testing.T) {
	defs := []string{
		"A", `{type: object, properties: {x: {type: object, properties: {y: {type: string}}}, z: {oneOf: [{type: string}, {type: integer}]}}}`,
		"B", `{type: string, enum: [a, b]}`,
	}
	g1 := build(t, defs...)
	g2 := build(t, defs...)
	require.Equal(t, len(g1.Named), len(g2.Named))
	for i := range g1.Named {
		assert.Equal(t, g1.Named[i].ProposedName(), g2.Named[i].ProposedName())
		assert.Equal(t, g1.Named[i].Kind(), g2.Named[i].Kind())
	}
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesKeyOrder(t *testing.T) {
	n := MustParse(`
zeta: 1
alpha: two
mid: [true, null, 3.5]
`)
	require.True(t, n.IsObject())
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, n.Keys())
	assert.Equal(t, KindNumber, n.Get("zeta").Kind())
	assert.Equal(t, "two", n.Get("alpha").Str())

	items := n.Get("mid").Items()
	require.Len(t, items, 3)
	v, ok := items[0].Bool()
	assert.True(t, ok)
	assert.True(t, v)
	assert.Equal(t, KindNull, items[1].Kind())
	assert.Equal(t, "3.5", items[2].Str())
	assert.Equal(t, 3, n.Get("alpha").Line())
}

func TestParse_JSONInput(t *testing.T) {
	n, err := Parse([]byte(`{"b": {"$ref": "#/x"}, "a": [1, 2]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, n.Keys())
	assert.Equal(t, "#/x", n.Get("b").Ref())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(""))
	assert.Error(t, err)

	_, err = Parse([]byte("a: 1\na: 2\n"))
	assert.Error(t, err)
}

func TestNilNodeIsAbsent(t *testing.T) {
	var n *Node
	assert.Equal(t, KindNull, n.Kind())
	assert.Nil(t, n.Get("x"))
	assert.False(t, n.Has("x"))
	assert.Empty(t, n.Keys())
	assert.Equal(t, "", n.Ref())
	assert.Equal(t, 0, n.Len())
}

func TestLookup(t *testing.T) {
	n := MustParse(`
components:
  schemas:
    a/b:
      type: string
    t~x:
      type: integer
list:
  - first
  - second
`)
	got, ok := n.Lookup("/components/schemas/a~1b")
	require.True(t, ok)
	assert.Equal(t, "string", got.Get("type").Str())

	got, ok = n.Lookup("/components/schemas/t~0x")
	require.True(t, ok)
	assert.Equal(t, "integer", got.Get("type").Str())

	got, ok = n.Lookup("/list/1")
	require.True(t, ok)
	assert.Equal(t, "second", got.Str())

	_, ok = n.Lookup("/list/7")
	assert.False(t, ok)
	_, ok = n.Lookup("/missing")
	assert.False(t, ok)
	_, ok = n.Lookup("components")
	assert.False(t, ok)
}

func TestRewriteRefs(t *testing.T) {
	n := MustParse(`
type: object
properties:
  owner:
    $ref: '#/components/schemas/User'
  tags:
    type: array
    items:
      $ref: '#/components/schemas/Tag'
  plain:
    type: string
`)
	out := n.RewriteRefs("#/components/schemas/")

	assert.Equal(t, "User", out.Get("properties").Get("owner").Ref())
	assert.Equal(t, "Tag", out.Get("properties").Get("tags").Get("items").Ref())
	assert.Equal(t, []string{"type", "properties"}, out.Keys())

	// The input is untouched and unchanged subtrees are shared.
	assert.Equal(t, "#/components/schemas/User", n.Get("properties").Get("owner").Ref())
	assert.Same(t, n.Get("properties").Get("plain"), out.Get("properties").Get("plain"))

	same := n.Get("properties").Get("plain")
	assert.Same(t, same, same.RewriteRefs("#/components/schemas/"))
}

func TestJSON_KeepsOrder(t *testing.T) {
	n := MustParse(`
z: 1
a: [x, 0x10, 1_000]
m: {k: ~}
`)
	data, err := n.JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":["x",16,1000],"m":{"k":null}}`, string(data))
}

func TestEqual(t *testing.T) {
	a := MustParse(`{"type": "object", "properties": {"a": {"type": "string"}}}`)
	b := MustParse(`
properties:
  a:
    type: string
type: object
`)
	c := MustParse(`{"type": "object", "properties": {"a": {"type": "integer"}}}`)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, MustParse("1.0").Equal(MustParse("1")))
}
